package asm

import "sync/atomic"

// Mode selects what AssembleUnits' caller ultimately does with the
// assembled units: link to an executable, assemble object files, or dump
// a symbol table. The core pipeline itself is mode-agnostic; Mode is
// bookkeeping the CLI layer stashes on the shared Context.
type Mode uint8

const (
	ModeLink Mode = iota
	ModeAssemble
	ModeSymbols
)

// Context is process-wide state shared across every unit in one
// invocation: debug-embedding flags, read-only after setup, and the
// aggregate error flag. Any unit error must also mark the context as
// errored.
type Context struct {
	Mode        Mode
	StoreDebug  bool
	StoreIndent bool

	Units []*Unit

	errored atomic.Bool
}

// SetError marks the context as having encountered an error. The flag is
// write-once-monotone: concurrent writers may race, but only the value
// observed after every unit has joined matters.
func (c *Context) SetError() {
	c.errored.Store(true)
}

// Errored reports whether any unit has called SetError.
func (c *Context) Errored() bool {
	return c.errored.Load()
}

// AddUnit assigns u a stable UnitID and appends it to the context's
// units. Units are added before the parallel assembly phase begins; once
// workers are running, each owns only its own unit.
func (c *Context) AddUnit(u *Unit) UnitID {
	id := UnitID(len(c.Units))
	u.ID = id
	u.ctx = c
	c.Units = append(c.Units, u)

	return id
}

// Unit returns the unit with the given ID.
func (c *Context) Unit(id UnitID) *Unit {
	return c.Units[id]
}

// Line implements LineSource, resolving a (unit, line) pair to its
// backing byte slice.
func (c *Context) Line(unit UnitID, line int) []byte {
	if int(unit) < 0 || int(unit) >= len(c.Units) {
		return nil
	}

	u := c.Units[unit]
	if line < 0 || line >= len(u.Lines) {
		return nil
	}

	return u.Lines[line]
}

// SymbolTables returns a pointer to each unit's symbol table, in unit
// order, suitable for Merge.
func (c *Context) SymbolTables() []*SymbolTable {
	tables := make([]*SymbolTable, len(c.Units))
	for i, u := range c.Units {
		tables[i] = &u.Symbols
	}

	return tables
}
