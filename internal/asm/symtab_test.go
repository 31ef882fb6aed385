package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolTableSortAndLookup(t *testing.T) {
	ctx := &Context{}
	u := NewUnit(ctx, "syms.asm")

	line0, _ := u.AddLine([]byte("ZEBRA"))
	line1, _ := u.AddLine([]byte("apple"))
	line2, _ := u.AddLine([]byte("Mango"))

	u.Symbols.Add(Symbol{Address: 0x3000, Def: Location{Unit: u.ID, Line: line0, Token: Token{Start: 0, Length: 5}}})
	u.Symbols.Add(Symbol{Address: 0x3001, Def: Location{Unit: u.ID, Line: line1, Token: Token{Start: 0, Length: 5}}})
	u.Symbols.Add(Symbol{Address: 0x3002, Def: Location{Unit: u.ID, Line: line2, Token: Token{Start: 0, Length: 5}}})

	u.Symbols.Sort(ctx)

	names := make([]string, u.Symbols.Count())
	for i, s := range u.Symbols.Symbols {
		names[i] = SymbolName(ctx, s)
	}

	assert.Equal(t, []string{"APPLE", "MANGO", "ZEBRA"}, names)

	sym, ok := u.Symbols.Lookup(ctx, "mango")
	assert.True(t, ok)
	assert.Equal(t, uint16(0x3002), sym.Address)

	_, ok = u.Symbols.Lookup(ctx, "missing")
	assert.False(t, ok)
}

func TestSymbolTableMergeAndDuplicates(t *testing.T) {
	ctx := &Context{}
	a := NewUnit(ctx, "a.asm")
	b := NewUnit(ctx, "b.asm")

	la, _ := a.AddLine([]byte("FOO"))
	lb, _ := b.AddLine([]byte("foo"))

	a.Symbols.Add(Symbol{Address: 0x3000, Def: Location{Unit: a.ID, Line: la, Token: Token{Start: 0, Length: 3}}})
	b.Symbols.Add(Symbol{Address: 0x4000, Def: Location{Unit: b.ID, Line: lb, Token: Token{Start: 0, Length: 3}}})

	merged := Merge(&a.Symbols, &b.Symbols)
	merged.Sort(ctx)

	dups := merged.Duplicates(ctx)
	assert.Len(t, dups, 2)
}
