// Package link resolves the unresolved PC-relative label references left
// behind by internal/asm's encoder, folding each symbol's address into
// its referencing word, then checks that no two units' sections
// overlap in the final sixteen-bit address space.
package link

import (
	"fmt"
	"sort"

	"github.com/smoynes/lc3asm/internal/asm"
)

// Width9 and Width11 are the two PC-relative offset families in the
// LC-3 instruction set: nine bits (BR, LD, LDI, LEA, ST, STI) and
// eleven bits (JSR).
const (
	Width9  = 9
	Width11 = 11
)

// Error is a linker-stage diagnostic with no token-level source span,
// printed as a single line.
type Error struct {
	File  string
	Msg   string
	Token string
}

func (e *Error) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s: error: %s", e.File, e.Msg)
	}

	return fmt.Sprintf("%s: error: %s %q", e.File, e.Msg, e.Token)
}

// Linked is the result of a successful link: the combined symbol table
// and the units whose sections now carry fully resolved words.
type Linked struct {
	Symbols asm.SymbolTable
	Units   []*asm.Unit
}

// Link merges every unit's symbol table, rejects cross-unit duplicate
// definitions, resolves every unresolved label reference against the
// merged table, and finally rejects any two sections whose address
// ranges overlap. All errors found are returned together; Link does not
// stop at the first one.
func Link(ctx *asm.Context) (*Linked, []error) {
	var errs []error

	tables := ctx.SymbolTables()
	combined := asm.Merge(tables...)
	combined.Sort(ctx)

	for _, d := range combined.Duplicates(ctx) {
		ctx.SetError()
		errs = append(errs, d)
	}

	units := ctx.Units

	for _, u := range units {
		for _, sec := range u.Sections {
			addr := sec.Origin

			for i := range sec.Lines {
				ol := &sec.Lines[i]

				if ol.Label.Token.Length > 0 {
					if rerr := resolve(ctx, &combined, u, addr, ol); rerr != nil {
						ctx.SetError()
						errs = append(errs, rerr)
					}
				}

				addr++
			}
		}
	}

	if overlapErrs := checkOverlaps(units); len(overlapErrs) > 0 {
		for _, e := range overlapErrs {
			ctx.SetError()
			errs = append(errs, e)
		}
	}

	return &Linked{Symbols: combined, Units: units}, errs
}

func resolve(ls asm.LineSource, combined *asm.SymbolTable, u *asm.Unit, addr uint16, ol *asm.ObjectLine) error {
	name := ol.Label.Text(ls)

	sym, ok := combined.Lookup(ls, name)
	if !ok {
		return &Error{File: u.Filename, Msg: "undefined symbol", Token: name}
	}

	offset := int(sym.Address) - int(addr) - 1

	lo, hi := rangeFor(ol.FamilyWidth)
	if offset < lo || offset > hi {
		return &Error{
			File: u.Filename,
			Msg:  fmt.Sprintf("offset to %q out of range [%d,%d]: %d", name, lo, hi, offset),
		}
	}

	mask := uint16(1)<<ol.FamilyWidth - 1
	ol.Word = (ol.Word &^ mask) | (uint16(offset) & mask)
	ol.Label = asm.Location{}

	return nil
}

func rangeFor(width uint8) (int, int) {
	if width == Width11 {
		return -1024, 1023
	}

	return -256, 255
}

type interval struct {
	start, end int
	file       string
}

// checkOverlaps flags any two sections, across all units, whose address
// ranges overlap. A section's end is one past its last word, and a
// section whose origin is less than or equal to the previous section's
// end is reported, so a section that begins exactly at that end address
// also counts as an overlap.
func checkOverlaps(units []*asm.Unit) []error {
	var ivs []interval

	for _, u := range units {
		for _, sec := range u.Sections {
			ivs = append(ivs, interval{
				start: int(sec.Origin),
				end:   int(sec.Origin) + len(sec.Lines),
				file:  u.Filename,
			})
		}
	}

	sort.Slice(ivs, func(i, j int) bool { return ivs[i].start < ivs[j].start })

	var errs []error

	for i := 1; i < len(ivs); i++ {
		if ivs[i].start <= ivs[i-1].end {
			errs = append(errs, &Error{
				File: ivs[i].file,
				Msg:  fmt.Sprintf("section overlaps %s", ivs[i-1].file),
			})
		}
	}

	return errs
}
