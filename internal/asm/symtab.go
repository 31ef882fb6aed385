package asm

import (
	"sort"
	"strings"
)

// Symbol is a (address, defining-location) pair. Its name is never
// stored; it is recovered by slicing the defining location's line with
// its token.
type Symbol struct {
	Address uint16
	Def     Location
}

// SymbolTable is a per-unit, append-only collection of symbols. Call Sort
// once parsing of a unit (or a link-time merge) completes, before calling
// Lookup or Duplicates.
type SymbolTable struct {
	Symbols []Symbol
}

// Add appends a symbol. The table must be Sort-ed again before Lookup or
// Duplicates is next called.
func (st *SymbolTable) Add(s Symbol) {
	st.Symbols = append(st.Symbols, s)
}

// Count returns the number of symbols in the table.
func (st *SymbolTable) Count() int {
	return len(st.Symbols)
}

// SymbolName recovers a symbol's case-folded name from its defining
// location.
func SymbolName(ls LineSource, s Symbol) string {
	return strings.ToUpper(s.Def.Text(ls))
}

// Sort orders symbols by case-insensitive name, breaking ties by
// defining unit then line, so that adjacent equal names after sorting
// are exactly the duplicates.
func (st *SymbolTable) Sort(ls LineSource) {
	sort.SliceStable(st.Symbols, func(i, j int) bool {
		a, b := st.Symbols[i], st.Symbols[j]

		na, nb := SymbolName(ls, a), SymbolName(ls, b)
		if na != nb {
			return na < nb
		}

		if a.Def.Unit != b.Def.Unit {
			return a.Def.Unit < b.Def.Unit
		}

		return a.Def.Line < b.Def.Line
	})
}

// Duplicates scans the sorted table for adjacent equal names, returning
// one "redefinition" error (for the later symbol) and one "first defined
// here" error (for the earlier symbol) per duplicate pair.
func (st *SymbolTable) Duplicates(ls LineSource) []*SymbolError {
	var errs []*SymbolError

	for i := 1; i < len(st.Symbols); i++ {
		cur, prev := st.Symbols[i], st.Symbols[i-1]
		if SymbolName(ls, cur) != SymbolName(ls, prev) {
			continue
		}

		errs = append(errs,
			&SymbolError{Loc: cur.Def, Symbol: SymbolName(ls, cur), Msg: "redefinition of label"},
			&SymbolError{Loc: prev.Def, Symbol: SymbolName(ls, prev), Msg: "first defined here"},
		)
	}

	return errs
}

// Lookup performs a binary search for want (case-insensitive) in the
// sorted table.
func (st *SymbolTable) Lookup(ls LineSource, want string) (Symbol, bool) {
	want = strings.ToUpper(want)

	i := sort.Search(len(st.Symbols), func(i int) bool {
		return SymbolName(ls, st.Symbols[i]) >= want
	})

	if i < len(st.Symbols) && SymbolName(ls, st.Symbols[i]) == want {
		return st.Symbols[i], true
	}

	return Symbol{}, false
}

// Merge concatenates several symbol tables into one, unsorted. Call Sort
// on the result before using Lookup or Duplicates.
func Merge(tables ...*SymbolTable) SymbolTable {
	var out SymbolTable

	for _, t := range tables {
		out.Symbols = append(out.Symbols, t.Symbols...)
	}

	return out
}
