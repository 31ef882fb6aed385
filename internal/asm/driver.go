package asm

import (
	"errors"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/smoynes/lc3asm/internal/objfile"
)

// AssembleUnit drives one unit end to end: detect whether filename is a
// pre-assembled object file or source text, read it, and (for source)
// lex, parse, and encode every line, then sort its symbol table and
// check it for duplicate labels. Every error found along the way is
// returned, joined with errors.Join.
func AssembleUnit(u *Unit, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		u.Error()
		return err
	}
	defer f.Close()

	if isObjectFile(filename, f) {
		return u.readObject(f)
	}

	var errs []error

	if err := u.ReadSource(f); err != nil {
		u.Error()
		errs = append(errs, err)
	}

	for i := range u.Lines {
		stmt, perr := ParseLine(u, i)
		if perr != nil {
			u.Error()
			errs = append(errs, perr)
			continue
		}

		if stmt == nil {
			continue
		}

		if err := u.Encode(stmt); err != nil {
			u.Error()
			errs = append(errs, err)
		}
	}

	u.Symbols.Sort(u.ctx)

	if dups := u.Symbols.Duplicates(u.ctx); len(dups) > 0 {
		u.Error()
		for _, d := range dups {
			errs = append(errs, d)
		}
	}

	return errors.Join(errs...)
}

func isObjectFile(filename string, f *os.File) bool {
	if !strings.HasSuffix(filename, ".obj") {
		return false
	}

	peek := make([]byte, len(objfile.Magic))

	n, _ := f.Read(peek)
	_, _ = f.Seek(0, 0)

	return objfile.IsObjectFile(filename, peek[:n])
}

// readObject reconstructs a unit's symbols and sections from an
// on-disk object file. Per symbol name and per label/debug text, a
// pseudo-line is appended to the unit's line buffer so later slicing
// with a token continues to work.
func (u *Unit) readObject(r *os.File) error {
	file, err := objfile.Decode(r)
	if err != nil {
		u.Error()
		return err
	}

	for _, rec := range file.Units {
		for _, s := range rec.Symbols {
			idx, tk := u.appendPseudoLine(s.Name)
			u.Symbols.Add(Symbol{
				Address: s.Address,
				Def:     Location{Unit: u.ID, Line: idx, Token: tk},
			})
		}

		for _, sec := range rec.Sections {
			section := &Section{Origin: sec.Origin}

			for _, l := range sec.Lines {
				ol := ObjectLine{Word: l.Word}

				if l.Label != "" {
					idx, tk := u.appendPseudoLine(l.Label)
					ol.Label = Location{Unit: u.ID, Line: idx, Token: tk}

					// JSR (opcode 0x4) carries an 11-bit offset; every
					// other label-referencing instruction a 9-bit one.
					ol.FamilyWidth = 9
					if l.Word>>12 == 0x4 {
						ol.FamilyWidth = 11
					}
				}

				if l.Debug != "" {
					idx, tk := u.appendPseudoLine(l.Debug)
					ol.Debug = Location{Unit: u.ID, Line: idx, Token: tk}
				}

				section.Lines = append(section.Lines, ol)
			}

			u.Sections = append(u.Sections, section)
		}
	}

	return nil
}

func (u *Unit) appendPseudoLine(text string) (int, Token) {
	idx := len(u.Lines)
	u.Lines = append(u.Lines, []byte(text))

	return idx, Token{Start: 0, Length: len(text)}
}

// AssembleUnits runs AssembleUnit for every filename, one goroutine per
// unit, and joins before returning. Units are registered with ctx before
// the fan-out so that each has a stable UnitID; from then on every
// worker touches only its own unit.
func AssembleUnits(ctx *Context, filenames []string) []error {
	units := make([]*Unit, len(filenames))
	for i, fn := range filenames {
		units[i] = NewUnit(ctx, fn)
	}

	errs := make([]error, len(filenames))

	var g errgroup.Group
	for i := range filenames {
		i := i

		g.Go(func() error {
			errs[i] = AssembleUnit(units[i], filenames[i])
			return errs[i]
		})
	}

	_ = g.Wait()

	return errs
}
