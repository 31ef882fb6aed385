package asm

import (
	"bufio"
	"bytes"
	"io"
	"sync/atomic"
)

const maxLineLength = 128

// ObjectLine is one emitted sixteen-bit word, plus its deferred
// metadata: an unresolved label reference (if the word still needs a
// PC-offset folded in) and a debug-text reference (if debug embedding is
// enabled). A zero-length Label.Token means the word is already final.
type ObjectLine struct {
	Word        uint16
	Label       Location
	FamilyWidth uint8 // 9 or 11; meaningful only when Label is set
	Debug       Location
}

// Section is a contiguous run of object lines bounded by .ORIG and .END.
type Section struct {
	Origin uint16
	Lines  []ObjectLine
}

// Unit is the in-memory representation of one input file -- source or
// pre-assembled object -- through lexing, parsing, and encoding. Its
// state is exclusively owned by whichever goroutine is assembling it;
// only the Context it was added to is shared.
type Unit struct {
	ID       UnitID
	Filename string
	Lines    [][]byte
	Sections []*Section
	Symbols  SymbolTable

	current *Section
	addr    uint16
	addrSet bool

	errored atomic.Bool
	ctx     *Context
}

// NewUnit creates a unit for filename and registers it with ctx.
func NewUnit(ctx *Context, filename string) *Unit {
	u := &Unit{Filename: filename}
	ctx.AddUnit(u)

	return u
}

// Error marks both the unit and its context as errored.
func (u *Unit) Error() {
	u.errored.Store(true)
	if u.ctx != nil {
		u.ctx.SetError()
	}
}

// Errored reports whether Error has been called on this unit.
func (u *Unit) Errored() bool {
	return u.errored.Load()
}

// AddLine appends one line of source text, stripping trailing
// whitespace and truncating (with an error) any line over 128 bytes.
func (u *Unit) AddLine(raw []byte) (int, error) {
	line := append([]byte(nil), raw...)
	line = bytes.TrimRight(line, " \t\r")

	idx := len(u.Lines)

	if len(line) > maxLineLength {
		truncated := append(append([]byte(nil), line[:maxLineLength]...), []byte(" ...")...)
		u.Lines = append(u.Lines, truncated)
		u.Error()

		return idx, &SyntaxError{
			Unit:    u.Filename,
			Line:    idx,
			Excerpt: string(truncated),
			Msg:     "line too long",
		}
	}

	u.Lines = append(u.Lines, line)

	return idx, nil
}

// ReadSource reads r line by line, stripping ';' comments and trailing
// whitespace from each line before appending it.
func (u *Unit) ReadSource(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 4096), 1<<20)

	var firstErr error

	for scanner.Scan() {
		raw := scanner.Bytes()
		if i := bytes.IndexByte(raw, ';'); i >= 0 {
			raw = raw[:i]
		}

		if _, err := u.AddLine(raw); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := scanner.Err(); err != nil {
		u.Error()
		return err
	}

	return firstErr
}
