package asm

import "fmt"

// SyntaxError reports a lexical or parse error anchored to a single
// token: a file, line, column, the offending token text, and the source
// line it came from (for excerpt rendering).
type SyntaxError struct {
	Unit    string
	Line    int
	Col     int
	Token   string
	Excerpt string
	Msg     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: error: %s %q", e.Unit, e.Line+1, e.Col+1, e.Msg, e.Token)
}

func (e *SyntaxError) Is(target error) bool {
	_, ok := target.(*SyntaxError)
	return ok
}

func newSyntaxError(u *Unit, line int, tk Token, msg string) *SyntaxError {
	text := u.Lines[line]

	return &SyntaxError{
		Unit:    u.Filename,
		Line:    line,
		Col:     tk.Start,
		Token:   tk.Text(text),
		Excerpt: string(text),
		Msg:     msg,
	}
}

// OffsetRangeError reports a PC-relative offset outside the instruction
// family's encodable range.
type OffsetRangeError struct {
	Offset int
	Range  [2]int
}

func (e *OffsetRangeError) Error() string {
	return fmt.Sprintf("offset %d out of range [%d,%d]", e.Offset, e.Range[0], e.Range[1])
}

// LiteralRangeError reports an immediate literal outside its encodable
// range.
type LiteralRangeError struct {
	Literal int
	Range   [2]int
}

func (e *LiteralRangeError) Error() string {
	return fmt.Sprintf("literal %d out of range [%d,%d]", e.Literal, e.Range[0], e.Range[1])
}

// RegisterError reports an operand that does not name a valid register.
type RegisterError struct {
	Op  string
	Reg string
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("%s: invalid register %q", e.Op, e.Reg)
}

// SymbolError reports a linker-stage symbol problem: an unresolved
// reference or a duplicate definition.
type SymbolError struct {
	Loc    Location
	Symbol string
	Msg    string
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Msg, e.Symbol)
}
