package asm

import "strings"

// StatementKind distinguishes the three shapes a non-empty line can take.
type StatementKind uint8

const (
	KindLabelOnly StatementKind = iota
	KindInstr
	KindDir
)

// Statement is the fully-parsed form of one non-empty source line.
type Statement struct {
	Line        int
	Label       *Token
	Mnemonic    Token
	Operands    [3]Token
	NumOperands int
	Entry       CatalogEntry
	Kind        StatementKind
}

func kindOf(e CatalogEntry) StatementKind {
	if e.Kind == KindDirective {
		return KindDir
	}

	return KindInstr
}

// ParseLine lexes and parses line lineIdx of u, following the six-step
// procedure: lex the first token; if it matches the catalog it is the
// mnemonic (no label); otherwise it must be a valid label, followed by a
// catalog mnemonic; then each expected operand is lexed and type-checked
// in turn; any further token is an error. A nil, nil result means the
// line was empty and should be skipped.
func ParseLine(u *Unit, lineIdx int) (*Statement, *SyntaxError) {
	line := u.Lines[lineIdx]

	tk := NextToken(0, line)
	if tk.Length == 0 {
		return nil, nil
	}

	var label *Token

	entry, found := Lookup(tk.Text(line))

	if !found {
		class := Classify(tk, line)
		if class&(PSEUD|NUM|REG) != 0 {
			return nil, newSyntaxError(u, lineIdx, tk, "invalid label")
		}

		lbl := tk
		label = &lbl

		next := NextToken(tk.Start+tk.Length, line)
		if next.Length == 0 {
			return &Statement{Line: lineIdx, Label: label, Kind: KindLabelOnly}, nil
		}

		entry, found = Lookup(next.Text(line))
		if !found {
			return nil, newSyntaxError(u, lineIdx, next, "invalid instruction")
		}

		tk = next
	}

	stmt := &Statement{
		Line:     lineIdx,
		Label:    label,
		Mnemonic: tk,
		Entry:    entry,
		Kind:     kindOf(entry),
	}

	cursor := tk.Start + tk.Length

	for i, want := range entry.Operands {
		opTok := NextToken(cursor, line)
		if opTok.Length == 0 {
			return nil, newSyntaxError(u, lineIdx, tk, "unexpected end of line")
		}

		if Classify(opTok, line)&want == 0 {
			return nil, newSyntaxError(u, lineIdx, opTok, "unexpected token")
		}

		stmt.Operands[i] = opTok
		stmt.NumOperands++
		cursor = opTok.Start + opTok.Length
	}

	if extra := NextToken(cursor, line); extra.Length > 0 {
		return nil, newSyntaxError(u, lineIdx, extra, "unexpected extra argument")
	}

	return stmt, nil
}

// mnemonicName upper-cases a statement's mnemonic text.
func mnemonicName(stmt *Statement, line []byte) string {
	return strings.ToUpper(stmt.Mnemonic.Text(line))
}
