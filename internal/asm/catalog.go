package asm

import "strings"

// Kind distinguishes a catalog entry's role: an assembler directive versus
// a real instruction mnemonic.
type Kind uint8

const (
	KindDirective Kind = iota
	KindInstruction
)

// CatalogEntry describes one recognized mnemonic or directive: its
// canonical (uppercase) name, whether it is a directive, and the accepted
// TokenType mask for each expected operand, in order.
type CatalogEntry struct {
	Name     string
	Kind     Kind
	Operands []TokenType
}

// Catalog is the static table of all 37 recognized mnemonics and
// directives.
var Catalog = []CatalogEntry{
	{".ORIG", KindDirective, []TokenType{NUM}},
	{".BLKW", KindDirective, []TokenType{NUM}},
	{".FILL", KindDirective, []TokenType{NUM}},
	{".STRINGZ", KindDirective, []TokenType{STR}},
	{".EXTERN", KindDirective, []TokenType{KEY}},
	{".END", KindDirective, nil},

	{"ADD", KindInstruction, []TokenType{REG, REG, REG | NUM}},
	{"AND", KindInstruction, []TokenType{REG, REG, REG | NUM}},

	{"BR", KindInstruction, []TokenType{KEY}},
	{"BRN", KindInstruction, []TokenType{KEY}},
	{"BRZ", KindInstruction, []TokenType{KEY}},
	{"BRP", KindInstruction, []TokenType{KEY}},
	{"BRNZ", KindInstruction, []TokenType{KEY}},
	{"BRNP", KindInstruction, []TokenType{KEY}},
	{"BRZP", KindInstruction, []TokenType{KEY}},
	{"BRNZP", KindInstruction, []TokenType{KEY}},

	{"JMP", KindInstruction, []TokenType{REG}},
	{"RET", KindInstruction, nil},

	{"JSR", KindInstruction, []TokenType{KEY}},
	{"JSRR", KindInstruction, []TokenType{REG}},

	{"LD", KindInstruction, []TokenType{REG, KEY}},
	{"LDI", KindInstruction, []TokenType{REG, KEY}},
	{"LDR", KindInstruction, []TokenType{REG, REG, NUM}},
	{"LEA", KindInstruction, []TokenType{REG, KEY}},

	{"NOT", KindInstruction, []TokenType{REG, REG}},
	{"RTI", KindInstruction, nil},

	{"ST", KindInstruction, []TokenType{REG, KEY}},
	{"STI", KindInstruction, []TokenType{REG, KEY}},
	{"STR", KindInstruction, []TokenType{REG, REG, NUM}},

	{"GETC", KindInstruction, nil},
	{"HALT", KindInstruction, nil},
	{"OUT", KindInstruction, nil},
	{"PUTC", KindInstruction, nil},
	{"PUTS", KindInstruction, nil},
	{"PUTSP", KindInstruction, nil},
	{"TRAP", KindInstruction, []TokenType{NUM}},
	{"IN", KindInstruction, nil},
}

// Lookup finds the catalog entry matching name, case-insensitively.
// Names containing characters other than letters and '.' never match
// since no catalog entry contains them.
func Lookup(name string) (CatalogEntry, bool) {
	up := strings.ToUpper(name)

	for _, e := range Catalog {
		if e.Name == up {
			return e, true
		}
	}

	return CatalogEntry{}, false
}
