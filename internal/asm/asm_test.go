package asm

import (
	"strings"
	"testing"
)

// assembleString drives one unit's source through lex/parse/encode
// without touching the filesystem, mirroring AssembleUnit's inner loop.
func assembleString(t *testing.T, ctx *Context, filename, source string) *Unit {
	t.Helper()

	u := NewUnit(ctx, filename)
	if err := u.ReadSource(strings.NewReader(source)); err != nil {
		t.Fatalf("ReadSource(%s): %v", filename, err)
	}

	for i := range u.Lines {
		stmt, perr := ParseLine(u, i)
		if perr != nil {
			t.Fatalf("ParseLine(%s:%d): %v", filename, i, perr)
		}

		if stmt == nil {
			continue
		}

		if err := u.Encode(stmt); err != nil {
			t.Fatalf("Encode(%s:%d): %v", filename, i, err)
		}
	}

	u.Symbols.Sort(ctx)

	return u
}

func firstWord(t *testing.T, u *Unit) uint16 {
	t.Helper()

	if len(u.Sections) == 0 || len(u.Sections[0].Lines) == 0 {
		t.Fatalf("unit %s has no encoded lines", u.Filename)
	}

	return u.Sections[0].Lines[0].Word
}

func TestEncodeADD(t *testing.T) {
	ctx := &Context{}
	u := assembleString(t, ctx, "t1.asm", ".ORIG x3000\nADD R1, R2, R3\n.END\n")

	if got := firstWord(t, u); got != 0x1283 {
		t.Fatalf("ADD R1,R2,R3 = %#04x, want 0x1283", got)
	}
}

func TestEncodeANDImmediate(t *testing.T) {
	ctx := &Context{}
	u := assembleString(t, ctx, "t2.asm", ".ORIG x3000\nAND R0, R0, #0\n.END\n")

	if got := firstWord(t, u); got != 0x5020 {
		t.Fatalf("AND R0,R0,#0 = %#04x, want 0x5020", got)
	}
}

func TestEncodeNOT(t *testing.T) {
	ctx := &Context{}
	u := assembleString(t, ctx, "t3.asm", ".ORIG x3000\nNOT R4, R5\n.END\n")

	if got := firstWord(t, u); got != 0x997F {
		t.Fatalf("NOT R4,R5 = %#04x, want 0x997F", got)
	}
}

func TestEncodeBRSelfLoop(t *testing.T) {
	ctx := &Context{}
	u := assembleString(t, ctx, "t4.asm", ".ORIG x3000\nLOOP BRnzp LOOP\n.END\n")

	sym, ok := u.Symbols.Lookup(ctx, "LOOP")
	if !ok || sym.Address != 0x3000 {
		t.Fatalf("LOOP symbol = %+v, ok=%v, want address 0x3000", sym, ok)
	}

	ol := u.Sections[0].Lines[0]
	if ol.Label.Token.Length == 0 {
		t.Fatalf("expected unresolved label reference before linking")
	}

	if err := resolveSelf(ctx, u); err != nil {
		t.Fatalf("resolving self-reference: %v", err)
	}

	if got := u.Sections[0].Lines[0].Word; got != 0x0FFF {
		t.Fatalf("BRnzp LOOP = %#04x, want 0x0FFF", got)
	}
}

// resolveSelf resolves ol.Label using u's own (already-sorted) symbol
// table, without invoking the linker package (which would import asm
// and create a cycle from this test).
func resolveSelf(ctx *Context, u *Unit) error {
	sec := u.Sections[0]
	addr := sec.Origin

	for i := range sec.Lines {
		ol := &sec.Lines[i]
		if ol.Label.Token.Length > 0 {
			name := ol.Label.Text(ctx)

			sym, ok := u.Symbols.Lookup(ctx, name)
			if !ok {
				return &SymbolError{Loc: ol.Label, Symbol: name, Msg: "undefined symbol"}
			}

			offset := int(sym.Address) - int(addr) - 1
			mask := uint16(1)<<ol.FamilyWidth - 1
			ol.Word = (ol.Word &^ mask) | (uint16(offset) & mask)
			ol.Label = Location{}
		}

		addr++
	}

	return nil
}

func TestEncodeLEAAndStringz(t *testing.T) {
	ctx := &Context{}
	u := assembleString(t, ctx, "t5.asm",
		".ORIG x3000\nLEA R0, MSG\nHALT\nMSG .STRINGZ \"HI\"\n.END\n")

	if err := resolveSelf(ctx, u); err != nil {
		t.Fatalf("resolving: %v", err)
	}

	sec := u.Sections[0]
	if len(sec.Lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(sec.Lines))
	}

	want := []uint16{0xE001, 0xF025, 'H', 'I', 0}
	for i, w := range want {
		if sec.Lines[i].Word != w {
			t.Fatalf("line %d = %#04x, want %#04x", i, sec.Lines[i].Word, w)
		}
	}
}

func TestSymbolLookupCaseInsensitive(t *testing.T) {
	ctx := &Context{}
	u := assembleString(t, ctx, "t6.asm", ".ORIG x3000\nFOO .FILL x0\n.END\n")

	for _, name := range []string{"FOO", "Foo", "foo"} {
		if _, ok := u.Symbols.Lookup(ctx, name); !ok {
			t.Fatalf("Lookup(%q) failed", name)
		}
	}
}

func TestDuplicateLabelDetection(t *testing.T) {
	ctx := &Context{}
	u := assembleString(t, ctx, "t7.asm", ".ORIG x3000\nFOO .FILL x0\nFoo .FILL x1\n.END\n")

	dups := u.Symbols.Duplicates(ctx)
	if len(dups) != 2 {
		t.Fatalf("got %d duplicate errors, want 2", len(dups))
	}
}

func TestLineTooLongTruncates(t *testing.T) {
	ctx := &Context{}
	u := NewUnit(ctx, "long.asm")

	long := strings.Repeat("A", 200)

	_, err := u.AddLine([]byte(long))
	if err == nil {
		t.Fatalf("expected an error for an over-length line")
	}

	if !strings.HasSuffix(string(u.Lines[0]), " ...") {
		t.Fatalf("truncated line = %q, want suffix \" ...\"", u.Lines[0])
	}

	if !u.Errored() {
		t.Fatalf("expected unit to be marked errored")
	}
}
