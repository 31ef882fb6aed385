package asm

import "testing"

func TestParseNumber(t *testing.T) {
	cases := []struct {
		text string
		want int32
		ok   bool
	}{
		{"#10", 10, true},
		{"x0A", 10, true},
		{"b1010", 10, true},
		{"#-1", -1, true},
		{"xG", 0, false},
		{"x", 0, false},
		{"10", 10, true},
	}

	for _, c := range cases {
		line := []byte(c.text)
		tk := Token{Start: 0, Length: len(line)}

		got, ok := ParseNumber(tk, line)
		if ok != c.ok {
			t.Fatalf("ParseNumber(%q) ok = %v, want %v", c.text, ok, c.ok)
		}

		if ok && got != c.want {
			t.Fatalf("ParseNumber(%q) = %d, want %d", c.text, got, c.want)
		}
	}
}

func TestMaterializeString(t *testing.T) {
	line := []byte(`"\n\t\0\"\\"`)
	tk := Token{Start: 0, Length: len(line)}

	got := MaterializeString(tk, line)
	want := []byte{10, 9, 0, 34, 92}

	if len(got) != len(want) {
		t.Fatalf("MaterializeString length = %d, want %d (%v)", len(got), len(want), got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		text string
		want TokenType
	}{
		{".ORIG", PSEUD},
		{"R3", REG},
		{"#10", NUM},
		{`"hi"`, STR},
		{"LOOP", KEY},
	}

	for _, c := range cases {
		line := []byte(c.text)
		tk := Token{Start: 0, Length: len(line)}

		if got := Classify(tk, line); got != c.want {
			t.Fatalf("Classify(%q) = %s, want %s", c.text, got, c.want)
		}
	}
}

func TestNextTokenSkipsSeparators(t *testing.T) {
	line := []byte("ADD R1, R2, R3")

	tk := NextToken(0, line)
	if tk.Text(line) != "ADD" {
		t.Fatalf("first token = %q, want ADD", tk.Text(line))
	}

	tk = NextToken(tk.Start+tk.Length, line)
	if tk.Text(line) != "R1" {
		t.Fatalf("second token = %q, want R1", tk.Text(line))
	}

	tk = NextToken(tk.Start+tk.Length, line)
	if tk.Text(line) != "R2" {
		t.Fatalf("third token = %q, want R2", tk.Text(line))
	}
}
