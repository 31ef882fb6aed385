package asm

// Encode interprets one parsed statement against the unit's current
// location counter: directives update the counter and/or section state;
// instructions emit one encoded object line. A label on the statement is
// added to the unit's symbol table at the address the statement itself
// will occupy.
func (u *Unit) Encode(stmt *Statement) error {
	line := u.Lines[stmt.Line]

	var name string
	if stmt.Kind != KindLabelOnly {
		name = mnemonicName(stmt, line)
	}

	if name == ".ORIG" {
		return u.encodeOrig(stmt, line)
	}

	if !u.addrSet {
		tok := stmt.Mnemonic
		if stmt.Kind == KindLabelOnly {
			tok = *stmt.Label
		}

		return newSyntaxError(u, stmt.Line, tok, "directive or instruction outside open section")
	}

	if stmt.Label != nil {
		u.Symbols.Add(Symbol{
			Address: u.addr,
			Def:     Location{Unit: u.ID, Line: stmt.Line, Token: *stmt.Label},
		})
	}

	if stmt.Kind == KindLabelOnly {
		return nil
	}

	switch name {
	case ".END":
		u.addrSet = false
		u.current = nil

		return nil
	case ".FILL":
		val, ok := ParseNumber(stmt.Operands[0], line)
		if !ok {
			return newSyntaxError(u, stmt.Line, stmt.Operands[0], "invalid literal")
		}

		u.emit(ObjectLine{Word: uint16(val)}, stmt, line, 1)

		return nil
	case ".BLKW":
		return u.encodeBlkw(stmt, line)
	case ".STRINGZ":
		return u.encodeStringz(stmt, line)
	case ".EXTERN":
		return nil // reserved; no emission, never cross-referenced.
	default:
		return u.encodeInstruction(stmt, name, line)
	}
}

func (u *Unit) encodeOrig(stmt *Statement, line []byte) error {
	if u.addrSet {
		return newSyntaxError(u, stmt.Line, stmt.Mnemonic, "section already open")
	}

	val, ok := ParseNumber(stmt.Operands[0], line)
	if !ok || val < 0 || val > 0xFFFF {
		return newSyntaxError(u, stmt.Line, stmt.Operands[0], "invalid origin")
	}

	sec := &Section{Origin: uint16(val)}
	u.Sections = append(u.Sections, sec)
	u.current = sec
	u.addr = uint16(val)
	u.addrSet = true

	if stmt.Label != nil {
		u.Symbols.Add(Symbol{
			Address: u.addr,
			Def:     Location{Unit: u.ID, Line: stmt.Line, Token: *stmt.Label},
		})
	}

	return nil
}

func (u *Unit) encodeBlkw(stmt *Statement, line []byte) error {
	val, ok := ParseNumber(stmt.Operands[0], line)
	if !ok || val < 0 || val > 0xFFFF {
		return newSyntaxError(u, stmt.Line, stmt.Operands[0], "invalid allocation size")
	}

	n := int(val)

	for i := 0; i < n; i++ {
		var dbg Location
		if i == 0 {
			dbg = u.debugSpan(stmt, line)
		}

		u.current.Lines = append(u.current.Lines, ObjectLine{Debug: dbg})
	}

	u.addr += uint16(n)

	return nil
}

func (u *Unit) encodeStringz(stmt *Statement, line []byte) error {
	bs := MaterializeString(stmt.Operands[0], line)

	for i, b := range bs {
		var dbg Location
		if i == 0 {
			dbg = u.debugSpan(stmt, line)
		}

		u.current.Lines = append(u.current.Lines, ObjectLine{Word: uint16(b), Debug: dbg})
	}

	u.current.Lines = append(u.current.Lines, ObjectLine{Word: 0})
	u.addr += uint16(len(bs)) + 1

	return nil
}

// emit appends an already-encoded object line, filling in its debug span
// and advancing the location counter by words.
func (u *Unit) emit(ol ObjectLine, stmt *Statement, line []byte, words int) {
	ol.Debug = u.debugSpan(stmt, line)
	u.current.Lines = append(u.current.Lines, ol)
	u.addr += uint16(words)
}

// emitPCOffset emits a one-word instruction whose low bits are an
// unresolved PC-relative reference to labelTok, to be filled in by the
// linker.
func (u *Unit) emitPCOffset(stmt *Statement, line []byte, base uint16, width uint8, labelTok Token) {
	u.emit(ObjectLine{
		Word:        base,
		Label:       Location{Unit: u.ID, Line: stmt.Line, Token: labelTok},
		FamilyWidth: width,
	}, stmt, line, 1)
}

// debugSpan computes the source span recorded for the first object line
// of a statement's emission, or a zero Location if debug embedding is
// off. Callers that emit several lines call it for the first line only.
func (u *Unit) debugSpan(stmt *Statement, line []byte) Location {
	if !u.ctx.StoreDebug {
		return Location{}
	}

	var start int

	switch {
	case u.ctx.StoreIndent:
		start = 0
	case stmt.Label != nil:
		start = stmt.Label.Start
	default:
		start = stmt.Mnemonic.Start
	}

	end := stmt.Mnemonic.Start + stmt.Mnemonic.Length
	for i := 0; i < stmt.NumOperands; i++ {
		if e := stmt.Operands[i].Start + stmt.Operands[i].Length; e > end {
			end = e
		}
	}

	return Location{Unit: u.ID, Line: stmt.Line, Token: Token{Start: start, Length: end - start}}
}

func (u *Unit) encodeInstruction(stmt *Statement, name string, line []byte) error {
	switch name {
	case "ADD":
		return u.encodeAddAnd(stmt, line, 0x1000)
	case "AND":
		return u.encodeAddAnd(stmt, line, 0x5000)
	case "BR", "BRN", "BRZ", "BRP", "BRNZ", "BRNP", "BRZP", "BRNZP":
		return u.encodeBR(stmt, name, line)
	case "JMP":
		reg, ok := registerValue(stmt.Operands[0], line)
		if !ok {
			return &RegisterError{Op: name, Reg: stmt.Operands[0].Text(line)}
		}

		u.emit(ObjectLine{Word: 0xC000 | reg<<6}, stmt, line, 1)

		return nil
	case "RET":
		u.emit(ObjectLine{Word: 0xC000 | 7<<6}, stmt, line, 1)
		return nil
	case "JSR":
		u.emitPCOffset(stmt, line, 0x4800, 11, stmt.Operands[0])
		return nil
	case "JSRR":
		reg, ok := registerValue(stmt.Operands[0], line)
		if !ok {
			return &RegisterError{Op: name, Reg: stmt.Operands[0].Text(line)}
		}

		u.emit(ObjectLine{Word: 0x4000 | reg<<6}, stmt, line, 1)

		return nil
	case "LD":
		return u.encodeDirect(stmt, name, line, 0x2000, 9)
	case "LDI":
		return u.encodeDirect(stmt, name, line, 0xA000, 9)
	case "LEA":
		return u.encodeDirect(stmt, name, line, 0xE000, 9)
	case "ST":
		return u.encodeDirect(stmt, name, line, 0x3000, 9)
	case "STI":
		return u.encodeDirect(stmt, name, line, 0xB000, 9)
	case "LDR":
		return u.encodeBaseOffset6(stmt, name, line, 0x6000)
	case "STR":
		return u.encodeBaseOffset6(stmt, name, line, 0x7000)
	case "NOT":
		dr, ok1 := registerValue(stmt.Operands[0], line)
		sr, ok2 := registerValue(stmt.Operands[1], line)

		if !ok1 {
			return &RegisterError{Op: name, Reg: stmt.Operands[0].Text(line)}
		}

		if !ok2 {
			return &RegisterError{Op: name, Reg: stmt.Operands[1].Text(line)}
		}

		u.emit(ObjectLine{Word: 0x903F | dr<<9 | sr<<6}, stmt, line, 1)

		return nil
	case "RTI":
		u.emit(ObjectLine{Word: 0x8000}, stmt, line, 1)
		return nil
	case "TRAP":
		val, ok := ParseNumber(stmt.Operands[0], line)
		if !ok || val < 0 || val > 0xFF {
			return &LiteralRangeError{Literal: int(val), Range: [2]int{0, 0xFF}}
		}

		u.emit(ObjectLine{Word: 0xF000 | uint16(val)&0xFF}, stmt, line, 1)

		return nil
	case "GETC":
		return u.emitTrap(stmt, line, 0x20)
	case "OUT", "PUTC":
		return u.emitTrap(stmt, line, 0x21)
	case "PUTS":
		return u.emitTrap(stmt, line, 0x22)
	case "IN":
		return u.emitTrap(stmt, line, 0x23)
	case "PUTSP":
		return u.emitTrap(stmt, line, 0x24)
	case "HALT":
		return u.emitTrap(stmt, line, 0x25)
	default:
		return newSyntaxError(u, stmt.Line, stmt.Mnemonic, "unsupported instruction")
	}
}

func (u *Unit) emitTrap(stmt *Statement, line []byte, vector uint16) error {
	u.emit(ObjectLine{Word: 0xF000 | vector}, stmt, line, 1)
	return nil
}

func (u *Unit) encodeAddAnd(stmt *Statement, line []byte, base uint16) error {
	name := mnemonicName(stmt, line)

	dr, ok := registerValue(stmt.Operands[0], line)
	if !ok {
		return &RegisterError{Op: name, Reg: stmt.Operands[0].Text(line)}
	}

	sr1, ok := registerValue(stmt.Operands[1], line)
	if !ok {
		return &RegisterError{Op: name, Reg: stmt.Operands[1].Text(line)}
	}

	word := base | dr<<9 | sr1<<6
	third := stmt.Operands[2]

	if sr2, ok := registerValue(third, line); ok {
		word |= sr2
	} else {
		val, ok := ParseNumber(third, line)
		if !ok || val < -16 || val > 15 {
			return &LiteralRangeError{Literal: int(val), Range: [2]int{-16, 15}}
		}

		word |= 1 << 5
		word |= uint16(val) & 0x1F
	}

	u.emit(ObjectLine{Word: word}, stmt, line, 1)

	return nil
}

func (u *Unit) encodeBR(stmt *Statement, name string, line []byte) error {
	nzp, ok := brConditions[name]
	if !ok {
		return newSyntaxError(u, stmt.Line, stmt.Mnemonic, "unknown branch condition")
	}

	u.emitPCOffset(stmt, line, nzp, 9, stmt.Operands[0])

	return nil
}

func (u *Unit) encodeDirect(stmt *Statement, name string, line []byte, base uint16, width uint8) error {
	dr, ok := registerValue(stmt.Operands[0], line)
	if !ok {
		return &RegisterError{Op: name, Reg: stmt.Operands[0].Text(line)}
	}

	u.emitPCOffset(stmt, line, base|dr<<9, width, stmt.Operands[1])

	return nil
}

func (u *Unit) encodeBaseOffset6(stmt *Statement, name string, line []byte, base uint16) error {
	dr, ok := registerValue(stmt.Operands[0], line)
	if !ok {
		return &RegisterError{Op: name, Reg: stmt.Operands[0].Text(line)}
	}

	br, ok := registerValue(stmt.Operands[1], line)
	if !ok {
		return &RegisterError{Op: name, Reg: stmt.Operands[1].Text(line)}
	}

	val, ok := ParseNumber(stmt.Operands[2], line)
	if !ok || val < -32 || val > 31 {
		return &LiteralRangeError{Literal: int(val), Range: [2]int{-32, 31}}
	}

	word := base | dr<<9 | br<<6 | uint16(val)&0x3F
	u.emit(ObjectLine{Word: word}, stmt, line, 1)

	return nil
}
