package objfile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrFormat wraps every decoding failure.
var ErrFormat = errors.New("objfile: invalid format")

// Encode writes f to w in the on-disk format: magic, flag word, then
// each unit's symbol record (if any) followed by its section records.
func Encode(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(Magic); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, uint16(f.Flags)); err != nil {
		return err
	}

	for _, u := range f.Units {
		if u.Symbols != nil {
			if err := writeSymbolRecord(bw, u.Symbols); err != nil {
				return err
			}
		}

		for _, s := range u.Sections {
			if err := writeSectionRecord(bw, f.Flags, s); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

func writeSymbolRecord(w *bufio.Writer, syms []SymbolRecord) error {
	if err := w.WriteByte(byte(IndicatorSymbol)); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(syms))); err != nil {
		return err
	}

	for _, s := range syms {
		if err := binary.Write(w, binary.LittleEndian, s.Address); err != nil {
			return err
		}

		if err := writeCString(w, s.Name); err != nil {
			return err
		}
	}

	return nil
}

func writeSectionRecord(w *bufio.Writer, flags Flags, s SectionRecord) error {
	if err := w.WriteByte(byte(IndicatorSection)); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, s.Origin); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint16(len(s.Lines))); err != nil {
		return err
	}

	for _, l := range s.Lines {
		if err := binary.Write(w, binary.LittleEndian, l.Word); err != nil {
			return err
		}

		if flags&FlagOBJ != 0 {
			if err := writeCString(w, l.Label); err != nil {
				return err
			}
		}

		if flags&FlagDBG != 0 {
			if err := writeCString(w, l.Debug); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeCString(w *bufio.Writer, s string) error {
	if _, err := w.WriteString(s); err != nil {
		return err
	}

	return w.WriteByte(0)
}

// Decode reads an object/executable/symbol file from r.
func Decode(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("%w: reading magic: %s", ErrFormat, err)
	}

	if string(magic) != Magic {
		return nil, fmt.Errorf("%w: bad magic", ErrFormat)
	}

	var flagWord uint16
	if err := binary.Read(br, binary.LittleEndian, &flagWord); err != nil {
		return nil, fmt.Errorf("%w: reading flags: %s", ErrFormat, err)
	}

	f := &File{Flags: Flags(flagWord)}

	var cur *UnitRecord

	for {
		ind, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrFormat, err)
		}

		switch Indicator(ind) {
		case IndicatorSymbol:
			syms, err := readSymbolRecord(br)
			if err != nil {
				return nil, err
			}

			f.Units = append(f.Units, UnitRecord{Symbols: syms})
			cur = &f.Units[len(f.Units)-1]
		case IndicatorSection:
			sec, err := readSectionRecord(br, f.Flags)
			if err != nil {
				return nil, err
			}

			if cur == nil {
				f.Units = append(f.Units, UnitRecord{})
				cur = &f.Units[len(f.Units)-1]
			}

			cur.Sections = append(cur.Sections, sec)
		default:
			return nil, fmt.Errorf("%w: unknown record indicator %q", ErrFormat, ind)
		}
	}

	return f, nil
}

func readSymbolRecord(r *bufio.Reader) ([]SymbolRecord, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading symbol count: %s", ErrFormat, err)
	}

	syms := make([]SymbolRecord, count)

	for i := range syms {
		var addr uint16
		if err := binary.Read(r, binary.LittleEndian, &addr); err != nil {
			return nil, fmt.Errorf("%w: reading symbol address: %s", ErrFormat, err)
		}

		name, err := readCString(r)
		if err != nil {
			return nil, err
		}

		syms[i] = SymbolRecord{Address: addr, Name: name}
	}

	return syms, nil
}

func readSectionRecord(r *bufio.Reader, flags Flags) (SectionRecord, error) {
	var origin, count uint16

	if err := binary.Read(r, binary.LittleEndian, &origin); err != nil {
		return SectionRecord{}, fmt.Errorf("%w: reading origin: %s", ErrFormat, err)
	}

	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return SectionRecord{}, fmt.Errorf("%w: reading count: %s", ErrFormat, err)
	}

	lines := make([]LineRecord, count)

	for i := range lines {
		var word uint16
		if err := binary.Read(r, binary.LittleEndian, &word); err != nil {
			return SectionRecord{}, fmt.Errorf("%w: reading word: %s", ErrFormat, err)
		}

		lr := LineRecord{Word: word}

		if flags&FlagOBJ != 0 {
			label, err := readCString(r)
			if err != nil {
				return SectionRecord{}, err
			}

			lr.Label = label
		}

		if flags&FlagDBG != 0 {
			debug, err := readCString(r)
			if err != nil {
				return SectionRecord{}, err
			}

			lr.Debug = debug
		}

		lines[i] = lr
	}

	return SectionRecord{Origin: origin, Lines: lines}, nil
}

func readCString(r *bufio.Reader) (string, error) {
	bs, err := r.ReadBytes(0)
	if err != nil {
		return "", fmt.Errorf("%w: reading string: %s", ErrFormat, err)
	}

	return string(bs[:len(bs)-1]), nil
}
