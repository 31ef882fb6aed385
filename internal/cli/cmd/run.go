// Package cmd implements the lc3asm command's behavior: given a set of
// input filenames and options, assemble them and write either a symbol
// table, per-unit object files, or a single linked executable.
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/smoynes/lc3asm/internal/asm"
	"github.com/smoynes/lc3asm/internal/diag"
	"github.com/smoynes/lc3asm/internal/link"
	"github.com/smoynes/lc3asm/internal/log"
	"github.com/smoynes/lc3asm/internal/objfile"
)

// Options configures one run of the assembler.
type Options struct {
	AssembleOnly bool
	SymbolsOnly  bool
	EmbedDebug   bool
	EmbedIndent  bool
	Output       string
}

// Run assembles inputs according to opts, reporting diagnostics to
// stderr (via an auto-detecting color reporter) and writing the
// requested output to opts.Output or, when that is empty, to a default
// name in the current working directory. Per the
// original tool's convention, semantic assembly errors are reported but
// never turn into a non-zero process exit; only a usage or I/O failure
// does.
func Run(opts Options, inputs []string, stderr io.Writer, logger *log.Logger) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input files")
	}

	if opts.Output != "" && len(inputs) > 1 && opts.AssembleOnly {
		return fmt.Errorf("-o cannot be combined with -a and multiple inputs")
	}

	mode := asm.ModeLink
	switch {
	case opts.SymbolsOnly:
		mode = asm.ModeSymbols
	case opts.AssembleOnly:
		mode = asm.ModeAssemble
	}

	actx := &asm.Context{
		Mode:        mode,
		StoreDebug:  opts.EmbedDebug || opts.EmbedIndent,
		StoreIndent: opts.EmbedIndent,
	}

	reporter := diag.NewAutoReporter(stderr)

	errs := asm.AssembleUnits(actx, inputs)
	for _, err := range errs {
		if err != nil {
			reporter.Report(err)
		}
	}

	if actx.Errored() {
		if logger != nil {
			logger.Warn("assembly reported errors")
		}

		return nil
	}

	switch {
	case opts.SymbolsOnly:
		return writeSymbols(actx, opts)
	case opts.AssembleOnly:
		return writeObjects(actx, opts)
	default:
		return writeExecutable(actx, opts, reporter)
	}
}

func writeSymbols(ctx *asm.Context, opts Options) error {
	if ctx.Errored() {
		return nil
	}

	file := &objfile.File{Flags: 0}

	for _, u := range ctx.Units {
		file.Units = append(file.Units, objfile.UnitRecord{Symbols: symbolRecords(ctx, u)})
	}

	name := opts.Output
	if name == "" {
		name = "out.symb"
	}

	return writeFile(name, file)
}

func writeObjects(ctx *asm.Context, opts Options) error {
	if ctx.Errored() {
		return nil
	}

	for _, u := range ctx.Units {
		flags := objfile.FlagOBJ
		if ctx.StoreDebug {
			flags |= objfile.FlagDBG
		}

		file := &objfile.File{
			Flags: flags,
			Units: []objfile.UnitRecord{{
				Symbols:  symbolRecords(ctx, u),
				Sections: sectionRecords(ctx, u),
			}},
		}

		name := opts.Output
		if name == "" {
			name = objectFilename(u.Filename)
		}

		if err := writeFile(name, file); err != nil {
			return err
		}
	}

	return nil
}

func writeExecutable(ctx *asm.Context, opts Options, reporter *diag.Reporter) error {
	if ctx.Errored() {
		return nil
	}

	linked, errs := link.Link(ctx)
	for _, err := range errs {
		reporter.Report(err)
	}

	if ctx.Errored() {
		return nil
	}

	flags := objfile.FlagEXC
	if ctx.StoreDebug {
		flags |= objfile.FlagDBG
	}

	file := &objfile.File{Flags: flags}

	for _, u := range linked.Units {
		file.Units = append(file.Units, objfile.UnitRecord{Sections: sectionRecords(ctx, u)})
	}

	name := opts.Output
	if name == "" {
		name = "out.lc3"
	}

	return writeFile(name, file)
}

func symbolRecords(ctx *asm.Context, u *asm.Unit) []objfile.SymbolRecord {
	recs := make([]objfile.SymbolRecord, 0, u.Symbols.Count())

	for _, s := range u.Symbols.Symbols {
		recs = append(recs, objfile.SymbolRecord{Address: s.Address, Name: asm.SymbolName(ctx, s)})
	}

	return recs
}

func sectionRecords(ctx *asm.Context, u *asm.Unit) []objfile.SectionRecord {
	recs := make([]objfile.SectionRecord, 0, len(u.Sections))

	for _, sec := range u.Sections {
		lines := make([]objfile.LineRecord, 0, len(sec.Lines))

		for _, ol := range sec.Lines {
			lines = append(lines, objfile.LineRecord{
				Word:  ol.Word,
				Label: labelText(ctx, ol),
				Debug: debugText(ctx, ol),
			})
		}

		recs = append(recs, objfile.SectionRecord{Origin: sec.Origin, Lines: lines})
	}

	return recs
}

func labelText(ctx *asm.Context, ol asm.ObjectLine) string {
	if ol.Label.Token.Length == 0 {
		return ""
	}

	return ol.Label.Text(ctx)
}

func debugText(ctx *asm.Context, ol asm.ObjectLine) string {
	if ol.Debug.Token.Length == 0 {
		return ""
	}

	return ol.Debug.Text(ctx)
}

func writeFile(name string, file *objfile.File) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	return objfile.Encode(f, file)
}

func objectFilename(source string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	return stem + ".obj"
}
