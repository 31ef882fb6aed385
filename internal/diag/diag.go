// Package diag renders assembler and linker errors to a terminal:
// token-level errors get a source excerpt with a caret-tilde underline,
// everything else is printed as-is.
package diag

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/smoynes/lc3asm/internal/asm"
)

// outputMu serializes diagnostic output across the goroutines that
// assemble units in parallel; each Report call holds it for the
// duration of one error's rendering.
var outputMu sync.Mutex

// Reporter writes diagnostics to an output stream, optionally in color.
type Reporter struct {
	out   io.Writer
	color bool
}

// NewReporter returns a Reporter writing to out, forcing color on or off.
func NewReporter(out io.Writer, useColor bool) *Reporter {
	return &Reporter{out: out, color: useColor}
}

// NewAutoReporter returns a Reporter writing to out, with color enabled
// unless color.NoColor is set. out itself is not inspected.
func NewAutoReporter(out io.Writer) *Reporter {
	return &Reporter{out: out, color: !color.NoColor}
}

// Report prints one error. A *asm.SyntaxError gets a source excerpt with
// an underline; everything else is printed via its own Error() string.
func (r *Reporter) Report(err error) {
	outputMu.Lock()
	defer outputMu.Unlock()

	if se, ok := err.(*asm.SyntaxError); ok {
		r.reportToken(se)
		return
	}

	r.reportSimple(err)
}

func (r *Reporter) reportSimple(err error) {
	fmt.Fprintln(r.out, r.bold(err.Error()))
}

func (r *Reporter) reportToken(se *asm.SyntaxError) {
	header := fmt.Sprintf("%s:%d:%d: error: %s", se.Unit, se.Line+1, se.Col+1, se.Msg)
	fmt.Fprintln(r.out, r.bold(header))

	if se.Excerpt == "" {
		return
	}

	fmt.Fprintln(r.out, "    "+se.Excerpt)

	underline := strings.Repeat(" ", max0(se.Col)) + "^" + strings.Repeat("~", max0(len(se.Token)-1))
	fmt.Fprintln(r.out, r.red("    "+underline))
}

func (r *Reporter) bold(s string) string {
	if !r.color {
		return s
	}

	return color.New(color.Bold).Sprint(s)
}

func (r *Reporter) red(s string) string {
	if !r.color {
		return s
	}

	return color.New(color.FgRed).Sprint(s)
}

// max0 avoids colliding with the builtin max while keeping a negative
// result from producing a negative strings.Repeat count.
func max0(n int) int {
	if n < 0 {
		return 0
	}

	return n
}
