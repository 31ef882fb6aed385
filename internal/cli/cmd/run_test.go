package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smoynes/lc3asm/internal/objfile"
)

func TestRunWritesLinkedExecutable(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.asm")

	err := os.WriteFile(src, []byte(".ORIG x3000\nADD R1, R2, R3\n.END\n"), 0o644)
	require.NoError(t, err)

	out := filepath.Join(dir, "prog.lc3")

	var stderr bytes.Buffer
	err = Run(Options{Output: out}, []string{src}, &stderr, nil)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := objfile.Decode(f)
	require.NoError(t, err)
	require.Equal(t, objfile.FlagEXC, decoded.Flags)
	require.Len(t, decoded.Units, 1)
	require.Len(t, decoded.Units[0].Sections, 1)
	require.Equal(t, uint16(0x1283), decoded.Units[0].Sections[0].Lines[0].Word)
}

func TestRunWritesNoOutputOnAssemblyError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.asm")

	err := os.WriteFile(src, []byte(".ORIG x3000\nADD R1, R9, R3\n.END\n"), 0o644)
	require.NoError(t, err)

	out := filepath.Join(dir, "bad.lc3")

	var stderr bytes.Buffer
	err = Run(Options{Output: out}, []string{src}, &stderr, nil)
	require.NoError(t, err)

	_, err = os.Stat(out)
	require.True(t, os.IsNotExist(err), "expected no output file to be written on assembly error")
}

func TestObjectFilename(t *testing.T) {
	require.Equal(t, "prog.obj", objectFilename("/tmp/prog.asm"))
	require.Equal(t, "prog.obj", objectFilename("prog.asm"))
}
