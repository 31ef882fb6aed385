// Package config loads an optional TOML project configuration file,
// used to supply default command-line options that explicit flags
// always override.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/smoynes/lc3asm/internal/cli/cmd"
)

// OutputConfig sets the default output mode and file.
type OutputConfig struct {
	Mode string `toml:"mode"` // "link" (default), "assemble", or "symbols"
	File string `toml:"file"`
}

// DebugConfig sets the default debug-embedding behavior.
type DebugConfig struct {
	Embed  bool `toml:"embed"`
	Indent bool `toml:"indent"`
}

// File is the decoded contents of a project configuration file.
type File struct {
	Output OutputConfig `toml:"output"`
	Debug  DebugConfig  `toml:"debug"`
}

// Load reads and decodes the TOML configuration file at filename.
func Load(filename string) (*File, error) {
	var f File
	if _, err := toml.DecodeFile(filename, &f); err != nil {
		return nil, err
	}

	return &f, nil
}

// ApplyDefaults fills unset fields of opts from f, consulting flags to
// determine which command-line flags the user actually supplied: a
// flag the user set always wins over the file.
func (f *File) ApplyDefaults(opts *cmd.Options, flags *pflag.FlagSet) {
	if !flags.Changed("output") && f.Output.File != "" {
		opts.Output = f.Output.File
	}

	if !flags.Changed("assemble") && !flags.Changed("symbols") {
		switch f.Output.Mode {
		case "assemble":
			opts.AssembleOnly = true
		case "symbols":
			opts.SymbolsOnly = true
		}
	}

	if !flags.Changed("embed-debug") && f.Debug.Embed {
		opts.EmbedDebug = true
	}

	if !flags.Changed("embed-debug-indent") && f.Debug.Indent {
		opts.EmbedIndent = true
	}
}
