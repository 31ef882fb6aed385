// Package cli wires the lc3asm command's flags to internal/cli/cmd.Run.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/smoynes/lc3asm/internal/cli/cmd"
	"github.com/smoynes/lc3asm/internal/config"
	"github.com/smoynes/lc3asm/internal/log"
)

// New builds the root lc3asm command.
func New() *cobra.Command {
	var (
		opts       cmd.Options
		configFile string
		verbose    bool
	)

	root := &cobra.Command{
		Use:          "lc3asm [flags] file...",
		Short:        "Assemble and link LC-3 assembly source",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(c *cobra.Command, args []string) error {
			if configFile != "" {
				file, err := config.Load(configFile)
				if err != nil {
					return err
				}

				file.ApplyDefaults(&opts, c.Flags())
			}

			return cmd.Run(opts, args, c.ErrOrStderr(), logger(verbose))
		},
	}

	flags := root.Flags()
	flags.BoolVarP(&opts.AssembleOnly, "assemble", "a", false, "write a .obj file per input instead of linking")
	flags.BoolVarP(&opts.SymbolsOnly, "symbols", "s", false, "write only a combined symbol table")
	flags.BoolVarP(&opts.EmbedDebug, "embed-debug", "g", false, "embed source debug text in output")
	flags.BoolVarP(&opts.EmbedIndent, "embed-debug-indent", "G", false, "embed debug text keyed from column zero")
	flags.StringVarP(&opts.Output, "output", "o", "", "output filename")
	flags.StringVar(&configFile, "config", "", "project configuration file")
	flags.BoolVar(&verbose, "debug", false, "enable verbose logging")

	return root
}

func logger(verbose bool) *log.Logger {
	l := log.NewFormattedLogger(os.Stderr)
	if verbose {
		log.LogLevel.Set(log.Debug)
	}

	return l
}
