// Command lc3asm assembles and links LC-3 assembly source files.
package main

import (
	"context"
	"os"

	"github.com/smoynes/lc3asm/internal/cli"
)

func main() {
	root := cli.New()
	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
