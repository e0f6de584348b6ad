// Command starter is a starter template for command-line programs: argument
// parsing, a console and rotating-file logger, a persisted default log level
// and an end-of-run roundup of captured errors around a placeholder command.
package main

import (
	"context"
	"os"
)

func main() {
	cli := NewCLI(os.Stdout, os.Stderr)
	os.Exit(cli.Run(context.Background(), os.Args[1:]))
}
