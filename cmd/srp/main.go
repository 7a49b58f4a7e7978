// Command srp solves stable roommates instances.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/roommates/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
