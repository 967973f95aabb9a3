// Command updatesynth synthesizes prop and state updater calls for the
// components described in a CUE package.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/updatesynth/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Commands print their own diagnostics; anything else lands here.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
