// Command boardctl browses and edits Trello boards from the terminal.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/boardctl/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()

	// Commands report their own failures; cobra's usage errors are not.
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}
	os.Exit(cli.GetExitCode(err))
}
