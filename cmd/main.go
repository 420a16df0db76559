// git-issue is a git-native issue tracker. Installed on PATH it runs as
// "git issue <command>".
package main

import (
	"fmt"
	"os"

	"git-issue/internal/cmd"
)

var (
	run    = func() error { return cmd.Execute() }
	osExit = os.Exit
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		osExit(1)
	}
}
