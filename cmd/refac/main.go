// Command refac recursively renames files/directories and rewrites their
// content wherever a pattern matches, previewing the plan before applying it.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jowharshamshiri/refac/internal/cmd"
	"github.com/jowharshamshiri/refac/internal/refacerr"
)

func main() {
	root := cmd.NewRootCommand()

	err := root.Execute()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(os.Stderr, "  Caused by: %v\n", cause)
	}

	if errors.Is(err, refacerr.ErrUserAborted) {
		os.Exit(2)
	}
	os.Exit(1)
}
