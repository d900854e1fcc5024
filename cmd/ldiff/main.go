// Command ldiff is the auxiliary stdin line-substitution tool described in
// spec §6: it shares refac's substitution aesthetic but is not part of the
// rename engine.
package main

import (
	"fmt"
	"os"

	"github.com/jowharshamshiri/refac/internal/cmd"
)

func main() {
	root := cmd.NewLdiffCommand()
	root.Version = cmd.Version

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
