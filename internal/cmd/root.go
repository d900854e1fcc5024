// Package cmd wires the refac engine's pipeline (config, matcher, walker,
// planner, previewer, executor, report) into cobra commands, in the
// teacher's NewRootCommand/New*Command constructor idiom.
package cmd

import "github.com/spf13/cobra"

// Version is injected at build time via -ldflags.
var Version = "dev"

// NewRootCommand builds the refac root command. Per spec §6 the rename
// engine itself lives directly on the root command's positional args and
// flags (`refac ROOT PATTERN SUBSTITUTE [options]`); "history" is wired in
// as a subcommand over the run-history store.
func NewRootCommand() *cobra.Command {
	root := NewRefacCommand()
	root.Version = Version
	root.AddCommand(NewHistoryCommand())
	return root
}
