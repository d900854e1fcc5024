package cmd

import (
	"fmt"
	"os"

	"github.com/jowharshamshiri/refac/internal/ldiff"
	"github.com/jowharshamshiri/refac/internal/previewer"
	"github.com/spf13/cobra"
)

// NewLdiffCommand builds the ldiff auxiliary tool: a stdin line filter that
// collapses repeated positional word tokens into a run of a substitute
// character, per spec §6.
func NewLdiffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ldiff [SUBSTITUTE_CHAR]",
		Short: "Replace repeated line tokens with a substitute character",
		Long: `ldiff reads lines from stdin and, for each word token that repeats the
token in the same position of the previous line, writes a run of the
substitute character instead. Color codes, timestamps, brackets, and other
separators are always preserved literally.

Examples:
  cat /var/log/system.log | tail -n 100 | ldiff
  find / | ldiff
  ldiff '*' < input.txt`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runLdiff,
	}
}

func runLdiff(cmd *cobra.Command, args []string) error {
	substitute := rune(ldiff.DefaultSubstitute)
	if len(args) == 1 {
		runes := []rune(args[0])
		if len(runes) == 0 {
			return fmt.Errorf("substitute character cannot be empty")
		}
		if len(runes) > 1 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: substitute character must be a single character, got %q; using %q\n", args[0], string(runes[0]))
		}
		substitute = runes[0]
	}

	if previewer.IsTerminalFd(os.Stdin.Fd()) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error: no input provided; ldiff reads from stdin.")
		fmt.Fprintln(cmd.ErrOrStderr(), "Usage examples:")
		fmt.Fprintln(cmd.ErrOrStderr(), "  cat /var/log/system.log | tail -n 100 | ldiff")
		fmt.Fprintln(cmd.ErrOrStderr(), "  find / | ldiff")
		fmt.Fprintln(cmd.ErrOrStderr(), "  ldiff < input.txt")
		os.Exit(1)
	}

	return ldiff.ProcessStream(cmd.InOrStdin(), cmd.OutOrStdout(), substitute)
}
