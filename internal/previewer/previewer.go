// Package previewer implements the Confirmer/Previewer (C5): it renders the
// plan summary and unified diffs, and acquires user confirmation unless
// assume_yes, per spec §4.4.
package previewer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jowharshamshiri/refac/internal/config"
	"github.com/jowharshamshiri/refac/internal/display"
	"github.com/jowharshamshiri/refac/internal/planner"
	"github.com/jowharshamshiri/refac/internal/refacerr"
	"github.com/mattn/go-isatty"
)

// maxPreviewFiles and maxPreviewHunksPerFile bound the diff preview display;
// the full edit list in the plan is never truncated, only what's shown here.
const (
	maxPreviewFiles        = 5
	maxPreviewHunksPerFile = 20
)

// Prompter asks the user a yes/no question. The default StdPrompter reads a
// line from stdin; tests supply a canned answer instead.
type Prompter interface {
	Confirm(question string) (bool, error)
}

// StdPrompter prompts on In/Out, the way a terminal confirmation works.
type StdPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p StdPrompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.Out, "%s [y/N] ", question)
	reader := bufio.NewReader(p.In)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// IsTerminalFd reports whether fd is an interactive terminal, via
// mattn/go-isatty, matching the teacher's TTY-detection idiom.
func IsTerminalFd(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// RenderSummary writes the plan summary block in the requested format.
func RenderSummary(w io.Writer, req *config.Request, plan *planner.ChangePlan, format config.OutputFormat) {
	switch format {
	case config.Plain:
		renderSummaryPlain(w, req, plan, false)
	case config.Json, config.Markdown, config.HTML:
		// Structured formats carry the summary as part of the final report,
		// not the human preview; nothing to print here.
	default:
		renderSummaryPlain(w, req, plan, true)
	}
}

func renderSummaryPlain(w io.Writer, req *config.Request, plan *planner.ChangePlan, colored bool) {
	label := func(s string) string {
		if colored {
			return color.New(color.FgCyan).Sprint(s)
		}
		return s
	}

	fmt.Fprintf(w, "%s %s -> %s (mode: %s)\n", label("refac plan:"), req.Pattern, req.Substitute, req.Mode)
	fmt.Fprintf(w, "  %s %d\n", label("files to edit:"), plan.Stats.MatchedFiles)
	fmt.Fprintf(w, "  %s %d\n", label("names to change:"), plan.Stats.MatchedNames)
	fmt.Fprintf(w, "  %s %d\n", label("bytes to rewrite:"), plan.Stats.BytesToRewrite)

	if len(plan.SkippedBinary) > 0 {
		fmt.Fprintf(w, "  %s %d\n", label("binary files skipped:"), len(plan.SkippedBinary))
	}
	if len(plan.SkippedEncoding) > 0 {
		fmt.Fprintf(w, "  %s %d\n", label("encoding failures:"), len(plan.SkippedEncoding))
	}
	if len(plan.SkippedUnreadable) > 0 {
		fmt.Fprintf(w, "  %s %d\n", label("unreadable entries:"), len(plan.SkippedUnreadable))
	}
}

// RenderDiffPreview writes the unified-diff preview, capped to the first
// maxPreviewFiles edited files and maxPreviewHunksPerFile hunks each.
func RenderDiffPreview(w io.Writer, plan *planner.ChangePlan) {
	shown := 0
	for _, edit := range plan.Edits {
		if edit.MatchCount == 0 {
			continue
		}
		if shown >= maxPreviewFiles {
			fmt.Fprintf(w, "... and %d more files\n", len(plan.Edits)-shown)
			break
		}
		fmt.Fprint(w, truncateHunks(edit.Diff, maxPreviewHunksPerFile))
		shown++
	}

	if len(plan.Renames) > 0 {
		fmt.Fprintln(w, "\nRenames:")
		for _, r := range plan.Renames {
			fmt.Fprintf(w, "  %s -> %s\n", r.From, r.To)
		}
	}
}

// RenderSkipNotices prints one display.Warning per non-empty skip category
// recorded on the plan, so a user sees *why* something was left untouched.
func RenderSkipNotices(w io.Writer, plan *planner.ChangePlan) {
	if len(plan.SkippedBinary) > 0 {
		display.WarnSkippedEntries("Binary files were not rewritten", plan.SkippedBinary).Display(w)
	}
	if len(plan.SkippedEncoding) > 0 {
		display.WarnSkippedEntries("Files could not be decoded by any supported encoding", plan.SkippedEncoding).Display(w)
	}
	if len(plan.SkippedUnreadable) > 0 {
		display.WarnSkippedEntries("Entries were unreadable and skipped", plan.SkippedUnreadable).Display(w)
	}
}

// truncateHunks keeps only the first max "@@ ... @@" hunks of a unified diff
// body, preserving the leading --- / +++ file header lines.
func truncateHunks(diff string, max int) string {
	lines := strings.Split(diff, "\n")
	var out []string
	hunks := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "@@") {
			hunks++
			if hunks > max {
				break
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// Confirm acquires user confirmation per spec §4.4: assume_yes bypasses the
// prompt; non-TTY stdin with assume_yes false is a fatal configuration
// error; otherwise the user is prompted and a negative answer aborts.
func Confirm(req *config.Request, prompter Prompter, stdinIsTTY bool) (bool, error) {
	if req.Execution.AssumeYes {
		return true, nil
	}
	if !stdinIsTTY {
		return false, fmt.Errorf("confirmation required but stdin is not a terminal (use --assume-yes): %w", refacerr.ErrInvalidConfig)
	}
	ok, err := prompter.Confirm("Apply this plan?")
	if err != nil {
		return false, err
	}
	if !ok {
		return false, refacerr.ErrUserAborted
	}
	return true, nil
}
