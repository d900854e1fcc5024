package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/yuin/goldmark"
)

// RenderMarkdown writes the Report as a Markdown document, grounded on the
// executor's human summary but structured as a table for archival as a CI
// artifact.
func (r *Report) RenderMarkdown(w io.Writer) {
	c := r.Counts()
	fmt.Fprintf(w, "# refac run `%s`\n\n", r.RunID)
	fmt.Fprintf(w, "- root: `%s`\n", r.Root)
	fmt.Fprintf(w, "- substitution: `%s` -> `%s`\n", r.Pattern, r.Substitute)
	fmt.Fprintf(w, "- elapsed: %s\n\n", r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "| edits | renames | succeeded | skipped | failed |\n")
	fmt.Fprintf(w, "|---|---|---|---|---|\n")
	fmt.Fprintf(w, "| %d | %d | %d | %d | %d |\n\n", c.Edits, c.Renames, c.Succeeded, c.Skipped, c.Failed)

	items := r.Items()
	if len(items) == 0 {
		return
	}

	fmt.Fprintf(w, "| kind | path | outcome | detail |\n")
	fmt.Fprintf(w, "|---|---|---|---|\n")
	for _, it := range items {
		if it.Outcome == Succeeded {
			continue
		}
		detail := it.Reason
		if it.Outcome == Failed {
			detail = it.Err
		}
		fmt.Fprintf(w, "| %s | `%s` | %s | %s |\n", it.Kind, it.Path, it.Outcome, detail)
	}
}

// RenderHTML converts the Markdown rendering to HTML via goldmark, for the
// `--format html` output.
func (r *Report) RenderHTML(w io.Writer) error {
	var md bytes.Buffer
	r.RenderMarkdown(&md)
	return goldmark.Convert(md.Bytes(), w)
}
