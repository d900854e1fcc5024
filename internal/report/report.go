package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how a single planned item resolved during execution.
type Outcome int

const (
	Succeeded Outcome = iota
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Kind distinguishes a content edit item from a rename item in the Report.
type Kind int

const (
	EditItem Kind = iota
	RenameItem
)

func (k Kind) String() string {
	if k == RenameItem {
		return "rename"
	}
	return "edit"
}

// Item is one line of the post-execution Report: a single edit or rename
// and how it resolved, per spec §3/§7.
type Item struct {
	Kind    Kind
	Path    string // From-path for renames, the file path for edits
	To      string `json:",omitempty"` // rename target, empty for edits
	Outcome Outcome
	Reason  string `json:",omitempty"` // set when Skipped
	Err     string `json:",omitempty"` // set when Failed
}

// Report is the concurrent sink executor workers append outcomes to, and the
// final artifact rendered to the user. RunID identifies the run for the
// history store.
type Report struct {
	RunID     string
	Root      string
	Pattern   string
	Substitute string
	StartedAt time.Time
	Elapsed   time.Duration

	mu    sync.Mutex
	items []Item
}

// New creates an empty Report with a fresh RunID, the way a run begins
// before any items are appended.
func New(root, pattern, substitute string) *Report {
	return &Report{
		RunID:      uuid.NewString(),
		Root:       root,
		Pattern:    pattern,
		Substitute: substitute,
		StartedAt:  timeNow(),
	}
}

// timeNow is a seam so tests can stamp a Report without depending on wall
// clock skew between assertions.
var timeNow = time.Now

// Append adds one item outcome. Safe for concurrent use by executor workers;
// relative ordering of appends across goroutines is not part of the
// contract.
func (r *Report) Append(item Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
}

// Items returns a snapshot copy of the recorded items.
func (r *Report) Items() []Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

// Counts aggregates items by kind and outcome for the summary line.
type Counts struct {
	Edits, Renames                      int
	Succeeded, Skipped, Failed          int
}

func (r *Report) Counts() Counts {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c Counts
	for _, it := range r.items {
		if it.Kind == EditItem {
			c.Edits++
		} else {
			c.Renames++
		}
		switch it.Outcome {
		case Succeeded:
			c.Succeeded++
		case Skipped:
			c.Skipped++
		case Failed:
			c.Failed++
		}
	}
	return c
}

// Clean reports whether the run produced zero failures, matching the
// idempotence property of spec §7.
func (r *Report) Clean() bool {
	return r.Counts().Failed == 0
}

// jsonReport is the wire shape for RenderJSON.
type jsonReport struct {
	RunID      string        `json:"run_id"`
	Root       string        `json:"root"`
	Pattern    string        `json:"pattern"`
	Substitute string        `json:"substitute"`
	ElapsedMS  int64         `json:"elapsed_ms"`
	Counts     Counts        `json:"counts"`
	Items      []jsonItem    `json:"items"`
}

type jsonItem struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	To      string `json:"to,omitempty"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
	Err     string `json:"error,omitempty"`
}

// RenderJSON writes the full Report as a single JSON object.
func (r *Report) RenderJSON(w io.Writer) error {
	items := r.Items()
	jItems := make([]jsonItem, len(items))
	for i, it := range items {
		jItems[i] = jsonItem{
			Kind:    it.Kind.String(),
			Path:    it.Path,
			To:      it.To,
			Outcome: it.Outcome.String(),
			Reason:  it.Reason,
			Err:     it.Err,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		RunID:      r.RunID,
		Root:       r.Root,
		Pattern:    r.Pattern,
		Substitute: r.Substitute,
		ElapsedMS:  r.Elapsed.Milliseconds(),
		Counts:     r.Counts(),
		Items:      jItems,
	})
}

// RenderPlain writes a terse, script-friendly summary, one line per failed
// or skipped item plus a final counts line.
func (r *Report) RenderPlain(w io.Writer) {
	for _, it := range r.Items() {
		switch it.Outcome {
		case Failed:
			fmt.Fprintf(w, "FAILED %s %s: %s\n", it.Kind, it.Path, it.Err)
		case Skipped:
			fmt.Fprintf(w, "SKIPPED %s %s: %s\n", it.Kind, it.Path, it.Reason)
		}
	}
	c := r.Counts()
	fmt.Fprintf(w, "edits=%d renames=%d succeeded=%d skipped=%d failed=%d\n",
		c.Edits, c.Renames, c.Succeeded, c.Skipped, c.Failed)
}

// RenderHuman writes a human-friendly summary with a header and per-item
// detail for anything that didn't simply succeed.
func (r *Report) RenderHuman(w io.Writer) {
	c := r.Counts()
	fmt.Fprintf(w, "refac run %s\n", r.RunID)
	fmt.Fprintf(w, "  %s -> %s in %s\n", r.Pattern, r.Substitute, r.Root)
	fmt.Fprintf(w, "  %d edits, %d renames, %d succeeded, %d skipped, %d failed (%s)\n",
		c.Edits, c.Renames, c.Succeeded, c.Skipped, c.Failed, r.Elapsed.Round(time.Millisecond))

	for _, it := range r.Items() {
		switch it.Outcome {
		case Failed:
			fmt.Fprintf(w, "  [FAILED]  %s %s: %s\n", it.Kind, it.Path, it.Err)
		case Skipped:
			fmt.Fprintf(w, "  [SKIPPED] %s %s: %s\n", it.Kind, it.Path, it.Reason)
		}
	}
}

// Summary returns a single-line description of the run: its RunID plus the
// edit, rename and failure counts.
func (r *Report) Summary() string {
	c := r.Counts()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d edits, %d renames, %d failed", r.RunID, c.Edits, c.Renames, c.Failed)
	return sb.String()
}
