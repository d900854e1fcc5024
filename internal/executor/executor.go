// Package executor implements the Executor (C6): it applies a frozen
// ChangePlan's content edits in parallel, then its renames in the plan's
// deepest-first order, recording a per-item outcome in the Report and never
// aborting the run on a single item's failure, per spec §4.5.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jowharshamshiri/refac/internal/config"
	"github.com/jowharshamshiri/refac/internal/encoding"
	"github.com/jowharshamshiri/refac/internal/filelock"
	"github.com/jowharshamshiri/refac/internal/logger"
	"github.com/jowharshamshiri/refac/internal/planner"
	"github.com/jowharshamshiri/refac/internal/refacerr"
	"github.com/jowharshamshiri/refac/internal/report"
)

// Progress receives phase-by-phase bar updates. nil is a valid Progress:
// every method is a no-op on it.
type Progress struct {
	Edits   *logger.ProgressBar
	Renames *logger.ProgressBar
}

func (p *Progress) incEdits() {
	if p != nil && p.Edits != nil {
		p.Edits.Increment()
	}
}

func (p *Progress) incRenames() {
	if p != nil && p.Renames != nil {
		p.Renames.Increment()
	}
}

// Run applies plan against req, recording every outcome into rep. It returns
// an error only for the two fatal classes named in spec §4.5: an I/O error
// writing the Report itself is the caller's concern (Run never writes the
// Report to disk), so in practice only a detected plan-invariant breach
// aborts Run early; ctx cancellation (e.g. SIGINT) stops picking up new
// items but lets in-flight ones finish and still returns nil, with the
// Report reflecting everything actually applied.
func Run(ctx context.Context, req *config.Request, plan *planner.ChangePlan, rep *report.Report, sink report.Sink, prog *Progress) error {
	start := time.Now()
	defer func() { rep.Elapsed = time.Since(start) }()

	if err := runEdits(ctx, req, plan, rep, sink, prog); err != nil {
		return err
	}
	return runRenames(ctx, plan, rep, sink, prog)
}

// runEdits applies every content edit concurrently, bounded by
// req.Execution.ResolvedThreads() workers. Edits target distinct paths (the
// plan guarantees each path appears at most once), so no two workers ever
// contend on the same file.
func runEdits(ctx context.Context, req *config.Request, plan *planner.ChangePlan, rep *report.Report, sink report.Sink, prog *Progress) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(req.Execution.ResolvedThreads())

	for _, edit := range plan.Edits {
		edit := edit
		g.Go(func() error {
			applyEdit(gctx, req, edit, rep, sink)
			prog.incEdits()
			return nil
		})
	}

	return g.Wait()
}

func applyEdit(ctx context.Context, req *config.Request, edit planner.ContentEdit, rep *report.Report, sink report.Sink) {
	if ctx.Err() != nil {
		rep.Append(report.Item{Kind: report.EditItem, Path: edit.Path, Outcome: report.Skipped, Reason: "cancelled"})
		return
	}

	info, err := os.Stat(edit.Path)
	if err != nil {
		rep.Append(report.Item{Kind: report.EditItem, Path: edit.Path, Outcome: report.Skipped,
			Reason: "source no longer exists"})
		sink.Warn("skipping edit for %s: %v", edit.Path, err)
		return
	}

	if req.Execution.Backup {
		if err := writeBackup(edit.Path, info.Mode().Perm()); err != nil {
			rep.Append(report.Item{Kind: report.EditItem, Path: edit.Path, Outcome: report.Failed,
				Err: fmt.Sprintf("backup failed: %v", err)})
			return
		}
	}

	data, err := encodeEdit(edit)
	if err != nil {
		rep.Append(report.Item{Kind: report.EditItem, Path: edit.Path, Outcome: report.Failed,
			Err: fmt.Sprintf("%v: %s", refacerr.ErrEncodingFailed, err)})
		return
	}

	if err := filelock.AtomicWriteMode(edit.Path, data, info.Mode().Perm()); err != nil {
		outcome := report.Failed
		reason := err.Error()
		if os.IsPermission(err) {
			reason = fmt.Sprintf("%v: %s", refacerr.ErrPermissionDenied, reason)
		}
		rep.Append(report.Item{Kind: report.EditItem, Path: edit.Path, Outcome: outcome, Err: reason})
		return
	}

	rep.Append(report.Item{Kind: report.EditItem, Path: edit.Path, Outcome: report.Succeeded})
}

func writeBackup(path string, perm os.FileMode) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path+".bak", data, perm)
}

// runRenames applies renames serially in plan order (already sorted
// deepest-first, files before directories, then lexicographically), which
// is sufficient for correctness; a work-stealing scheduler could parallelize
// renames whose from_paths share no ancestor, but the serial path keeps the
// invariant check trivial to state.
func runRenames(ctx context.Context, plan *planner.ChangePlan, rep *report.Report, sink report.Sink, prog *Progress) error {
	consumed := make(map[string]struct{}, len(plan.Renames))

	for _, r := range plan.Renames {
		if ctx.Err() != nil {
			rep.Append(report.Item{Kind: report.RenameItem, Path: r.From, To: r.To, Outcome: report.Skipped, Reason: "cancelled"})
			continue
		}

		if _, already := consumed[r.From]; already {
			return fmt.Errorf("rename source %s already consumed by a prior rename: %w", r.From, refacerr.ErrPlanInvariantBroken)
		}

		if _, err := os.Lstat(r.From); err != nil {
			rep.Append(report.Item{Kind: report.RenameItem, Path: r.From, To: r.To, Outcome: report.Skipped,
				Reason: "source no longer exists"})
			sink.Warn("skipping rename %s -> %s: %v", r.From, r.To, err)
			consumed[r.From] = struct{}{}
			prog.incRenames()
			continue
		}

		if err := os.Rename(r.From, r.To); err != nil {
			reason := err.Error()
			if errors.Is(err, os.ErrPermission) {
				reason = fmt.Sprintf("%v: %s", refacerr.ErrPermissionDenied, reason)
			}
			rep.Append(report.Item{Kind: report.RenameItem, Path: r.From, To: r.To, Outcome: report.Failed, Err: reason})
		} else {
			rep.Append(report.Item{Kind: report.RenameItem, Path: r.From, To: r.To, Outcome: report.Succeeded})
		}

		consumed[r.From] = struct{}{}
		prog.incRenames()
	}

	return nil
}

// encodeEdit re-encodes the edit's new text back into the original file's
// byte representation (UTF-8, UTF-16, or the Latin-1 fallback), so content
// written to disk round-trips through the same codec it was decoded with.
func encodeEdit(edit planner.ContentEdit) ([]byte, error) {
	return encoding.Encode(edit.NewText, edit.Original.Kind, edit.Original.HasBOM)
}
