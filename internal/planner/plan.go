// Package planner implements the Planner (C4): from a candidate stream it
// produces an ordered ChangePlan of ContentEdits and Renames, with collision
// checks and diff previews, per spec §4.3.
package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jowharshamshiri/refac/internal/binarydetect"
	"github.com/jowharshamshiri/refac/internal/config"
	"github.com/jowharshamshiri/refac/internal/encoding"
	"github.com/jowharshamshiri/refac/internal/matcher"
	"github.com/jowharshamshiri/refac/internal/refacerr"
	"github.com/jowharshamshiri/refac/internal/report"
	"github.com/jowharshamshiri/refac/internal/walker"
	"github.com/pmezard/go-difflib/difflib"
)

// ContentEdit is a planned content mutation (spec §3). It only exists for
// files in a non-names-only mode whose decoded content matches.
type ContentEdit struct {
	Path       string
	MatchCount int
	NewText    string
	Original   encoding.Decoded
	Diff       string // unified diff, 2 lines of context, empty if unchanged
}

// Rename is a planned name change (spec §3). To is derived by substituting
// the matcher in the basename only; parent components are never rewritten.
type Rename struct {
	From, To string
	Kind     walker.Kind
	Depth    int
}

// Stats summarizes a ChangePlan for the Previewer.
type Stats struct {
	MatchedFiles   int
	MatchedNames   int
	BytesToRewrite int64
}

// ChangePlan is the frozen dossier handed to the Confirmer and Executor.
// Edits are unordered (content edits are parallelisable); Renames are sorted
// deepest-first per spec §4.3 so applying them in order never invalidates a
// later rename's From path.
type ChangePlan struct {
	Edits   []ContentEdit
	Renames []Rename
	Stats   Stats

	SkippedBinary     []string
	SkippedUnreadable []string
	SkippedEncoding   []string
}

// Build runs Pass A (classification) and Pass B (rename derivation +
// collision check) over candidates and returns the frozen plan. candidates
// must be the full stream from a single walker.Walk call over req.Root.
func Build(req *config.Request, m *matcher.Matcher, candidates []walker.Candidate, sink report.Sink) (*ChangePlan, error) {
	if sink == nil {
		sink = report.NopSink{}
	}

	plan := &ChangePlan{}

	type nameCandidate struct {
		path  string
		kind  walker.Kind
		depth int
	}
	var nameCandidates []nameCandidate

	for _, c := range candidates {
		basename := filepath.Base(c.Path)
		nameMatches := m.MatchString(basename)

		editsContent := req.Mode.ProcessesFiles() && req.Mode.ProcessesContent()

		isBinary := false
		if c.Kind == walker.File && (editsContent || (nameMatches && req.Mode.ProcessesNames())) {
			result, classified := classifyFile(c.Path, sink)
			if !classified {
				plan.SkippedUnreadable = append(plan.SkippedUnreadable, c.Path)
			}
			if classified {
				isBinary = result.Binary
				if editsContent && !isBinary {
					edit, err := buildContentEdit(c.Path, m, result)
					if err != nil {
						sink.Warn("encoding error for %s: %v", c.Path, err)
						plan.SkippedEncoding = append(plan.SkippedEncoding, c.Path)
					} else if edit.MatchCount > 0 {
						plan.Edits = append(plan.Edits, edit)
						plan.Stats.MatchedFiles++
						plan.Stats.BytesToRewrite += int64(len(edit.NewText))
					}
				} else if editsContent && isBinary {
					plan.SkippedBinary = append(plan.SkippedBinary, c.Path)
					sink.Warn("skipping binary file %s (content not rewritten)", c.Path)
				}
			}
		}

		nameEligible := nameMatches && req.Mode.ProcessesNames() && nameKindEligible(c.Kind, req.Mode, isBinary, req.Execution.BinaryNames)
		if nameEligible {
			nameCandidates = append(nameCandidates, nameCandidate{path: c.Path, kind: c.Kind, depth: c.Depth})
		}
	}

	// Pass B: derive renames and detect collisions.
	fromSet := make(map[string]struct{}, len(nameCandidates))
	toCount := make(map[string][]string)
	renames := make([]Rename, 0, len(nameCandidates))

	for _, nc := range nameCandidates {
		dir := filepath.Dir(nc.path)
		base := filepath.Base(nc.path)
		newBase, _ := m.ReplaceAll(base)
		to := filepath.Join(dir, newBase)

		renames = append(renames, Rename{From: nc.path, To: to, Kind: nc.kind, Depth: nc.depth})
		fromSet[nc.path] = struct{}{}
		toCount[to] = append(toCount[to], nc.path)
	}

	for to, froms := range toCount {
		if len(froms) > 1 {
			return nil, fmt.Errorf("plan collision: %d entries would rename to %s: %w", len(froms), to, refacerr.ErrPlanCollision)
		}
	}

	for _, r := range renames {
		if r.From == r.To {
			continue
		}
		if _, err := os.Lstat(r.To); err == nil {
			if _, movingAway := fromSet[r.To]; !movingAway {
				return nil, fmt.Errorf("plan collision: target already exists: %s: %w", r.To, refacerr.ErrPlanCollision)
			}
		}
	}

	sort.Slice(renames, func(i, j int) bool {
		if renames[i].Depth != renames[j].Depth {
			return renames[i].Depth > renames[j].Depth // deepest first
		}
		ki, kj := kindRank(renames[i].Kind), kindRank(renames[j].Kind)
		if ki != kj {
			return ki < kj // files before dirs
		}
		return renames[i].From < renames[j].From
	})

	plan.Renames = renames
	plan.Stats.MatchedNames = len(renames)

	return plan, nil
}

// kindRank orders File before Dir (Symlink treated alongside File) so that,
// at equal depth, files are renamed before directories per spec §4.3.
func kindRank(k walker.Kind) int {
	if k == walker.Dir {
		return 1
	}
	return 0
}

func nameKindEligible(kind walker.Kind, mode config.Mode, isBinary, binaryNames bool) bool {
	switch kind {
	case walker.Dir:
		return mode.ProcessesDirs()
	case walker.Symlink:
		return true
	default: // File
		if !mode.ProcessesFiles() {
			return false
		}
		return !(isBinary && !binaryNames)
	}
}

func classifyFile(path string, sink report.Sink) (binarydetect.Result, bool) {
	full, err := os.ReadFile(path)
	if err != nil {
		sink.Warn("skipping unreadable file %s: %v", path, err)
		return binarydetect.Result{}, false
	}

	sample := full
	if len(sample) > binarydetect.SniffWindow {
		sample = sample[:binarydetect.SniffWindow]
	}

	return binarydetect.Classify(sample, full), true
}

func buildContentEdit(path string, m *matcher.Matcher, result binarydetect.Result) (ContentEdit, error) {
	newText, count := m.ReplaceAll(result.Decoded.Text)
	if count == 0 {
		return ContentEdit{Path: path, MatchCount: 0}, nil
	}

	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(result.Decoded.Text),
		B:        difflib.SplitLines(newText),
		FromFile: path,
		ToFile:   path,
		Context:  2,
	})

	return ContentEdit{
		Path:       path,
		MatchCount: count,
		NewText:    newText,
		Original:   result.Decoded,
		Diff:       diff,
	}, nil
}
