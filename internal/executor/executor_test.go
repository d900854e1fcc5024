package executor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jowharshamshiri/refac/internal/config"
	"github.com/jowharshamshiri/refac/internal/encoding"
	"github.com/jowharshamshiri/refac/internal/matcher"
	"github.com/jowharshamshiri/refac/internal/planner"
	"github.com/jowharshamshiri/refac/internal/refacerr"
	"github.com/jowharshamshiri/refac/internal/report"
	"github.com/jowharshamshiri/refac/internal/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPlan(t *testing.T, root string, mode config.Mode, pattern, substitute string) (*config.Request, *planner.ChangePlan) {
	t.Helper()
	req, err := config.New(root, pattern, substitute, mode, config.MatcherOptions{}, config.TraversalOptions{}, config.ExecutionOptions{Threads: 2})
	require.NoError(t, err)

	m, err := matcher.New(pattern, substitute, matcher.Options{})
	require.NoError(t, err)

	var candidates []walker.Candidate
	require.NoError(t, walker.Walk(root, walker.Options{}, report.NopSink{}, func(c walker.Candidate) {
		candidates = append(candidates, c)
	}))

	plan, err := planner.Build(req, m, candidates, report.NopSink{})
	require.NoError(t, err)
	return req, plan
}

func TestRun_AppliesEditsAndRenames(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "oldname_a.txt"), []byte("oldname line\nother line"), 0644))

	req, plan := buildPlan(t, root, config.Full, "oldname", "newname")
	rep := report.New(root, "oldname", "newname")

	require.NoError(t, Run(context.Background(), req, plan, rep, report.NopSink{}, nil))

	assert.True(t, rep.Clean())
	c := rep.Counts()
	assert.Equal(t, 1, c.Edits)
	assert.Equal(t, 1, c.Renames)
	assert.Equal(t, 2, c.Succeeded)

	newPath := filepath.Join(root, "newname_a.txt")
	data, err := os.ReadFile(newPath)
	require.NoError(t, err)
	assert.Equal(t, "newname line\nother line", string(data))
}

func TestRun_PreservesPermissionBits(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "script.txt")
	require.NoError(t, os.WriteFile(path, []byte("oldname"), 0755))

	req, plan := buildPlan(t, root, config.ContentOnly, "oldname", "newname")
	rep := report.New(root, "oldname", "newname")

	require.NoError(t, Run(context.Background(), req, plan, rep, report.NopSink{}, nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestRun_BackupWritesBakFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("oldname here"), 0644))

	req, err := config.New(root, "oldname", "newname", config.ContentOnly,
		config.MatcherOptions{}, config.TraversalOptions{}, config.ExecutionOptions{Backup: true})
	require.NoError(t, err)

	m, err := matcher.New("oldname", "newname", matcher.Options{})
	require.NoError(t, err)

	var candidates []walker.Candidate
	require.NoError(t, walker.Walk(root, walker.Options{}, report.NopSink{}, func(c walker.Candidate) {
		candidates = append(candidates, c)
	}))
	plan, err := planner.Build(req, m, candidates, report.NopSink{})
	require.NoError(t, err)

	rep := report.New(root, "oldname", "newname")
	require.NoError(t, Run(context.Background(), req, plan, rep, report.NopSink{}, nil))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "oldname here", string(backup))
}

func TestRun_MissingSourceIsSkippedNotFailed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "oldname.txt"), []byte("oldname"), 0644))

	req, plan := buildPlan(t, root, config.NamesOnly, "oldname", "newname")

	// Simulate concurrent external modification: remove the file after the
	// plan was built but before the executor runs.
	require.NoError(t, os.Remove(filepath.Join(root, "oldname.txt")))

	rep := report.New(root, "oldname", "newname")
	require.NoError(t, Run(context.Background(), req, plan, rep, report.NopSink{}, nil))

	c := rep.Counts()
	assert.Equal(t, 0, c.Failed)
	assert.Equal(t, 1, c.Skipped)
}

func TestRun_CancelledContextSkipsRemainingItems(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "oldname.txt"), []byte("oldname"), 0644))

	req, plan := buildPlan(t, root, config.NamesOnly, "oldname", "newname")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep := report.New(root, "oldname", "newname")
	require.NoError(t, Run(ctx, req, plan, rep, report.NopSink{}, nil))

	for _, it := range rep.Items() {
		assert.Equal(t, report.Skipped, it.Outcome)
		assert.Equal(t, "cancelled", it.Reason)
	}
}

func TestRun_EncodingRoundTripsLatin1(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "legacy.txt")
	latin1Bytes := []byte{0x6f, 0x6c, 0x64, 0xe9} // "old" + e-acute (0xE9), invalid UTF-8
	require.NoError(t, os.WriteFile(path, latin1Bytes, 0644))

	req, plan := buildPlan(t, root, config.ContentOnly, "old", "new")

	require.Len(t, plan.Edits, 1)
	assert.Equal(t, encoding.Latin1, plan.Edits[0].Original.Kind)

	rep := report.New(root, "old", "new")
	require.NoError(t, Run(context.Background(), req, plan, rep, report.NopSink{}, nil))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x6e, 0x65, 0x77, 0xe9}, out)
}

func TestRun_PreservesUTF8BOM(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "withbom.txt")
	bom := []byte{0xEF, 0xBB, 0xBF}
	require.NoError(t, os.WriteFile(path, append(bom, []byte("old text")...), 0644))

	req, plan := buildPlan(t, root, config.ContentOnly, "old", "new")

	require.Len(t, plan.Edits, 1)
	assert.Equal(t, encoding.UTF8, plan.Edits[0].Original.Kind)
	assert.True(t, plan.Edits[0].Original.HasBOM)

	rep := report.New(root, "old", "new")
	require.NoError(t, Run(context.Background(), req, plan, rep, report.NopSink{}, nil))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, append(bom, []byte("new text")...), out)
}

func TestRunRenames_DetectsInvariantBreach(t *testing.T) {
	plan := &planner.ChangePlan{
		Renames: []planner.Rename{
			{From: "/a", To: "/b"},
			{From: "/a", To: "/c"},
		},
	}
	rep := report.New("/root", "x", "y")
	err := runRenames(context.Background(), plan, rep, report.NopSink{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, refacerr.ErrPlanInvariantBroken))
}
