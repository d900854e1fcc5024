package history

import (
	"context"
	"testing"

	"github.com/jowharshamshiri/refac/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rep := report.New("/tmp/project", "old", "new")
	rep.Append(report.Item{Kind: report.EditItem, Path: "a.txt", Outcome: report.Succeeded})
	rep.Append(report.Item{Kind: report.RenameItem, Path: "oldname.txt", To: "newname.txt", Outcome: report.Succeeded})

	require.NoError(t, s.Record(ctx, rep))

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, rep.RunID, e.RunID)
	assert.Equal(t, "/tmp/project", e.Root)
	assert.Equal(t, "old", e.Pattern)
	assert.Equal(t, "new", e.Substitute)
	assert.Equal(t, 1, e.Edits)
	assert.Equal(t, 1, e.Renames)
	assert.Equal(t, 2, e.Succeeded)
	assert.Equal(t, 0, e.Failed)
}

func TestStore_ListOrdersNewestFirstAndRespectsLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rep := report.New("/tmp/project", "old", "new")
		require.NoError(t, s.Record(ctx, rep))
	}

	entries, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.False(t, entries[0].StartedAt.Before(entries[1].StartedAt), "newest run must come first")
}

func TestStore_RecordIsIdempotentPerRunID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rep := report.New("/tmp/project", "old", "new")
	require.NoError(t, s.Record(ctx, rep))
	require.NoError(t, s.Record(ctx, rep))

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
