// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	id, err := s.Record(ctx, Entry{
		Tag: "exam", LinkDepth: 1, Notes: 12,
		Document: "/out/exam.md", Output: "/out/exam.pdf",
		StartedAt: base, Duration: 1500 * time.Millisecond, Status: StatusOK,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = s.Record(ctx, Entry{
		ID: "fixed-id", Tag: "reading", Document: "/out/reading.md",
		StartedAt: base.Add(time.Minute), Status: StatusFailed, Error: "pandoc exited with code 43",
	})
	require.NoError(t, err)

	_, err = s.Record(ctx, Entry{
		Tag: "exam", Notes: 13, Document: "/out/exam.md",
		StartedAt: base.Add(2*time.Minute + 500*time.Millisecond), Status: StatusOK,
	})
	require.NoError(t, err)

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 13, all[0].Notes, "newest first")
	assert.Equal(t, "fixed-id", all[1].ID)
	assert.Equal(t, StatusFailed, all[1].Status)
	assert.Equal(t, "pandoc exited with code 43", all[1].Error)
	assert.Empty(t, all[1].Output)

	oldest := all[2]
	assert.Equal(t, id, oldest.ID)
	assert.Equal(t, "/out/exam.pdf", oldest.Output)
	assert.Equal(t, 1500*time.Millisecond, oldest.Duration)
	assert.True(t, base.Equal(oldest.StartedAt))

	exam, err := s.List(ctx, Filter{Tag: "exam", Limit: 1})
	require.NoError(t, err)
	require.Len(t, exam, 1)
	assert.Equal(t, 13, exam[0].Notes)
}

func TestRecord_DuplicateID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	e := Entry{ID: "same", Tag: "exam", Document: "exam.md", StartedAt: time.Now(), Status: StatusOK}

	_, err := s.Record(ctx, e)
	require.NoError(t, err)
	_, err = s.Record(ctx, e)
	assert.ErrorContains(t, err, "recording build same")
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record(context.Background(), Entry{Tag: "exam", Document: "exam.md", StartedAt: time.Now(), Status: StatusOK})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
