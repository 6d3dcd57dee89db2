package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/nijaru/yt-shorts/errors"
)

func newTestSQLite(t *testing.T) *SQLiteStrategy {
	t.Helper()
	s := NewSQLiteStrategy(filepath.Join(t.TempDir(), "videos.db"), testSchema)
	require.NoError(t, s.Initialize(context.Background()))
	return s
}

func TestSQLiteInitializeIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Initialize(ctx))

	rows, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestSQLiteInitializeSchemaMismatch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "videos.db")

	require.NoError(t, NewSQLiteStrategy(path, testSchema).Initialize(ctx))

	other := Schema{
		Table:    testSchema.Table,
		IDColumn: "id",
		Columns:  []string{"id", "url", "rating"},
	}
	err := NewSQLiteStrategy(path, other).Initialize(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "schema mismatch")
}

func TestSQLiteUpsertIdempotence(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	first := rowFixture("v1", map[string]string{"title": "Cats"})
	second := rowFixture("v1", map[string]string{"title": "Cats Remastered"})

	require.NoError(t, s.SaveBatch(ctx, []Row{first}))
	require.NoError(t, s.SaveBatch(ctx, []Row{second}))

	rows, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, second, rows[0])
}

func TestSQLiteUpsertNonDestructive(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	rowA := rowFixture("a", nil)
	rowB := rowFixture("b", nil)

	require.NoError(t, s.SaveBatch(ctx, []Row{rowA}))
	require.NoError(t, s.SaveBatch(ctx, []Row{rowB}))

	rows, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []Row{rowA, rowB}, rows)
}

func TestSQLiteEmptyBatchNoOp(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	require.NoError(t, s.SaveBatch(ctx, []Row{rowFixture("v1", nil)}))
	before, err := s.GetAll(ctx)
	require.NoError(t, err)

	require.NoError(t, s.SaveBatch(ctx, nil))
	require.NoError(t, s.SaveBatch(ctx, []Row{}))

	after, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestSQLiteBatchAtomicity(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	// The last row has no id at all, which maps to a NULL primary key and
	// violates the NOT NULL constraint mid-transaction.
	bad := Row{"url": "https://x/bad", "title": "No ID"}
	batch := []Row{
		rowFixture("v1", nil),
		rowFixture("v2", nil),
		rowFixture("v3", nil),
		bad,
	}

	err := s.SaveBatch(ctx, batch)
	require.Error(t, err)
	require.True(t, apperrors.IsInternal(err))

	rows, getErr := s.GetAll(ctx)
	require.NoError(t, getErr)
	require.Empty(t, rows, "no row of a failed batch may be committed")
}

func TestSQLiteGetAllReturnsEveryColumn(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	// A row saved without optional cells still reads back complete.
	require.NoError(t, s.SaveBatch(ctx, []Row{{"id": "v1"}}))

	rows, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	for _, c := range testSchema.Columns {
		require.Contains(t, rows[0], c)
	}
	require.Equal(t, "", rows[0]["title"])
}
