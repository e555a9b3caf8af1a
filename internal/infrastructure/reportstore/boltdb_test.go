package reportstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "reports.db"), "reports")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndList_NewestFirst(t *testing.T) {
	store := openStore(t)
	base := time.Date(2026, 8, 28, 18, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(Report{ID: "r1", Kind: KindWeekly, Content: "week one", CreatedAt: base}))
	require.NoError(t, store.Save(Report{ID: "r2", Kind: KindWeekly, Content: "week two", CreatedAt: base.AddDate(0, 0, 7)}))
	require.NoError(t, store.Save(Report{ID: "r3", Kind: KindGap, TargetID: "t9", Content: "gap note", CreatedAt: base.AddDate(0, 0, 3)}))

	reports, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, "r2", reports[0].ID)
	assert.Equal(t, "r3", reports[1].ID)
	assert.Equal(t, "r1", reports[2].ID)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 3, size)
}

func TestList_RespectsLimit(t *testing.T) {
	store := openStore(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Save(Report{Content: "entry", CreatedAt: base.AddDate(0, 0, i)}))
	}

	reports, err := store.List(2)
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestGet(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Save(Report{ID: "r1", Kind: KindGap, TargetID: "t1", Content: "commentary"}))

	report, err := store.Get("r1")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "commentary", report.Content)
	assert.Equal(t, "t1", report.TargetID)
	assert.False(t, report.CreatedAt.IsZero(), "save stamps a created-at when missing")

	missing, err := store.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCleanup(t *testing.T) {
	store := openStore(t)
	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(Report{ID: "old", Content: "stale", CreatedAt: old}))
	require.NoError(t, store.Save(Report{ID: "new", Content: "fresh", CreatedAt: recent}))

	require.NoError(t, store.Cleanup(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))

	reports, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "new", reports[0].ID)
}
