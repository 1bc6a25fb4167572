package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDatasetWatcherReloads(t *testing.T) {
	dir := writeDataDir(t, testStudents, testSchools)
	ds, err := LoadDataset(context.Background(), dir)
	require.NoError(t, err)

	snap := NewSnapshot(ds)
	w, err := NewDatasetWatcher(dir, snap, 20*time.Millisecond, zap.NewNop().Sugar())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	t.Run("valid change is swapped in", func(t *testing.T) {
		updated := `[{"name": "Zed", "school_id": 1}]`
		require.NoError(t, os.WriteFile(filepath.Join(dir, StudentsFile), []byte(updated), 0o644))

		require.Eventually(t, func() bool {
			students := snap.Current().Students()
			return len(students) == 1 && students[0].Name == "Zed"
		}, 5*time.Second, 20*time.Millisecond)
		assert.GreaterOrEqual(t, w.Reloads(), int64(1))
	})

	t.Run("broken change keeps previous data", func(t *testing.T) {
		before := snap.Current()
		require.NoError(t, os.WriteFile(filepath.Join(dir, SchoolsFile), []byte(`{broken`), 0o644))

		require.Eventually(t, func() bool {
			return w.Failures() >= 1
		}, 5*time.Second, 20*time.Millisecond)
		assert.Same(t, before, snap.Current())
	})

	t.Run("other files are ignored", func(t *testing.T) {
		reloads, failures := w.Reloads(), w.Failures()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
		time.Sleep(100 * time.Millisecond)
		assert.Equal(t, reloads, w.Reloads())
		assert.Equal(t, failures, w.Failures())
	})
}

func TestIsDataFile(t *testing.T) {
	assert.True(t, isDataFile("/data/students.json"))
	assert.True(t, isDataFile("schools.json"))
	assert.False(t, isDataFile("/data/students.json.swp"))
}
