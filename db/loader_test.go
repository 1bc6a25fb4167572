package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"classmap-server-go/models"
)

const (
	testStudents = `[
  {"name": "Ada", "school_id": 1},
  {"name": "Ben", "school_id": 0},
  {"name": "Cy", "school_id": 2},
  {"name": "Fay", "school_id": 42}
]`
	testSchools = `[
  {"id": 0, "name": "Unknown", "coords": null},
  {"id": 1, "name": "MIT", "coords": [-71.0942, 42.3601]},
  {"id": 2, "name": "Online", "coords": null}
]`
)

func writeDataDir(t *testing.T, students, schools string) string {
	t.Helper()
	dir := t.TempDir()
	if students != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, StudentsFile), []byte(students), 0o644))
	}
	if schools != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, SchoolsFile), []byte(schools), 0o644))
	}
	return dir
}

func TestLoadDataset(t *testing.T) {
	dir := writeDataDir(t, testStudents, testSchools)

	ds, err := LoadDataset(context.Background(), dir)
	require.NoError(t, err)

	assert.Len(t, ds.Students(), 4)
	require.Len(t, ds.Schools(), 3)
	assert.Equal(t, &models.LngLat{-71.0942, 42.3601}, ds.Schools()[1].Coords)
	assert.Nil(t, ds.Schools()[2].Coords)
}

func TestLoadDatasetErrors(t *testing.T) {
	t.Run("missing students file", func(t *testing.T) {
		dir := writeDataDir(t, "", testSchools)
		_, err := LoadDataset(context.Background(), dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingFile)
		assert.Contains(t, err.Error(), StudentsFile)
	})

	t.Run("missing schools file", func(t *testing.T) {
		dir := writeDataDir(t, testStudents, "")
		_, err := LoadDataset(context.Background(), dir)
		assert.ErrorIs(t, err, ErrMissingFile)
	})

	t.Run("malformed json", func(t *testing.T) {
		dir := writeDataDir(t, testStudents, `[{"id": 1, "name": "MIT", "coords": [1]}]`)
		_, err := LoadDataset(context.Background(), dir)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrMissingFile)
		assert.Contains(t, err.Error(), SchoolsFile)
	})

	t.Run("cancelled context", func(t *testing.T) {
		dir := writeDataDir(t, testStudents, testSchools)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := LoadDataset(ctx, dir)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoadAndReportLogsOrphans(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core).Sugar()

	dir := writeDataDir(t, testStudents, testSchools)
	_, err := LoadAndReport(context.Background(), dir, logger)
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "Fay")
}

func TestSnapshotSwap(t *testing.T) {
	first := models.NewDataset(nil, nil)
	second := models.NewDataset([]models.Student{{Name: "Ada"}}, nil)

	s := NewSnapshot(first)
	assert.Same(t, first, s.Current())
	assert.Same(t, first, s.Swap(second))
	assert.Same(t, second, s.Current())
}
