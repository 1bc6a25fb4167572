package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"classmap-server-go/models"
)

// Uses a live Redis; set REDIS_ADDR to run. DB 15 is flushed.
func newTestRedisService(t *testing.T) *RedisService {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := InitializeRedisClient(ctx, addr, os.Getenv("REDIS_PASSWORD"), 15)
	require.NoError(t, err)
	require.NoError(t, client.FlushDB(ctx).Err())
	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})
	return NewRedisService(client, zap.NewNop().Sugar())
}

func TestRedisServiceRoundTrip(t *testing.T) {
	s := newTestRedisService(t)
	ctx := context.Background()

	_, err := s.LoadDataset(ctx)
	require.ErrorIs(t, err, ErrNoDataset)

	dir := writeDataDir(t, testStudents, testSchools)
	ds, err := LoadDataset(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, s.PublishDataset(ctx, ds))

	got, err := s.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, ds.Schools(), got.Schools())
	assert.Equal(t, ds.Students(), got.Students())

	names, err := s.GetStudentNamesBySchool(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada"}, names)
}

func TestRedisServicePublishReplaces(t *testing.T) {
	s := newTestRedisService(t)
	ctx := context.Background()

	first := models.NewDataset(
		[]models.Student{{Name: "Ada", SchoolID: 7}},
		[]models.School{{ID: 0, Name: "Unknown"}, {ID: 7, Name: "Old"}},
	)
	second := models.NewDataset(
		[]models.Student{{Name: "Ben", SchoolID: 0}},
		[]models.School{{ID: 0, Name: "Unknown"}},
	)
	require.NoError(t, s.PublishDataset(ctx, first))
	require.NoError(t, s.PublishDataset(ctx, second))

	school, err := s.GetSchoolByID(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, school)

	got, err := s.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.Students(), got.Students())
	assert.Len(t, got.Schools(), 1)
}
