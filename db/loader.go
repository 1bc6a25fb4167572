package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"classmap-server-go/models"
)

const (
	StudentsFile = "students.json"
	SchoolsFile  = "schools.json"
)

// ErrMissingFile is returned when one of the data files does not exist.
var ErrMissingFile = errors.New("data file not found")

// LoadDataset reads students.json and schools.json from dir.
func LoadDataset(ctx context.Context, dir string) (*models.Dataset, error) {
	var (
		students []models.Student
		schools  []models.School
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return readJSON(ctx, filepath.Join(dir, StudentsFile), &students)
	})
	g.Go(func() error {
		return readJSON(ctx, filepath.Join(dir, SchoolsFile), &schools)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return models.NewDataset(students, schools), nil
}

// LoadAndReport loads the dataset and logs what the roster will not show.
func LoadAndReport(ctx context.Context, dir string, logger *zap.SugaredLogger) (*models.Dataset, error) {
	ds, err := LoadDataset(ctx, dir)
	if err != nil {
		return nil, err
	}
	logger.Infof("Loaded %d students and %d schools from %s", len(ds.Students()), len(ds.Schools()), dir)
	ReportOrphans(ds, logger)
	return ds, nil
}

// ReportOrphans logs students whose school_id matches no school.
func ReportOrphans(ds *models.Dataset, logger *zap.SugaredLogger) {
	for _, s := range ds.Orphans() {
		logger.Warnf("Student %q references unknown school %d and will not be shown", s.Name, s.SchoolID)
	}
}

func readJSON(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrMissingFile)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
