package db

import (
	"sync/atomic"

	"classmap-server-go/models"
)

// Snapshot holds the dataset currently being served. Reloads replace it whole.
type Snapshot struct {
	current atomic.Pointer[models.Dataset]
}

// NewSnapshot creates a Snapshot serving ds
func NewSnapshot(ds *models.Dataset) *Snapshot {
	s := &Snapshot{}
	s.current.Store(ds)
	return s
}

// Current returns the dataset in use.
func (s *Snapshot) Current() *models.Dataset {
	return s.current.Load()
}

// Swap installs ds and returns the previous dataset.
func (s *Snapshot) Swap(ds *models.Dataset) *models.Dataset {
	return s.current.Swap(ds)
}
