package db

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 300 * time.Millisecond

// DatasetWatcher reloads the data directory into a Snapshot whenever either data file changes.
// A reload that fails keeps the previous dataset.
type DatasetWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	snapshot *Snapshot
	logger   *zap.SugaredLogger
	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool

	reloads  atomic.Int64
	failures atomic.Int64
}

// NewDatasetWatcher creates a watcher for dir. A zero debounce uses the default.
func NewDatasetWatcher(dir string, snapshot *Snapshot, debounce time.Duration, logger *zap.SugaredLogger) (*DatasetWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &DatasetWatcher{
		watcher:  w,
		dir:      dir,
		snapshot: snapshot,
		logger:   logger,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It does not block.
func (dw *DatasetWatcher) Start(ctx context.Context) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.running {
		return nil
	}
	if err := dw.watcher.Add(dw.dir); err != nil {
		return err
	}
	dw.running = true
	dw.logger.Infof("Watching %s for data changes", dw.dir)
	go dw.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (dw *DatasetWatcher) Stop() {
	dw.mu.Lock()
	if !dw.running {
		dw.mu.Unlock()
		return
	}
	dw.running = false
	dw.mu.Unlock()

	close(dw.stopCh)
	<-dw.doneCh
	if err := dw.watcher.Close(); err != nil {
		dw.logger.Errorf("Error closing data watcher: %v", err)
	}
}

// Reloads returns the number of successful reloads.
func (dw *DatasetWatcher) Reloads() int64 { return dw.reloads.Load() }

// Failures returns the number of reloads that kept the previous dataset.
func (dw *DatasetWatcher) Failures() int64 { return dw.failures.Load() }

func (dw *DatasetWatcher) run(ctx context.Context) {
	defer close(dw.doneCh)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-dw.stopCh:
			return
		case ev, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if !isDataFile(ev.Name) || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			dw.logger.Debugf("Data file event: %s %s", ev.Op, ev.Name)
			pending = time.After(dw.debounce)
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.logger.Warnf("Data watcher error: %v", err)
		case <-pending:
			pending = nil
			dw.reload(ctx)
		}
	}
}

func (dw *DatasetWatcher) reload(ctx context.Context) {
	ds, err := LoadDataset(ctx, dw.dir)
	if err != nil {
		dw.failures.Add(1)
		dw.logger.Errorf("Reload failed, keeping previous data: %v", err)
		return
	}
	dw.snapshot.Swap(ds)
	dw.reloads.Add(1)
	dw.logger.Infof("Reloaded %d students and %d schools", len(ds.Students()), len(ds.Schools()))
	ReportOrphans(ds, dw.logger)
}

func isDataFile(name string) bool {
	base := filepath.Base(name)
	return base == StudentsFile || base == SchoolsFile
}
