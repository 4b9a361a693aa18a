package laneconfig

// #region imports
import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/AdAstra1111/project-lane-navigator/quality-engine/internal/narrative"
)

// #endregion

// #region watcher

// Watcher is a Table backed by a YAML file that reloads on change. Lookups
// read the last good table; a reload that fails to parse keeps serving the
// previous table.
type Watcher struct {
	mu      sync.RWMutex
	current *StaticTable
	path    string
	fw      *fsnotify.Watcher
	log     *zap.Logger
	done    chan struct{}
}

// Watch loads path and starts watching it for changes. logger may be nil.
func Watch(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	table, err := Load(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	w := &Watcher{
		current: table,
		path:    path,
		fw:      fw,
		log:     logger,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("policy watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	table, err := Load(w.path)
	if err != nil {
		w.log.Warn("policy reload failed, keeping previous table",
			zap.String("path", w.path), zap.Error(err))
		return
	}
	w.mu.Lock()
	w.current = table
	w.mu.Unlock()
	w.log.Info("policy table reloaded", zap.String("path", w.path))
}

func (w *Watcher) table() *StaticTable {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// #endregion watcher

// #region table-delegation

func (w *Watcher) MelodramaThreshold(lane string) float64 {
	return w.table().MelodramaThreshold(lane)
}

func (w *Watcher) SimilarityThreshold(lane string) float64 {
	return w.table().SimilarityThreshold(lane)
}

func (w *Watcher) DefaultConflictMode(lane string) narrative.ConflictMode {
	return w.table().DefaultConflictMode(lane)
}

func (w *Watcher) CapsFor(lane string) narrative.Caps {
	return w.table().CapsFor(lane)
}

func (w *Watcher) DiversifyEnabled(lane string) bool {
	return w.table().DiversifyEnabled(lane)
}

// #endregion table-delegation
