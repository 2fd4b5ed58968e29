package gamedata

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the registry when YAML files in its override directory
// change. Bursts of events collapse into one reload.
type Watcher struct {
	reg      *Registry
	debounce time.Duration
	log      *zap.Logger
}

func NewWatcher(reg *Registry, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Watcher{reg: reg, debounce: debounce, log: reg.log.With(zap.String("dir", reg.dir))}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w.reg.dir == "" {
		return fmt.Errorf("gamedata watcher: no override directory")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("gamedata watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.reg.dir); err != nil {
		return fmt.Errorf("gamedata watcher: watch %s: %w", w.reg.dir, err)
	}
	w.log.Info("watching game data")

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			w.log.Debug("game data changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		case <-fire:
			fire = nil
			_ = w.reg.Reload()
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if filepath.Ext(ev.Name) != ".yaml" {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
