package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceDelay coalesces the burst of write events editors emit on save
const debounceDelay = 500 * time.Millisecond

// Watcher re-reads the yaml overlay when it changes. It runs only in
// development, and only when an overlay file was actually loaded. A bad edit
// is reported immediately instead of surfacing on the next restart.
type Watcher struct {
	current   *Config
	callbacks []func(*Config)
	mu        sync.RWMutex
	logger    *zap.Logger
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
}

// NewWatcher creates a watcher for the loaded configuration. Outside
// development, or without an overlay file, it is inert.
func NewWatcher(initial *Config, logger *zap.Logger) (*Watcher, error) {
	w := &Watcher{
		current: initial,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}

	if !initial.IsDevelopment() || initial.OverlayPath == "" {
		return w, nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsWatcher.Add(initial.OverlayPath); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", initial.OverlayPath, err)
	}
	w.watcher = fsWatcher

	go w.watchLoop()
	logger.Info("Configuration hot reload enabled", zap.String("file", initial.OverlayPath))

	return w, nil
}

// OnChange registers a callback invoked with each successfully reloaded
// configuration
func (w *Watcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	w.callbacks = append(w.callbacks, callback)
	w.mu.Unlock()
}

// Current returns the most recently loaded configuration
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Stop stops the watcher
func (w *Watcher) Stop() {
	if w.watcher != nil {
		close(w.stopCh)
		w.watcher.Close()
	}
}

func (w *Watcher) watchLoop() {
	var debounce *time.Timer

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Config watcher error", zap.Error(err))

		case <-w.stopCh:
			return
		}
	}
}

// reload parses the overlay again and swaps the current config on success.
// A broken overlay keeps the previous config and logs the problem.
func (w *Watcher) reload() {
	cfg, err := LoadConfig()
	if err != nil {
		w.logger.Error("Config reload rejected", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = cfg
	callbacks := make([]func(*Config), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	w.logger.Info("Configuration reloaded",
		zap.String("file", cfg.OverlayPath),
		zap.Float64("edgeWeak", cfg.Scoring.EdgeTiers.Weak),
		zap.Float64("edgeMedium", cfg.Scoring.EdgeTiers.Medium),
		zap.Float64("edgeStrong", cfg.Scoring.EdgeTiers.Strong),
		zap.Int("hopBudget", cfg.Scoring.HopBudget),
	)

	for _, callback := range callbacks {
		callback(cfg)
	}
}
