package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"nodular/application/projections"
)

// RenderOptionsWatcher serves the current render options and hot
// reloads them when the options file changes on disk. Without a file
// it degrades to a static provider over the configured defaults.
type RenderOptionsWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	mu       sync.RWMutex
	current  projections.RenderOptions
	onChange []func(projections.RenderOptions)

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewRenderOptionsWatcher creates a watcher seeded with the given
// options. Path may be empty, in which case no file is watched.
func NewRenderOptionsWatcher(path string, initial projections.RenderOptions, logger *zap.Logger) (*RenderOptionsWatcher, error) {
	w := &RenderOptionsWatcher{
		path:    path,
		logger:  logger,
		current: initial,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}

	if path == "" {
		close(w.doneCh)
		return w, nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsWatcher.Add(path); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w.watcher = fsWatcher

	if opts, err := loadOptionsFile(path, initial); err != nil {
		logger.Warn("render options file unreadable, keeping defaults",
			zap.String("path", path), zap.Error(err))
	} else {
		w.current = opts
	}

	go w.loop()
	return w, nil
}

// Current implements ports.RenderOptionsProvider
func (w *RenderOptionsWatcher) Current() projections.RenderOptions {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback invoked after every successful reload
func (w *RenderOptionsWatcher) OnChange(fn func(projections.RenderOptions)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Stop ends the watch loop and releases the file watcher
func (w *RenderOptionsWatcher) Stop() {
	if w.watcher == nil {
		return
	}
	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

func (w *RenderOptionsWatcher) loop() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("render options watcher error", zap.Error(err))
		}
	}
}

func (w *RenderOptionsWatcher) reload() {
	opts, err := loadOptionsFile(w.path, w.Current())
	if err != nil {
		w.logger.Warn("render options reload failed, keeping previous",
			zap.String("path", w.path), zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = opts
	callbacks := make([]func(projections.RenderOptions), len(w.onChange))
	copy(callbacks, w.onChange)
	w.mu.Unlock()

	w.logger.Info("render options reloaded", zap.String("path", w.path))
	for _, fn := range callbacks {
		fn(opts)
	}
}

// optionsFile is the TOML shape of the watched file. Omitted fields
// keep their previous values.
type optionsFile struct {
	ShowSystemEdges *bool `koanf:"show_system_edges"`
	PreviewLength   *int  `koanf:"preview_length"`

	ContentSize *sizeFile `koanf:"content_size"`
	SystemSize  *sizeFile `koanf:"system_size"`
	FileSize    *sizeFile `koanf:"file_size"`
}

type sizeFile struct {
	Width  float64 `koanf:"width"`
	Height float64 `koanf:"height"`
}

func loadOptionsFile(path string, base projections.RenderOptions) (projections.RenderOptions, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return projections.RenderOptions{}, err
	}

	var parsed optionsFile
	if err := k.Unmarshal("", &parsed); err != nil {
		return projections.RenderOptions{}, err
	}

	opts := base
	if parsed.ShowSystemEdges != nil {
		opts.ShowSystemEdges = *parsed.ShowSystemEdges
	}
	if parsed.PreviewLength != nil {
		opts.PreviewLength = *parsed.PreviewLength
	}
	if parsed.ContentSize != nil {
		opts.ContentSize = projections.Size(*parsed.ContentSize)
	}
	if parsed.SystemSize != nil {
		opts.SystemSize = projections.Size(*parsed.SystemSize)
	}
	if parsed.FileSize != nil {
		opts.FileSize = projections.Size(*parsed.FileSize)
	}
	return opts, nil
}
