package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"forge3d/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Load reads settings from a .toml, .yaml or .yml file. Fields missing from
// the file keep their defaults.
func Load(path string) (RenderSettings, error) {
	s := Default()

	var unmarshal func([]byte, any) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		unmarshal = toml.Unmarshal
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	default:
		return s, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read config: %w", err)
	}
	if err := unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("failed to parse %s: %w", path, err)
	}
	s.Validate()
	return s, nil
}

// Watch reloads the file at path whenever it is written or replaced and
// sends the result on the returned channel. Only the newest unread settings
// are kept. The channel is closed once ctx is done.
func Watch(ctx context.Context, path string) (<-chan RenderSettings, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	// Watch the directory: many editors save by renaming a temp file over the original
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	target := filepath.Clean(path)
	out := make(chan RenderSettings, 1)
	go func() {
		defer close(out)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				s, err := Load(path)
				if err != nil {
					logger.Log.Warn("config reload failed", zap.String("path", path), zap.Error(err))
					continue
				}
				select {
				case <-out:
				default:
				}
				out <- s
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Log.Warn("config watcher error", zap.Error(err))
			}
		}
	}()
	return out, nil
}
