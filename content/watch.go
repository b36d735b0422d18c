package content

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports which posts changed under a content root. Bursts of
// events are collapsed into one callback per debounce window.
type Watcher struct {
	root     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(slugs []string)
}

func NewWatcher(root string, debounce time.Duration, onChange func(slugs []string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to resolve content root: %w", err)
	}
	w := &Watcher{root: abs, watcher: fw, debounce: debounce, onChange: onChange}
	if err := w.addTree(); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree() error {
	if err := w.watcher.Add(w.root); err != nil {
		return &StorageError{Op: "watch", Path: w.root, Err: err}
	}
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return &StorageError{Op: "list", Path: w.root, Err: err}
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dir := filepath.Join(w.root, entry.Name())
		if err := w.watcher.Add(dir); err != nil {
			slog.Warn("failed to watch post directory", "dir", dir, "error", err)
		}
	}
	return nil
}

// Run delivers change notifications until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	pending := map[string]struct{}{}
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			slug, ok := w.slugFor(event.Name)
			if !ok {
				continue
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) && filepath.Dir(event.Name) == w.root {
				if err := w.watcher.Add(event.Name); err != nil {
					slog.Warn("failed to watch new post directory", "dir", event.Name, "error", err)
				}
			}
			slog.Debug("content change", "file", event.Name, "op", event.Op.String())
			pending[slug] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			slugs := make([]string, 0, len(pending))
			for slug := range pending {
				slugs = append(slugs, slug)
			}
			slices.Sort(slugs)
			clear(pending)
			w.onChange(slugs)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("content watcher error", "error", err)
		}
	}
}

// slugFor maps a path under the root to the post it belongs to.
func (w *Watcher) slugFor(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	slug, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	if strings.HasPrefix(slug, ".") {
		return "", false
	}
	return slug, true
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
