// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch reruns a build whenever Markdown notes in a notebook change.
package watch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher observes every directory below a notebook root.
type Watcher struct {
	root     string
	debounce time.Duration
	ignore   map[string]bool
	log      zerolog.Logger
}

// New returns a Watcher for root. A zero debounce uses 500ms.
func New(root string, debounce time.Duration, log zerolog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		root:     root,
		debounce: debounce,
		ignore:   make(map[string]bool),
		log:      log,
	}
}

// Ignore excludes paths from triggering rebuilds. The build's own outputs
// belong here when they live inside the notebook.
func (w *Watcher) Ignore(paths ...string) {
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			w.ignore[abs] = true
		}
	}
}

// Run calls rebuild once after each burst of changes, waiting for a quiet
// period of the debounce length. Rebuild errors are written to out and
// watching continues. Run returns nil when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context) error, out io.Writer) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.root); err != nil {
		return err
	}
	fmt.Fprintf(out, "watching %s for changes (ctrl-c to stop)\n", w.root)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && isDir(ev.Name) && !hidden(ev.Name) {
				if err := w.addTree(fsw, ev.Name); err != nil {
					w.log.Warn().Err(err).Str("dir", ev.Name).Msg("watching new directory")
				}
				continue
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("change")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("file watcher")

		case <-fire:
			fire = nil
			fmt.Fprintln(out, "change detected, rebuilding")
			if err := rebuild(ctx); err != nil {
				fmt.Fprintf(out, "rebuild failed: %v\n", err)
			}
		}
	}
}

// relevant reports whether ev should trigger a rebuild.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if !strings.EqualFold(filepath.Ext(ev.Name), ".md") {
		return false
	}
	if abs, err := filepath.Abs(ev.Name); err == nil && w.ignore[abs] {
		return false
	}
	return true
}

// addTree watches dir and every non-hidden directory below it.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && hidden(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// hidden matches dot-directories such as .zk and .git.
func hidden(path string) bool {
	name := filepath.Base(path)
	return len(name) > 1 && strings.HasPrefix(name, ".")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
