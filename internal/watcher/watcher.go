package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/toastate/ironsmith/internal/tlogger"
)

// StartWatcher watches every folder under the given roots and emits changed
// paths until ctx is done. Folders created later are watched too.
func StartWatcher(ctx context.Context, folders ...string) (<-chan string, error) {
	wch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, folder := range folders {
		if err := addRecursive(wch, folder); err != nil {
			wch.Close()
			return nil, err
		}
	}

	outCh := make(chan string, 100)

	go func() {
		defer close(outCh)
		defer wch.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-wch.Events:
				if !ok {
					return
				}
				tlogger.Debug("msg", "Watcher event", "event", event.String())
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := addRecursive(wch, event.Name); err != nil {
							tlogger.Warn("msg", "Could not watch new folder", "path", event.Name, "err", err)
						}
					}
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					tlogger.Info("msg", "Detected change", "path", event.Name)
					select {
					case outCh <- event.Name:
					default:
					}
				}
			case err, ok := <-wch.Errors:
				if !ok {
					return
				}
				tlogger.Warn("msg", "Watcher error", "err", err)
			}
		}
	}()

	return outCh, nil
}

func addRecursive(wch *fsnotify.Watcher, folder string) error {
	return filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return wch.Add(path)
		}
		return nil
	})
}

// Debounce collapses bursts of changes: it emits once quiet has elapsed since
// the last change.
func Debounce(in <-chan string, quiet time.Duration) <-chan struct{} {
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for {
			if _, ok := <-in; !ok {
				return
			}
		burst:
			for {
				select {
				case _, ok := <-in:
					if !ok {
						break burst
					}
				case <-time.After(quiet):
					break burst
				}
			}
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out
}
