package builder

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/toastate/ironsmith/internal/tlogger"
	"github.com/toastate/ironsmith/pkg/file"
)

// Use appends p to the pipeline.
func (b *Builder) Use(p Plugin) *Builder {
	tlogger.Debug("msg", "Registered plugin", "plugin", p.Name(), "index", len(b.plugins))
	b.plugins = append(b.plugins, p)
	return b
}

// Plugins lists registered stage names in execution order.
func (b *Builder) Plugins() []string {
	out := make([]string, len(b.plugins))
	for i, p := range b.plugins {
		out[i] = p.Name()
	}
	return out
}

// Build cleans the build directory if asked, processes, then writes every
// file under BuildPath.
func (b *Builder) Build(ctx context.Context) (file.Map, error) {
	if b.Clean {
		tlogger.Info("msg", "Cleaning build directory", "path", b.buildPath)
		if err := emptyDir(b.buildPath); err != nil {
			tlogger.Error("msg", "Failed to clean build folder", "path", b.buildPath, "err", err)
			return nil, err
		}
	}

	files, err := b.Process(ctx)
	if err != nil {
		return nil, err
	}

	if err := DumpDirectory(b.buildPath, files); err != nil {
		return nil, err
	}
	return files, nil
}

// Process loads the configured trees and runs every plugin in order without
// writing anything. ctx only bounds the wait on a stage; a cancelled context
// does not stop a plugin that is already running.
func (b *Builder) Process(ctx context.Context) (file.Map, error) {
	tlogger.Info("msg", "Processing started", "source", b.sourcePath, "plugins", len(b.plugins))

	if b.LoadSource {
		sources, err := LoadDirectory(ctx, b.sourcePath, LoadOptions{Augments: b.augments})
		if err != nil {
			return nil, err
		}
		b.files.Merge(sources)
	}

	if b.LoadAssets {
		assets, err := LoadDirectory(ctx, b.assetsPath, LoadOptions{Options: file.Options{Asset: true}, Augments: b.augments})
		if err != nil {
			return nil, err
		}
		b.files.Merge(assets)
	}

	for i, p := range b.plugins {
		tlogger.Debug("msg", "Running plugin", "plugin", p.Name(), "index", i)
		if err := b.runPlugin(ctx, i, p); err != nil {
			tlogger.Error("msg", "Plugin failed", "plugin", p.Name(), "index", i, "err", err)
			return nil, err
		}
	}

	tlogger.Info("msg", "Processing finished", "files", len(b.files))
	return b.files, nil
}

func (b *Builder) runPlugin(ctx context.Context, i int, p Plugin) error {
	done := make(chan error, 1)
	var called atomic.Bool

	next := func(err error) {
		if !called.CompareAndSwap(false, true) {
			tlogger.Error("msg", "Plugin continued more than once", "plugin", p.Name(), "err", ErrNextCalledTwice)
			return
		}
		done <- err
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				if called.CompareAndSwap(false, true) {
					done <- fmt.Errorf("%w: %v", ErrPluginPanic, r)
					return
				}
				tlogger.Error("msg", "Plugin panicked after continuing", "plugin", p.Name(), "panic", r)
			}
		}()
		p.Run(b.files, b, next)
	}()

	select {
	case err := <-done:
		if err != nil {
			return &PluginError{Index: i, Name: p.Name(), Err: err}
		}
		return nil
	case <-ctx.Done():
		return &PluginError{Index: i, Name: p.Name(), Err: ctx.Err()}
	}
}

// LoadDirectory loads dir through this Builder's augments and merges it into
// the working collection.
func (b *Builder) LoadDirectory(ctx context.Context, dir string, opts LoadOptions) (file.Map, error) {
	if opts.Augments == nil {
		opts.Augments = b.augments
	}
	files, err := LoadDirectory(ctx, b.resolve(dir), opts)
	if err != nil {
		return nil, err
	}
	return b.files.Merge(files), nil
}
