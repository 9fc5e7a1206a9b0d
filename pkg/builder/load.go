package builder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/toastate/ironsmith/internal/tlogger"
	"github.com/toastate/ironsmith/pkg/file"
)

// LoadOptions are the file options applied to every loaded file, plus the
// loader's own settings.
type LoadOptions struct {
	file.Options

	// LoadRelative prefixes every loaded path, e.g. "blog" loads a.md as blog/a.md.
	LoadRelative string

	// Augments runs over each loaded file. Nil means none.
	Augments *file.Registry
}

// LoadDirectory reads every regular file under dir, in lexical walk order, into
// a Map keyed by path relative to dir. dir itself may be a symlink. Files vetoed
// by an augment are logged and skipped; any filesystem error aborts the load.
func LoadDirectory(ctx context.Context, dir string, opts LoadOptions) (file.Map, error) {
	prefix := normalizePrefix(opts.LoadRelative)
	files := make(file.Map)

	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		tlogger.Error("msg", "Failed to resolve directory", "path", dir, "err", err)
		return nil, fmt.Errorf("loading %s: %w", dir, err)
	}

	var names []string
	err = filepath.WalkDir(root, func(absolutepath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(absolutepath)
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}
		names = append(names, absolutepath)
		return nil
	})
	if err != nil {
		tlogger.Error("msg", "Failed to walk directory", "path", dir, "err", err)
		return nil, fmt.Errorf("loading %s: %w", dir, err)
	}

	tlogger.Debug("msg", "Loading files", "count", len(names), "path", dir, "prefix", prefix)

	for _, name := range names {
		contents, err := os.ReadFile(name)
		if err != nil {
			tlogger.Error("msg", "Failed to read file", "path", name, "err", err)
			return nil, fmt.Errorf("loading %s: %w", dir, err)
		}

		rel, err := filepath.Rel(root, name)
		if err != nil {
			tlogger.Error("msg", "Failed to get relative path", "path", name, "err", err)
			return nil, err
		}

		f, err := opts.Augments.New(ctx, contents, prefix+filepath.ToSlash(rel), opts.Options)
		if err != nil {
			if errors.Is(err, file.ErrRejected) {
				tlogger.Debug("msg", "not loaded", "path", name, "reason", err)
				continue
			}
			return nil, err
		}

		tlogger.Debug("msg", "loaded", "path", f.Path, "asset", f.Asset)
		files.Add(f)
	}

	return files, nil
}
