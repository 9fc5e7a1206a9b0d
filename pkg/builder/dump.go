package builder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/toastate/ironsmith/internal/tlogger"
	"github.com/toastate/ironsmith/pkg/file"
)

// ErrPathEscapes rejects a file whose path would land outside the target directory.
var ErrPathEscapes = errors.New("path escapes the output directory")

// dumpConcurrency caps in-flight writes.
const dumpConcurrency = 16

// DumpDirectory writes every file to dir/<path>, creating folders on demand.
// It returns once all writes have settled; the first failure is returned.
// Files already in dir that are not in files are left alone.
func DumpDirectory(dir string, files file.Map) error {
	tlogger.Debug("msg", "Dumping files", "count", len(files), "path", dir)

	var g errgroup.Group
	g.SetLimit(dumpConcurrency)

	for name, f := range files {
		g.Go(func() error {
			return writeFile(dir, name, f)
		})
	}

	if err := g.Wait(); err != nil {
		tlogger.Error("msg", "Dump failed", "path", dir, "err", err)
		return err
	}
	return nil
}

func writeFile(dir, name string, f *file.File) error {
	target := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("writing %s: %w", name, ErrPathEscapes)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		tlogger.Error("msg", "Failed to create folder", "file", name, "err", err)
		return fmt.Errorf("writing %s: %w", name, err)
	}

	tlogger.Debug("msg", "Writing file", "file", name, "asset", f.Asset)
	if err := os.WriteFile(target, f.Contents, 0644); err != nil {
		tlogger.Error("msg", "Failed to write file", "file", name, "err", err)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
