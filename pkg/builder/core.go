package builder

import (
	"errors"
	"path/filepath"

	"github.com/toastate/ironsmith/internal/tlogger"
	"github.com/toastate/ironsmith/pkg/file"
)

// ErrEmptyPath is reported (as a warning) when a directory setter receives "".
var ErrEmptyPath = errors.New("refusing to set an empty path")

// Builder loads a source tree, runs it through the registered plugins and
// optionally writes the result to the build directory.
type Builder struct {
	plugins  []Plugin
	files    file.Map
	augments *file.Registry

	rootPath   string
	sourcePath string
	buildPath  string
	assetsPath string

	LoadSource bool
	LoadAssets bool
	Clean      bool

	// Metadata is shared with every plugin. Use MergeMetadata for a deep merge.
	Metadata Metadata
}

// Options configures a Builder. Zero values keep the defaults, so the source
// tree is loaded unless SkipSource is set.
type Options struct {
	RootPath   string
	SourcePath string
	BuildPath  string
	AssetsPath string

	SkipSource bool
	LoadAssets bool
	Clean      bool

	Metadata map[string]any
	Verbose  int
}

// DefaultOptions spells out the defaults NewBuilder applies to zero values.
func DefaultOptions() Options {
	return Options{
		RootPath:   ".",
		SourcePath: "src",
		BuildPath:  "build",
		AssetsPath: "assets",
	}
}

func NewBuilder(opts Options) *Builder {
	if opts.Verbose > 0 {
		tlogger.ApplyVerbosity(opts.Verbose)
	}

	def := DefaultOptions()
	b := &Builder{
		files:      make(file.Map),
		augments:   file.NewRegistry(),
		LoadSource: !opts.SkipSource,
		LoadAssets: opts.LoadAssets,
		Clean:      opts.Clean,
		Metadata:   make(Metadata),
	}

	b.SetRootPath(firstNonEmpty(opts.RootPath, def.RootPath))
	b.SetSourcePath(firstNonEmpty(opts.SourcePath, def.SourcePath))
	b.SetBuildPath(firstNonEmpty(opts.BuildPath, def.BuildPath))
	b.SetAssetsPath(firstNonEmpty(opts.AssetsPath, def.AssetsPath))

	if opts.Metadata != nil {
		b.Metadata.Merge(opts.Metadata)
	}
	return b
}

func firstNonEmpty(v ...string) string {
	for _, s := range v {
		if s != "" {
			return s
		}
	}
	return ""
}

func (b *Builder) RootPath() string   { return b.rootPath }
func (b *Builder) SourcePath() string { return b.sourcePath }
func (b *Builder) BuildPath() string  { return b.buildPath }
func (b *Builder) AssetsPath() string { return b.assetsPath }

// SetRootPath sets the base that later relative directory settings resolve against.
func (b *Builder) SetRootPath(dir string) error {
	if dir == "" {
		tlogger.Warn("msg", "Refusing to make the root path blank", "kept", b.rootPath)
		return ErrEmptyPath
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		tlogger.Warn("msg", "Cannot resolve root path", "path", dir, "err", err)
		return err
	}
	b.rootPath = abs
	tlogger.Debug("msg", "setRootPath", "path", b.rootPath)
	return nil
}

func (b *Builder) SetSourcePath(dir string) error {
	if dir == "" {
		tlogger.Warn("msg", "Refusing to make the source path blank", "kept", b.sourcePath)
		return ErrEmptyPath
	}
	b.sourcePath = b.resolve(dir)
	tlogger.Debug("msg", "setSourcePath", "path", b.sourcePath)
	return nil
}

func (b *Builder) SetBuildPath(dir string) error {
	if dir == "" {
		tlogger.Warn("msg", "Refusing to make the build path blank", "kept", b.buildPath)
		return ErrEmptyPath
	}
	b.buildPath = b.resolve(dir)
	tlogger.Debug("msg", "setBuildPath", "path", b.buildPath)
	return nil
}

// SetAssetsPath sets the assets directory. An empty value turns asset loading off.
func (b *Builder) SetAssetsPath(dir string) error {
	if dir == "" {
		tlogger.Debug("msg", "Empty assets path, asset loading disabled")
		b.LoadAssets = false
		return nil
	}
	b.assetsPath = b.resolve(dir)
	tlogger.Debug("msg", "setAssetsPath", "path", b.assetsPath)
	return nil
}

func (b *Builder) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(b.rootPath, dir)
}

// Augments is the registry every file loaded by this Builder goes through.
func (b *Builder) Augments() *file.Registry {
	return b.augments
}

// AddAugment registers fn for every file loaded from now on.
func (b *Builder) AddAugment(name string, fn file.AugmentFunc) *Builder {
	b.augments.Add(name, fn)
	return b
}

// Files returns the working collection.
func (b *Builder) Files() file.Map {
	return b.files
}

// AddFile seeds the working collection before Process runs.
func (b *Builder) AddFile(path string, f *file.File) {
	b.files[path] = f
}
