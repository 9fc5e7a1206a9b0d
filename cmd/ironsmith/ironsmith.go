package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/davecgh/go-spew/spew"

	"github.com/toastate/ironsmith/internal/helpers"
	"github.com/toastate/ironsmith/internal/tlogger"
	"github.com/toastate/ironsmith/pkg/builder"
	"github.com/toastate/ironsmith/pkg/config"
	"github.com/toastate/ironsmith/pkg/file"
	"github.com/toastate/ironsmith/pkg/plugins/fingerprint"
	"github.com/toastate/ironsmith/pkg/plugins/flatten"
	"github.com/toastate/ironsmith/pkg/plugins/ignore"
	"github.com/toastate/ironsmith/pkg/plugins/minify"
	"github.com/toastate/ironsmith/pkg/server"
)

var CLI struct {
	Build   CommandBuild   `cmd:"" aliases:"b" help:"Builds or rebuilds the project."`
	Process CommandProcess `cmd:"" aliases:"p" help:"Runs the pipeline without writing and lists the resulting files."`
	Serve   CommandServe   `cmd:"" aliases:"s" help:"Run a live dev server."`

	ConfigFile string `short:"c" help:"configuration file path (optional)"`
}

// BuildFlags override the configuration file.
type BuildFlags struct {
	RootDir   string `help:"Root directory other paths are relative to."`
	SrcDir    string `help:"Source directory."`
	BuildDir  string `help:"Build output."`
	AssetsDir string `help:"Assets directory, loaded when set."`
	Clean     bool   `help:"Empty the build directory before writing."`

	Minify      bool `help:"Minify css, html, js, json, svg and xml files."`
	Fingerprint bool `help:"Embed a content hash in css and js file names."`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

type CommandBuild struct {
	BuildFlags `embed:""`
}

type CommandProcess struct {
	BuildFlags `embed:""`

	JSON bool `help:"Print the file list as JSON."`
	Dump bool `help:"Dump every file and the metadata."`
}

type CommandServe struct {
	BuildFlags `embed:""`

	Build bool `negatable:"" default:"true" help:"Build and watch the sources before serving."`
	Port  int  `short:"p" help:"Listener port"`
}

func main() {
	ctx := kong.Parse(&CLI, kong.UsageOnError())

	err := config.Init(CLI.ConfigFile)
	if err != nil {
		tlogger.Fatal("msg", "Could not load configuration", "err", err)
	}

	tlogger.FatalIf(ctx.Run(ctx))
}

// configure merges the flags into cfg.
func (f *BuildFlags) configure(cfg *config.Configuration) {
	if f.Verbose > cfg.Verbose {
		cfg.Verbose = f.Verbose
	}
	if f.RootDir != "" {
		cfg.RootPath = f.RootDir
	}
	if f.SrcDir != "" {
		cfg.SourcePath = f.SrcDir
	}
	if f.BuildDir != "" {
		cfg.BuildPath = f.BuildDir
	}
	if f.AssetsDir != "" {
		cfg.AssetsPath = f.AssetsDir
		cfg.LoadAssets = true
	}
	cfg.Clean = cfg.Clean || f.Clean
	cfg.Plugins.Minify = cfg.Plugins.Minify || f.Minify
	cfg.Plugins.Fingerprint = cfg.Plugins.Fingerprint || f.Fingerprint
}

// newBuilder wires the bundled plugins the configuration enables.
func newBuilder(cfg *config.Configuration) *builder.Builder {
	tlogger.ApplyVerbosity(cfg.Verbose)

	b := builder.NewBuilder(cfg.Options())
	if cfg.Plugins.Ignore {
		ignore.Register(b.Augments())
	}
	if cfg.Plugins.Flatten.Folder != "" {
		b.Use(flatten.New(flatten.Options{Folder: cfg.Plugins.Flatten.Folder, Drop: cfg.Plugins.Flatten.Drop}))
	}
	if cfg.Plugins.Fingerprint {
		b.Use(fingerprint.New(fingerprint.Options{}))
	}
	if cfg.Plugins.Minify {
		b.Use(minify.New(minify.Options{}))
	}
	return b
}

func (r *CommandBuild) Run(ctx *kong.Context) error {
	cfg := config.Config
	r.configure(cfg)

	_, err := newBuilder(cfg).Build(context.Background())
	return err
}

func (r *CommandProcess) Run(ctx *kong.Context) error {
	cfg := config.Config
	r.configure(cfg)

	b := newBuilder(cfg)
	files, err := b.Process(context.Background())
	if err != nil {
		return err
	}
	return r.print(ctx.Stdout, b, files)
}

func (r *CommandProcess) print(w io.Writer, b *builder.Builder, files file.Map) error {
	switch {
	case r.Dump:
		spew.Fdump(w, files, b.Metadata)
	case r.JSON:
		out, err := helpers.MarshalJson(helpers.Summarize(files))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		for _, s := range helpers.Summarize(files) {
			asset := ""
			if s.Asset {
				asset = " (asset)"
			}
			fmt.Fprintf(w, "%s\t%d%s\n", s.Path, s.Size, asset)
		}
	}
	return nil
}

func (r *CommandServe) Run(ctx *kong.Context) error {
	cfg := config.Config
	r.configure(cfg)

	if r.Port <= 0 {
		r.Port = cfg.ServeConfig.Port
	}

	serv, err := server.NewServer(func() (*builder.Builder, error) {
		return newBuilder(cfg), nil
	}, strconv.Itoa(r.Port), cfg.ServeConfig.Redirect404)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return serv.Start(sigCtx, r.Build)
}
