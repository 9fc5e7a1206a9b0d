package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toastate/ironsmith/pkg/builder"
)

// DefaultFile is looked up when no configuration path is given.
const DefaultFile = "ironsmith.json"

var Config = DefaultConfiguration()

func DefaultConfiguration() *Configuration {
	return &Configuration{
		RootPath:   ".",
		SourcePath: "src",
		BuildPath:  "build",
		AssetsPath: "assets",
		LoadSource: true,
		ServeConfig: ServeConfiguration{
			Redirect404: "",
			Port:        8100,
		},
		Plugins: PluginsConfiguration{
			Ignore: true,
		},
	}
}

type Configuration struct {
	RootPath   string         `json:"root_path,omitempty" yaml:"root_path,omitempty"`
	SourcePath string         `json:"source_path,omitempty" yaml:"source_path,omitempty"`
	BuildPath  string         `json:"build_path,omitempty" yaml:"build_path,omitempty"`
	AssetsPath string         `json:"assets_path,omitempty" yaml:"assets_path,omitempty"`
	LoadSource bool           `json:"load_source" yaml:"load_source"`
	LoadAssets bool           `json:"load_assets" yaml:"load_assets"`
	Clean      bool           `json:"clean" yaml:"clean"`
	Metadata   map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Verbose    int            `json:"verbose,omitempty" yaml:"verbose,omitempty"`

	ServeConfig ServeConfiguration   `json:"serve_config,omitempty" yaml:"serve_config,omitempty"`
	Plugins     PluginsConfiguration `json:"plugins,omitempty" yaml:"plugins,omitempty"`
}

type ServeConfiguration struct {
	Redirect404 string `json:"redirect_404" yaml:"redirect_404"`
	Port        int    `json:"port" yaml:"port"`
}

// PluginsConfiguration toggles the bundled plugins wired by the CLI.
type PluginsConfiguration struct {
	Ignore      bool `json:"ignore" yaml:"ignore"`
	Minify      bool `json:"minify" yaml:"minify"`
	Fingerprint bool `json:"fingerprint" yaml:"fingerprint"`

	// Flatten moves Folder's contents to the output root when Folder is set.
	Flatten FlattenConfiguration `json:"flatten,omitempty" yaml:"flatten,omitempty"`
}

type FlattenConfiguration struct {
	Folder string   `json:"folder,omitempty" yaml:"folder,omitempty"`
	Drop   []string `json:"drop,omitempty" yaml:"drop,omitempty"`
}

// Options maps the configuration onto builder options.
func (c *Configuration) Options() builder.Options {
	return builder.Options{
		RootPath:   c.RootPath,
		SourcePath: c.SourcePath,
		BuildPath:  c.BuildPath,
		AssetsPath: c.AssetsPath,
		SkipSource: !c.LoadSource,
		LoadAssets: c.LoadAssets,
		Clean:      c.Clean,
		Metadata:   c.Metadata,
		Verbose:    c.Verbose,
	}
}

// Load reads configpath over the defaults. A missing default file is not an
// error; a missing explicit file is.
func Load(configpath string) (*Configuration, error) {
	cfg := DefaultConfiguration()

	explicit := configpath != ""
	if !explicit {
		configpath = DefaultFile
	}

	data, err := os.ReadFile(configpath)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("could not access configuration file %s: %w", configpath, err)
	}

	switch strings.ToLower(filepath.Ext(configpath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("could not decode configuration file %s: %w", configpath, err)
	}

	return cfg, nil
}

// Init loads configpath into the package-level Config.
func Init(configpath string) error {
	cfg, err := Load(configpath)
	if err != nil {
		return err
	}
	Config = cfg
	return nil
}
