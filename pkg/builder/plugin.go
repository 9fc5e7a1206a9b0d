package builder

import (
	"errors"
	"fmt"

	"github.com/toastate/ironsmith/pkg/file"
)

var (
	// ErrPluginPanic wraps the value recovered from a panicking plugin.
	ErrPluginPanic = errors.New("plugin panicked")
	// ErrNextCalledTwice is logged when a plugin continues more than once.
	ErrNextCalledTwice = errors.New("next called more than once")
)

// Next ends a plugin stage. It must be called exactly once; a non-nil error
// aborts the pipeline.
type Next func(err error)

// Plugin is one pipeline stage. Run may return before calling next and finish
// its work asynchronously; the pipeline waits for next either way.
type Plugin interface {
	Name() string
	Run(files file.Map, b *Builder, next Next)
}

// PluginFunc is the function form of a stage.
type PluginFunc func(files file.Map, b *Builder, next Next)

type funcPlugin struct {
	name string
	fn   PluginFunc
}

func (p funcPlugin) Name() string { return p.name }

func (p funcPlugin) Run(files file.Map, b *Builder, next Next) { p.fn(files, b, next) }

// Func names a PluginFunc.
func Func(name string, fn PluginFunc) Plugin {
	return funcPlugin{name: name, fn: fn}
}

// Sync adapts a blocking stage: next is called with whatever fn returns.
func Sync(name string, fn func(files file.Map, b *Builder) error) Plugin {
	return funcPlugin{name: name, fn: func(files file.Map, b *Builder, next Next) {
		next(fn(files, b))
	}}
}

// PluginError reports the stage that aborted the pipeline.
type PluginError struct {
	Index int
	Name  string
	Err   error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin #%d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}
