package file

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/toastate/ironsmith/internal/tlogger"
)

// ErrRejected matches every error returned when an augment vetoes a File.
var ErrRejected = errors.New("file rejected")

// AugmentFunc inspects or mutates a freshly built File. Returning an error
// rejects the File: it is not created.
type AugmentFunc func(ctx context.Context, f *File) error

// RejectionError reports which augment vetoed which path.
type RejectionError struct {
	Augment string
	Path    string
	Reason  error
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("file %s rejected by augment %s: %v", e.Path, e.Augment, e.Reason)
}

func (e *RejectionError) Unwrap() error {
	return e.Reason
}

func (e *RejectionError) Is(target error) bool {
	return target == ErrRejected
}

type augment struct {
	name string
	fn   AugmentFunc
}

// Registry is an ordered list of augments. Every File built through it sees
// the augments registered at the time of its construction, in registration order.
type Registry struct {
	mu       sync.RWMutex
	augments []augment
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends fn. It does not apply to Files built before the call.
func (r *Registry) Add(name string, fn AugmentFunc) {
	if fn == nil {
		return
	}
	tlogger.Debug("msg", "Added augment", "augment", name)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.augments = append(r.augments, augment{name: name, fn: fn})
}

// Names lists registered augments in execution order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.augments))
	for i, a := range r.augments {
		out[i] = a.name
	}
	return out
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.augments)
}

// New builds a File and runs every registered augment over it. A nil Registry
// behaves like an empty one. The first augment error stops the chain and is
// returned as a *RejectionError.
func (r *Registry) New(ctx context.Context, contents []byte, path string, opts Options) (*File, error) {
	f := New(contents, path, opts)
	if r == nil {
		return f, nil
	}

	r.mu.RLock()
	chain := make([]augment, len(r.augments))
	copy(chain, r.augments)
	r.mu.RUnlock()

	if len(chain) == 0 {
		return f, nil
	}

	tlogger.Debug("msg", "Running augments for file", "path", f.Path, "count", len(chain))
	for _, a := range chain {
		tlogger.Debug("msg", "Running augment", "augment", a.name, "path", f.Path)
		if err := a.fn(ctx, f); err != nil {
			return nil, &RejectionError{Augment: a.name, Path: path, Reason: err}
		}
	}
	return f, nil
}
