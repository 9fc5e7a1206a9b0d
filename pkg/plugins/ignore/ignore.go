// Package ignore provides an augment that keeps hidden files, underscore
// partials and anything under an "includes" folder out of the build.
package ignore

import (
	"context"
	"errors"
	"strings"

	"github.com/toastate/ironsmith/pkg/file"
)

// ErrIgnored is the rejection reason for skipped paths.
var ErrIgnored = errors.New("ignored path")

// Name is the augment name used by Register.
const Name = "ignore"

// ShouldHandle reports whether path (slash separated) belongs in the build.
func ShouldHandle(path string) bool {
	for _, v := range strings.Split(path, "/") {
		if v == "includes" {
			return false
		}
		if len(v) > 0 && (v[0] == '.' || v[0] == '_') {
			return false
		}
	}
	return true
}

// Augment rejects every file ShouldHandle refuses.
func Augment(_ context.Context, f *file.File) error {
	if !ShouldHandle(f.Path) {
		return ErrIgnored
	}
	return nil
}

// Register adds Augment to reg.
func Register(reg *file.Registry) {
	reg.Add(Name, Augment)
}
