package server

import (
	"context"

	"github.com/toastate/ironsmith/internal/server"
	"github.com/toastate/ironsmith/pkg/builder"
)

type Server interface {
	Start(ctx context.Context, withBuilder bool) error
}

// NewServer serves the build directory of the Builders produced by newBuilder,
// rebuilding with a fresh one whenever the input trees change.
func NewServer(newBuilder func() (*builder.Builder, error), port string, override404 string) (Server, error) {
	s, err := server.NewServer(newBuilder, port, override404)
	if err != nil {
		return nil, err
	}
	return s, nil
}
