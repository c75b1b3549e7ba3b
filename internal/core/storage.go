package core

import (
	"context"
	"io"
)

// FileStorage persists uploaded files and returns a reference usable in pages.
type FileStorage interface {
	Store(ctx context.Context, r io.Reader, suggestedName string) (string, error)
	Remove(ctx context.Context, ref string) error
}
