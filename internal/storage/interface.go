package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/smoodsie/beatsync-codex/config"
)

// Storage defines where extracted playlists are written. Names are slash
// separated and relative to the backend root.
type Storage interface {
	Writer(ctx context.Context, name string) (io.WriteCloser, error)

	Reader(ctx context.Context, name string) (io.ReadCloser, error)

	Exists(ctx context.Context, name string) bool

	// List returns the names of stored files starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Location describes where name lives, for logs and API responses.
	Location(name string) string
}

// New builds the backend selected by cfg.Type.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg.OutputDir)
	case "gcs":
		return NewGCSStorage(ctx, cfg.Bucket, cfg.ObjectPrefix, cfg.CredentialsFile)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
