// Package vault abstracts the host's file storage behind a small interface.
// The record store only ever sees this boundary; swapping the backing
// filesystem (or faking it in tests) never touches store logic.
package vault

import (
	"context"
	"time"
)

// Vault is the persistence collaborator: a fallible, asynchronous text-blob
// store addressed by path-shaped source identities.
type Vault interface {
	// Read returns the full contents of the blob at path.
	Read(ctx context.Context, path string) (string, error)

	// Write replaces the blob at path with content. Whole-document replace,
	// never an incremental patch.
	Write(ctx context.Context, path string, content string) error

	// Exists reports whether a blob is present at path.
	Exists(ctx context.Context, path string) (bool, error)

	// ModTime returns the blob's last modification timestamp.
	ModTime(ctx context.Context, path string) (time.Time, error)

	// CreateFolder creates the folder at path, parents included. Idempotent.
	CreateFolder(ctx context.Context, path string) error
}
