package driven

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// FileSource enumerates and downloads files from a remote storage provider.
// Authentication, pagination and recursive folder traversal are the
// implementation's concern; the core sees a flat, ordered sequence with
// paths already resolved.
type FileSource interface {
	// Validate checks the source is reachable and the credentials work.
	// Called once at pre-flight; an error here aborts the whole run.
	Validate(ctx context.Context) error

	// ListFiles enumerates every file under the configured root, recursing
	// through subfolders. The returned order is the processing order.
	ListFiles(ctx context.Context) ([]domain.RemoteFile, error)

	// DownloadContent fetches the raw bytes for one file.
	DownloadContent(ctx context.Context, id string) ([]byte, error)

	// Close releases resources.
	Close() error
}
