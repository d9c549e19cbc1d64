package domain

import "time"

// RemoteFile is an immutable snapshot of one remote object at enumeration
// time. The File Source produces these; the reconciliation engine never
// mutates them.
type RemoteFile struct {
	// ID is the stable identifier, unique per remote object and consistent
	// between the remote store and the search index.
	ID string

	// Name is the display name (e.g. "report.pdf").
	Name string

	// Path is the full hierarchical path within the remote store.
	Path string

	// URL is the direct-access link to the file.
	URL string

	// MIMEType is the content type reported by the remote store.
	MIMEType string

	// Size is the length in bytes.
	Size int64

	// ModifiedAt is the remote last-modified timestamp.
	ModifiedAt time.Time

	// CreatedAt is the remote creation timestamp.
	CreatedAt time.Time
}
