package domain

import "time"

// IndexableDocument is the unit written to the search index. It is built
// fresh on every (re)index and never mutated afterwards.
type IndexableDocument struct {
	// ID matches the RemoteFile identifier the document was built from.
	ID string

	// Name is the display name of the source file.
	Name string

	// Path is the full hierarchical path of the source file.
	Path string

	// URL is the direct-access link to the source file.
	URL string

	// MIMEType is the content type of the source file.
	MIMEType string

	// Body is the extracted searchable text.
	Body string

	// Size is the source file length in bytes.
	Size int64

	// ModifiedAt mirrors the source RemoteFile's last-modified timestamp at
	// the time the document was built. The index must never report fresher
	// metadata than the file it was built from.
	ModifiedAt time.Time
}

// NewIndexableDocument builds a document from a remote file snapshot and its
// extracted text. Metadata, including the last-modified timestamp, is copied
// verbatim from the snapshot.
func NewIndexableDocument(file RemoteFile, body string) IndexableDocument {
	return IndexableDocument{
		ID:         file.ID,
		Name:       file.Name,
		Path:       file.Path,
		URL:        file.URL,
		MIMEType:   file.MIMEType,
		Body:       body,
		Size:       file.Size,
		ModifiedAt: file.ModifiedAt,
	}
}

// IndexedDocumentRef is the metadata the index recorded at the last
// successful write for one identifier. Used only for staleness comparison;
// the document body is never loaded for it.
type IndexedDocumentRef struct {
	// ID is the document identifier.
	ID string

	// ModifiedAt is the source last-modified timestamp recorded at the last
	// successful index write.
	ModifiedAt time.Time
}

// SearchOptions controls search behaviour.
type SearchOptions struct {
	// Limit is the maximum number of results to return.
	Limit int
}

// SearchResult is one ranked hit returned by the search index.
type SearchResult struct {
	ID         string    `json:"file_id"`
	Name       string    `json:"file_name"`
	Path       string    `json:"file_path"`
	URL        string    `json:"url"`
	MIMEType   string    `json:"mime_type"`
	ModifiedAt time.Time `json:"updated_time"`
	Score      float64   `json:"score"`
	Highlights []string  `json:"highlights,omitempty"`
}
