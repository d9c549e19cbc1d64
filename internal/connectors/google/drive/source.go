// Package drive implements the Google Drive file source: recursive folder
// enumeration with path accumulation, rate-limited API access and content
// download with Google Workspace export.
package drive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/docsync/internal/connectors/google"
	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Google Workspace MIME types.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
)

// Export formats for Google Workspace files.
const (
	ExportMimeText = "text/plain"
	ExportMimeCSV  = "text/csv"
)

// MaxDownloadSize caps a single file download (20MB). Larger files fail the
// download stage rather than exhausting memory.
const MaxDownloadSize = 20 * 1024 * 1024

const listPageSize = 100

const listFields = "nextPageToken, files(id, name, mimeType, size, webViewLink, modifiedTime, createdTime)"

// Config identifies the corpus root and the OAuth client.
type Config struct {
	// FolderID is the Drive folder to sync. Empty means the Drive root.
	FolderID string
	// Credentials for the Drive API client.
	Credentials google.Credentials
}

// Ensure Source implements the interface.
var _ driven.FileSource = (*Source)(nil)

// Source is a read-only Google Drive corpus rooted at one folder.
type Source struct {
	svc      *drivev3.Service
	folderID string
	limiter  *google.RateLimiter
}

// NewSource authenticates against the Drive API and returns a file source.
func NewSource(ctx context.Context, cfg Config) (*Source, error) {
	ts, err := google.NewTokenSource(ctx, cfg.Credentials)
	if err != nil {
		return nil, fmt.Errorf("drive auth: %w", err)
	}

	svc, err := drivev3.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	folderID := cfg.FolderID
	if folderID == "" {
		folderID = "root"
	}

	return &Source{
		svc:      svc,
		folderID: folderID,
		limiter:  google.NewRateLimiter(google.DefaultDriveRateLimit),
	}, nil
}

// Validate checks the configured folder is reachable with the current
// credentials.
func (s *Source) Validate(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	f, err := s.svc.Files.Get(s.folderID).Fields("id, mimeType").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("access folder %s: %w", s.folderID, err)
	}
	if s.folderID != "root" && f.MimeType != MimeTypeFolder {
		return fmt.Errorf("%s is not a folder (MIME: %s)", s.folderID, f.MimeType)
	}
	return nil
}

// ListFiles walks the folder tree breadth-first and returns every
// non-trashed, non-folder file with its path relative to the root folder.
// Google Workspace files are reported with the MIME type their content will
// be exported as, so downstream dispatch sees what it will actually receive.
func (s *Source) ListFiles(ctx context.Context) ([]domain.RemoteFile, error) {
	type pendingFolder struct {
		id   string
		path string
	}

	var files []domain.RemoteFile
	queue := []pendingFolder{{id: s.folderID}}

	for len(queue) > 0 {
		folder := queue[0]
		queue = queue[1:]

		query := fmt.Sprintf("'%s' in parents and trashed = false", folder.id)
		pageToken := ""

		for {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}

			call := s.svc.Files.List().
				Q(query).
				PageSize(listPageSize).
				Fields(listFields).
				Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}

			page, err := call.Do()
			if err != nil {
				return nil, fmt.Errorf("list folder %s: %w", folder.id, err)
			}

			for _, item := range page.Files {
				itemPath := item.Name
				if folder.path != "" {
					itemPath = folder.path + "/" + item.Name
				}

				if item.MimeType == MimeTypeFolder {
					queue = append(queue, pendingFolder{id: item.Id, path: itemPath})
					logger.Debug("Found subfolder: %s", itemPath)
					continue
				}

				rf, err := itemToRemoteFile(item, itemPath)
				if err != nil {
					return nil, fmt.Errorf("file %s: %w", itemPath, err)
				}
				files = append(files, rf)
				logger.Debug("Found file: %s", itemPath)
			}

			pageToken = page.NextPageToken
			if pageToken == "" {
				break
			}
		}
	}

	return files, nil
}

// DownloadContent fetches the raw bytes of one file. Google Workspace files
// are exported (Sheets as CSV, Docs and Slides as plain text); everything
// else downloads as stored.
func (s *Source) DownloadContent(ctx context.Context, fileID string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	meta, err := s.svc.Files.Get(fileID).Fields("id, mimeType, size").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get metadata for %s: %w", fileID, err)
	}
	if meta.Size > MaxDownloadSize {
		return nil, fmt.Errorf("file %s exceeds download limit (%d bytes)", fileID, meta.Size)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if exportMime, ok := exportMIME(meta.MimeType); ok {
		logger.Debug("Exporting workspace file %s as %s", fileID, exportMime)
		r, err := s.svc.Files.Export(fileID, exportMime).Context(ctx).Download()
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", fileID, err)
		}
		defer r.Body.Close()
		return readCapped(r.Body)
	}

	r, err := s.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", fileID, err)
	}
	defer r.Body.Close()
	return readCapped(r.Body)
}

// Close releases client resources. The Drive service holds no persistent
// connections beyond the standard HTTP client, so this is a no-op.
func (s *Source) Close() error { return nil }

// exportMIME maps a Google Workspace MIME type to its export format.
func exportMIME(mimeType string) (string, bool) {
	switch mimeType {
	case MimeTypeGoogleDoc, MimeTypeGoogleSlides:
		return ExportMimeText, true
	case MimeTypeGoogleSheet:
		return ExportMimeCSV, true
	}
	return "", false
}

func readCapped(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDownloadSize))
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return data, nil
}

// itemToRemoteFile converts a Drive API item into the domain representation.
// Workspace files carry the MIME type of their export format.
func itemToRemoteFile(item *drivev3.File, path string) (domain.RemoteFile, error) {
	modified, err := parseDriveTime(item.ModifiedTime)
	if err != nil {
		return domain.RemoteFile{}, fmt.Errorf("parse modifiedTime: %w", err)
	}
	created, err := parseDriveTime(item.CreatedTime)
	if err != nil {
		return domain.RemoteFile{}, fmt.Errorf("parse createdTime: %w", err)
	}

	mimeType := item.MimeType
	if exported, ok := exportMIME(mimeType); ok {
		mimeType = exported
	}

	return domain.RemoteFile{
		ID:         item.Id,
		Name:       item.Name,
		Path:       path,
		URL:        item.WebViewLink,
		MIMEType:   mimeType,
		Size:       item.Size,
		ModifiedAt: modified,
		CreatedAt:  created,
	}, nil
}

// parseDriveTime parses the RFC 3339 timestamps the Drive API returns.
// Missing timestamps map to the zero time rather than an error.
func parseDriveTime(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}
