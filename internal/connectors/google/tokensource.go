package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
)

// Credentials identifies the OAuth client and the file holding a previously
// obtained token. Obtaining the initial token is out of scope; any tool that
// writes a standard oauth2.Token JSON file will do.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TokenFile    string
}

// persistingTokenSource wraps an oauth2.TokenSource and writes refreshed
// tokens back to the token file, so the next process start does not need a
// fresh refresh round-trip.
type persistingTokenSource struct {
	mu   sync.Mutex
	base oauth2.TokenSource
	path string
	last *oauth2.Token
}

// NewTokenSource builds a self-refreshing oauth2.TokenSource from a token
// file. The returned source is safe for concurrent use and persists every
// refreshed token back to disk.
func NewTokenSource(ctx context.Context, creds Credentials) (oauth2.TokenSource, error) {
	tok, err := readTokenFile(creds.TokenFile)
	if err != nil {
		return nil, err
	}

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     googleoauth.Endpoint,
		Scopes:       []string{drive.DriveReadonlyScope},
	}

	return &persistingTokenSource{
		base: conf.TokenSource(ctx, tok),
		path: creds.TokenFile,
		last: tok,
	}, nil
}

// Token implements oauth2.TokenSource.
func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	if s.last == nil || tok.AccessToken != s.last.AccessToken {
		s.last = tok
		if err := writeTokenFile(s.path, tok); err != nil {
			// The token itself is still usable; persistence is best effort.
			return tok, nil
		}
	}
	return tok, nil
}

func readTokenFile(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", path, err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, fmt.Errorf("token file %s holds no usable token", path)
	}
	return &tok, nil
}

func writeTokenFile(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}
