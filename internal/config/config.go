// Package config loads the docsync configuration from a TOML file.
// The resulting Config struct is passed explicitly into the services that
// need it; nothing reads configuration through ambient global state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the process-wide configuration, injected into constructors.
type Config struct {
	Drive DriveConfig `toml:"drive"`
	Index IndexConfig `toml:"index"`
	API   APIConfig   `toml:"api"`
	Sync  SyncConfig  `toml:"sync"`
}

// DriveConfig configures the Google Drive file source.
type DriveConfig struct {
	// FolderID is the Drive folder to enumerate recursively.
	FolderID string `toml:"folder_id"`

	// ClientID and ClientSecret are the OAuth client credentials.
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`

	// TokenFile is where the OAuth token is persisted between runs.
	TokenFile string `toml:"token_file"`
}

// IndexConfig configures the search index backend.
type IndexConfig struct {
	// Path is the SQLite database file. Empty means ~/.docsync/index.db.
	Path string `toml:"path"`
}

// APIConfig configures the HTTP search API.
type APIConfig struct {
	// ListenAddr is the address the serve command binds to.
	ListenAddr string `toml:"listen_addr"`
}

// SyncConfig configures engine behaviour.
type SyncConfig struct {
	// Workers bounds the per-file pipeline concurrency. 1 processes files
	// sequentially.
	Workers int `toml:"workers"`

	// EnableOCR registers the image OCR extractor when the tesseract
	// binary is available on the host.
	EnableOCR bool `toml:"enable_ocr"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Drive: DriveConfig{
			TokenFile: defaultPath("token.json"),
		},
		Index: IndexConfig{
			Path: defaultPath("index.db"),
		},
		API: APIConfig{
			ListenAddr: "127.0.0.1:8080",
		},
		Sync: SyncConfig{
			Workers: 1,
		},
	}
}

// DefaultFile returns the default config file location, ~/.docsync/config.toml.
func DefaultFile() string {
	return defaultPath("config.toml")
}

// Load reads a TOML config file, applying defaults to absent keys.
// A missing file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultFile()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Sync.Workers < 1 {
		cfg.Sync.Workers = 1
	}

	return cfg, nil
}

func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".docsync", name)
}
