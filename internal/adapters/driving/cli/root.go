// Package cli implements the docsync command-line interface. Commands talk
// to the core through the driving ports; the concrete adapters are wired
// lazily on first use so tests can inject fakes through the package-level
// service variables.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsync/internal/adapters/driven/index/sqlite"
	"github.com/custodia-labs/docsync/internal/config"
	"github.com/custodia-labs/docsync/internal/connectors/google"
	"github.com/custodia-labs/docsync/internal/connectors/google/drive"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/core/services"
	"github.com/custodia-labs/docsync/internal/extractors"
	"github.com/custodia-labs/docsync/internal/logger"
)

// version is set from main at build time.
var version = "dev"

// Services used by the commands. Left nil until first use; tests replace
// them with fakes.
var (
	syncService   driving.Syncer
	searchService driving.Searcher
	searchIndex   driven.SearchIndex
)

var (
	cfg     config.Config
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docsync",
	Short: "Synchronise a Google Drive folder into a local search index",
	Long: `docsync keeps a local full-text search index in step with a Google
Drive folder. It downloads supported files, extracts their text and writes
them to a SQLite FTS index that can be queried from the command line or
over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		loaded, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default ~/.docsync/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion records the build version reported by the version command.
func SetVersion(v string) {
	version = v
}

// openIndex returns the shared search index, opening the SQLite adapter on
// first use.
func openIndex() (driven.SearchIndex, error) {
	if searchIndex != nil {
		return searchIndex, nil
	}
	idx, err := sqlite.New(cfg.Index.Path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	searchIndex = idx
	return searchIndex, nil
}

// buildSyncer wires the full sync engine: Drive source, search index and
// the extractor registry.
func buildSyncer(ctx context.Context) (driving.Syncer, error) {
	if syncService != nil {
		return syncService, nil
	}

	idx, err := openIndex()
	if err != nil {
		return nil, err
	}

	source, err := drive.NewSource(ctx, drive.Config{
		FolderID: cfg.Drive.FolderID,
		Credentials: google.Credentials{
			ClientID:     cfg.Drive.ClientID,
			ClientSecret: cfg.Drive.ClientSecret,
			TokenFile:    cfg.Drive.TokenFile,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to drive: %w", err)
	}

	registry := extractors.Default(cfg.Sync.EnableOCR)

	syncService = services.NewReconciler(source, idx, registry, services.ReconcilerOptions{
		Workers: cfg.Sync.Workers,
	})
	return syncService, nil
}

// buildSearcher wires the search service over the shared index.
func buildSearcher() (driving.Searcher, error) {
	if searchService != nil {
		return searchService, nil
	}
	idx, err := openIndex()
	if err != nil {
		return nil, err
	}
	searchService = services.NewSearchService(idx)
	return searchService, nil
}
