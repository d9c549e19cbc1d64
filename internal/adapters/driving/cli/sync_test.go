package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
)

// mockSyncer records the requested mode and returns a scripted report.
type mockSyncer struct {
	mode   driving.SyncMode
	report *domain.SyncReport
	err    error
}

func (m *mockSyncer) Sync(_ context.Context, mode driving.SyncMode) (*domain.SyncReport, error) {
	m.mode = mode
	return m.report, m.err
}

func reportWith(outcomes ...domain.Outcome) *domain.SyncReport {
	r := domain.NewSyncReport()
	for _, o := range outcomes {
		r.Record(o)
	}
	return r
}

func withMockSyncer(t *testing.T, m *mockSyncer) {
	t.Helper()
	old := syncService
	syncService = m
	t.Cleanup(func() {
		syncService = old
		syncIncremental = false
		syncClean = false
		syncWorkers = 0
	})
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSyncCmd_Use(t *testing.T) {
	assert.Equal(t, "sync", syncCmd.Use)
}

func TestSyncCmd_HasModeFlags(t *testing.T) {
	assert.NotNil(t, syncCmd.Flags().Lookup("incremental"))
	assert.NotNil(t, syncCmd.Flags().Lookup("clean"))
	assert.NotNil(t, syncCmd.Flags().Lookup("workers"))
}

func TestSyncCmd_DefaultsToFullMode(t *testing.T) {
	m := &mockSyncer{report: reportWith(domain.Outcome{Kind: domain.OutcomeIndexed, FileID: "f1"})}
	withMockSyncer(t, m)

	out, err := executeCommand(t, "sync")
	require.NoError(t, err)

	assert.Equal(t, driving.ModeFull, m.mode)
	assert.Contains(t, out, "Sync Complete - Summary")
	assert.Contains(t, out, "Newly indexed:         1")
}

func TestSyncCmd_IncrementalFlagSelectsIncrementalMode(t *testing.T) {
	m := &mockSyncer{report: reportWith()}
	withMockSyncer(t, m)

	_, err := executeCommand(t, "sync", "--incremental")
	require.NoError(t, err)
	assert.Equal(t, driving.ModeIncremental, m.mode)
}

func TestSyncCmd_CleanFlagSelectsCleanMode(t *testing.T) {
	m := &mockSyncer{report: reportWith()}
	withMockSyncer(t, m)

	_, err := executeCommand(t, "sync", "--clean")
	require.NoError(t, err)
	assert.Equal(t, driving.ModeClean, m.mode)
}

func TestSyncCmd_RejectsConflictingModeFlags(t *testing.T) {
	withMockSyncer(t, &mockSyncer{report: reportWith()})

	_, err := executeCommand(t, "sync", "--incremental", "--clean")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestSyncCmd_PreflightFailureIsAnError(t *testing.T) {
	m := &mockSyncer{err: errors.New("drive folder not accessible")}
	withMockSyncer(t, m)

	_, err := executeCommand(t, "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync failed")
}

func TestSyncCmd_SummaryShowsFailures(t *testing.T) {
	m := &mockSyncer{report: reportWith(
		domain.Outcome{Kind: domain.OutcomeIndexed, FileID: "f1"},
		domain.Outcome{Kind: domain.OutcomeFailed, FileID: "f2", Stage: domain.StageDownload, Err: errors.New("boom")},
	)}
	withMockSyncer(t, m)

	out, err := executeCommand(t, "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "Errors:                1")
	assert.Contains(t, out, "Some files failed to sync")
}
