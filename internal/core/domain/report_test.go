package domain

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncReport_CountersFollowOutcomes(t *testing.T) {
	r := NewSyncReport()

	r.Record(Outcome{Kind: OutcomeIndexed, FileID: "a"})
	r.Record(Outcome{Kind: OutcomeUpdated, FileID: "b"})
	r.Record(Outcome{Kind: OutcomeSkippedUnsupported, FileID: "c"})
	r.Record(Outcome{Kind: OutcomeSkippedUpToDate, FileID: "d"})
	r.Record(Outcome{Kind: OutcomeFailed, FileID: "e", Stage: StageDownload, Err: errors.New("x")})
	r.RecordDeletion()
	r.RecordDeletionFailure()

	s := r.Summary()
	assert.Equal(t, 5, s.TotalSeen)
	assert.Equal(t, 1, s.Indexed)
	assert.Equal(t, 1, s.Updated)
	assert.Equal(t, 1, s.SkippedUnsupported)
	assert.Equal(t, 1, s.SkippedUpToDate)
	assert.Equal(t, 2, s.Skipped())
	assert.Equal(t, 1, s.Deleted)
	assert.Equal(t, 1, s.DeletionFailed)
	assert.Equal(t, 1, s.Failed)
}

func TestSyncReport_DeletionsDoNotCountAsSeen(t *testing.T) {
	r := NewSyncReport()
	r.RecordDeletion()
	r.RecordDeletion()

	assert.Equal(t, 0, r.Summary().TotalSeen)
	assert.Equal(t, 2, r.Summary().Deleted)
}

func TestSyncReport_ConcurrentRecording(t *testing.T) {
	r := NewSyncReport()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record(Outcome{Kind: OutcomeIndexed})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, r.Summary().Indexed)
	assert.Len(t, r.Outcomes(), 50)
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "indexed", OutcomeIndexed.String())
	assert.Equal(t, "updated", OutcomeUpdated.String())
	assert.Equal(t, "skipped_unsupported", OutcomeSkippedUnsupported.String())
	assert.Equal(t, "skipped_up_to_date", OutcomeSkippedUpToDate.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
}
