package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/vidpress/internal/logging"
	"github.com/dmitrijs2005/vidpress/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndexer struct {
	mu       sync.Mutex
	failures int
	calls    []int64
}

func (f *fakeIndexer) Upsert(ctx context.Context, index string, id int64, doc *models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	if f.failures > 0 {
		f.failures--
		return errors.New("index unavailable")
	}
	return nil
}

func (f *fakeIndexer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSyncer_DeliversDocument(t *testing.T) {
	idx := &fakeIndexer{}
	s := NewSyncer(idx, "videos", 10, 3, time.Millisecond, discardLogger())

	ok := s.Enqueue(&models.Document{ID: 7, EditDateTime: time.Now()})
	require.True(t, ok)

	s.Close()

	assert.Equal(t, 1, idx.callCount())
	assert.Equal(t, int64(7), idx.calls[0])
}

func TestSyncer_RetriesUntilSuccess(t *testing.T) {
	idx := &fakeIndexer{failures: 2}
	s := NewSyncer(idx, "videos", 10, 5, time.Millisecond, discardLogger())

	require.True(t, s.Enqueue(&models.Document{ID: 1}))
	s.Close()

	assert.Equal(t, 3, idx.callCount(), "two failures then one success")
}

func TestSyncer_GivesUpAfterBoundedAttempts(t *testing.T) {
	idx := &fakeIndexer{failures: 100}
	s := NewSyncer(idx, "videos", 10, 2, time.Millisecond, discardLogger())

	require.True(t, s.Enqueue(&models.Document{ID: 1}))
	s.Close()

	// initial attempt plus two retries, then dropped
	assert.Equal(t, 3, idx.callCount())
}

func TestSyncer_EnqueueNeverBlocksWhenFull(t *testing.T) {
	idx := &fakeIndexer{failures: 1000}
	s := NewSyncer(idx, "videos", 1, 5, 50*time.Millisecond, discardLogger())

	// worker is busy retrying the first document; fill the queue and overflow
	s.Enqueue(&models.Document{ID: 1})
	s.Enqueue(&models.Document{ID: 2})

	done := make(chan bool, 1)
	go func() {
		done <- s.Enqueue(&models.Document{ID: 3})
	}()

	select {
	case ok := <-done:
		assert.False(t, ok, "overflowing enqueue must drop, not block")
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}

	s.Close()
}
