package search

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/vidpress/internal/common"
	"github.com/dmitrijs2005/vidpress/internal/logging"
	"github.com/dmitrijs2005/vidpress/internal/server/models"
	"github.com/sethvargo/go-retry"
)

// Syncer pushes committed documents to the search index from a background
// worker. Work runs detached from the originating request: the publish
// response never waits for, or fails because of, index propagation.
type Syncer struct {
	indexer     Indexer
	index       string
	logger      logging.Logger
	maxRetries  uint64
	baseBackoff time.Duration

	queue chan *models.Document
	wg    sync.WaitGroup
}

func NewSyncer(indexer Indexer, index string, queueSize int, maxRetries uint64, baseBackoff time.Duration, logger logging.Logger) *Syncer {
	s := &Syncer{
		indexer:     indexer,
		index:       index,
		logger:      logger.With("module", "search_syncer"),
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		queue:       make(chan *models.Document, queueSize),
	}

	s.wg.Add(1)
	go s.run()

	return s
}

// Enqueue schedules a document for index propagation. It never blocks: when
// the queue is full the document is dropped with a warning, since publication
// already succeeded on the primary store. Must not be called after Close.
func (s *Syncer) Enqueue(doc *models.Document) bool {
	select {
	case s.queue <- doc:
		return true
	default:
		s.logger.Warn(context.Background(), "sync queue full, dropping document",
			"document_id", doc.ID)
		return false
	}
}

// Close stops accepting work and waits until the queue drains.
func (s *Syncer) Close() {
	close(s.queue)
	s.wg.Wait()
}

func (s *Syncer) run() {
	defer s.wg.Done()

	for doc := range s.queue {
		s.sync(doc)
	}
}

func (s *Syncer) sync(doc *models.Document) {
	// Detached from any request context on purpose.
	ctx := context.Background()

	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewExponential(s.baseBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.indexer.Upsert(ctx, s.index, doc.ID, doc); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})

	if err != nil {
		s.logger.Error(ctx, common.ErrIndexSyncFailed.Error(),
			"document_id", doc.ID, "edit_datetime", doc.EditDateTime, "error", err)
		return
	}

	s.logger.Info(ctx, "document synced to index",
		"document_id", doc.ID, "index", s.index)
}
