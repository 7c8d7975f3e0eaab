// Package services implements the write-side publication pipeline: upload
// sessions, transactional finalize, access checks and document edits.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vidpress/internal/common"
	"github.com/dmitrijs2005/vidpress/internal/dbx"
	"github.com/dmitrijs2005/vidpress/internal/logging"
	"github.com/dmitrijs2005/vidpress/internal/server/models"
	"github.com/dmitrijs2005/vidpress/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vidpress/internal/server/storage"
	"github.com/google/uuid"
)

// videoCounterName is the sequence that mints published document IDs.
const videoCounterName = "videoId"

// DocumentSink receives committed documents for index propagation.
// *search.Syncer implements it.
type DocumentSink interface {
	Enqueue(doc *models.Document) bool
}

// DocumentMetadata is the client-supplied part of a published document.
type DocumentMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type UploadService struct {
	db         *sql.DB
	repos      repomanager.RepositoryManager
	signer     storage.Signer
	sink       DocumentSink
	logger     logging.Logger
	bucket     string
	sessionTTL time.Duration
}

func NewUploadService(db *sql.DB, repos repomanager.RepositoryManager, signer storage.Signer,
	sink DocumentSink, bucket string, sessionTTL time.Duration, logger logging.Logger) *UploadService {
	return &UploadService{
		db:         db,
		repos:      repos,
		signer:     signer,
		sink:       sink,
		logger:     logger.With("module", "upload_service"),
		bucket:     bucket,
		sessionTTL: sessionTTL,
	}
}

func randomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("videos/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

// CreateSession reserves an object key for a direct client upload and returns
// the pending session together with a time-limited writable URL. The bucket
// argument may be empty, in which case the configured default is used.
func (s *UploadService) CreateSession(ctx context.Context, bucket string) (*models.UploadSession, *storage.SignedUpload, error) {

	if bucket == "" {
		bucket = s.bucket
	}

	now := time.Now().UTC()
	session := &models.UploadSession{
		ID:        uuid.New().String(),
		Bucket:    bucket,
		ObjectKey: randomStorageKey(),
		Status:    models.UploadStatusPending,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.repos.UploadSessions(s.db).Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("error creating upload session: %w", err)
	}

	signed, err := s.signer.SignUpload(ctx, session.Bucket, session.ObjectKey)
	if err != nil {
		return nil, nil, fmt.Errorf("error signing upload url: %w", err)
	}

	s.logger.Info(ctx, "upload session created",
		"upload_id", session.ID, "bucket", session.Bucket, "expires_at", session.ExpiresAt)

	return session, signed, nil
}

// Finalize turns a completed upload into a committed, queryable document.
//
// The document insert and the pending→finalized transition happen in one
// transaction, so readers never see one without the other. When two calls
// race on the same session the conditional status update lets exactly one
// commit; the loser's transaction aborts with ErrSessionAlreadyFinalized and
// its allocated ID is abandoned (gaps are fine, reuse is not). Index
// propagation is enqueued only after the commit and cannot fail the publish.
func (s *UploadService) Finalize(ctx context.Context, uploadID string, meta DocumentMetadata) (*models.Document, error) {

	session, err := s.repos.UploadSessions(s.db).GetByID(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case models.UploadStatusFinalized:
		return nil, common.ErrSessionAlreadyFinalized
	case models.UploadStatusExpired:
		return nil, common.ErrSessionExpired
	}

	if session.Expired(time.Now().UTC()) {
		return nil, common.ErrSessionExpired
	}

	var doc *models.Document

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		id, err := s.repos.Counters(tx).Allocate(ctx, videoCounterName)
		if err != nil {
			return err
		}

		doc = &models.Document{
			ID:           id,
			Title:        meta.Title,
			Description:  meta.Description,
			Tags:         meta.Tags,
			Bucket:       session.Bucket,
			ObjectKey:    session.ObjectKey,
			EditDateTime: time.Now().UTC(),
		}

		if err := s.repos.Documents(tx).Create(ctx, doc); err != nil {
			return err
		}

		return s.repos.UploadSessions(tx).MarkFinalized(ctx, session.ID, doc.ID)
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "upload session finalized",
		"upload_id", session.ID, "document_id", doc.ID)

	s.sink.Enqueue(doc)

	return doc, nil
}

// SweepExpired transitions overdue pending sessions to expired. Returns the
// number of sessions swept.
func (s *UploadService) SweepExpired(ctx context.Context) (int64, error) {

	n, err := s.repos.UploadSessions(s.db).MarkExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("error sweeping sessions: %w", err)
	}

	if n > 0 {
		s.logger.Info(ctx, "expired upload sessions swept", "count", n)
	}

	return n, nil
}
