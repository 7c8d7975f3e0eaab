package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/vidpress/internal/common"
	"github.com/dmitrijs2005/vidpress/internal/dbx"
	"github.com/dmitrijs2005/vidpress/internal/logging"
	"github.com/dmitrijs2005/vidpress/internal/server/models"
	"github.com/dmitrijs2005/vidpress/internal/server/repositories/repomanager"
)

// DocumentService serves reads and transactional edits of published
// documents. Every successful write bumps edit_datetime and is replicated to
// the search index through the sink.
type DocumentService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	sink   DocumentSink
	logger logging.Logger
}

func NewDocumentService(db *sql.DB, repos repomanager.RepositoryManager, sink DocumentSink, logger logging.Logger) *DocumentService {
	return &DocumentService{
		db:     db,
		repos:  repos,
		sink:   sink,
		logger: logger.With("module", "document_service"),
	}
}

func (s *DocumentService) Get(ctx context.Context, id int64) (*models.Document, error) {

	doc, err := s.repos.Documents(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if doc.Deleted {
		return nil, common.ErrNotFound
	}

	return doc, nil
}

func (s *DocumentService) Update(ctx context.Context, id int64, meta DocumentMetadata) (*models.Document, error) {

	var doc *models.Document

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		repo := s.repos.Documents(tx)

		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Deleted {
			return common.ErrNotFound
		}

		current.Title = meta.Title
		current.Description = meta.Description
		current.Tags = meta.Tags
		current.EditDateTime = time.Now().UTC()

		if err := repo.Update(ctx, current); err != nil {
			return err
		}

		doc = current
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "document updated", "document_id", doc.ID)

	s.sink.Enqueue(doc)

	return doc, nil
}

// Delete writes a tombstone under a transaction and replicates it to the
// index; there is no silent removal.
func (s *DocumentService) Delete(ctx context.Context, id int64) error {

	var doc *models.Document

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		repo := s.repos.Documents(tx)

		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Deleted {
			return common.ErrNotFound
		}

		now := time.Now().UTC()
		if err := repo.MarkDeleted(ctx, id, now); err != nil {
			return err
		}

		current.Deleted = true
		current.EditDateTime = now
		doc = current
		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info(ctx, "document deleted", "document_id", id)

	s.sink.Enqueue(doc)

	return nil
}
