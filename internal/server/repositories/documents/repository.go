// Package documents persists published content documents. All writes are
// expected to run under a transaction owned by the calling service.
package documents

import (
	"context"
	"time"

	"github.com/dmitrijs2005/vidpress/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, doc *models.Document) error
	Update(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id int64) (*models.Document, error)

	// MarkDeleted writes a tombstone: the row stays so the deletion can be
	// replicated to the search index with a fresh edit timestamp.
	MarkDeleted(ctx context.Context, id int64, editDateTime time.Time) error
}
