// Package search replicates committed documents into the secondary search
// index. The index is a derived, eventually-consistent projection: the
// primary store remains the source of truth and a sync failure never rolls
// back or fails a publish.
package search

import (
	"context"

	"github.com/dmitrijs2005/vidpress/internal/server/models"
)

// Indexer is the search index collaborator. Upsert must be idempotent for
// the same id/editDateTime pair; the index side resolves concurrent upserts
// last-write-wins by comparing editDateTime.
type Indexer interface {
	Upsert(ctx context.Context, index string, id int64, doc *models.Document) error
}
