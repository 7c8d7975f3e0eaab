// Package repomanager builds repositories over a shared DBTX so a service
// can use the same repository code inside and outside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/vidpress/internal/dbx"
	"github.com/dmitrijs2005/vidpress/internal/server/repositories/counters"
	"github.com/dmitrijs2005/vidpress/internal/server/repositories/documents"
	"github.com/dmitrijs2005/vidpress/internal/server/repositories/policies"
	"github.com/dmitrijs2005/vidpress/internal/server/repositories/uploadsessions"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Counters(db dbx.DBTX) counters.Repository
	Documents(db dbx.DBTX) documents.Repository
	UploadSessions(db dbx.DBTX) uploadsessions.Repository
	Policies(db dbx.DBTX) policies.Repository
}
