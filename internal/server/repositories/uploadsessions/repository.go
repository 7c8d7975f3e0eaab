// Package uploadsessions persists upload-session reservations and their
// pending → finalized | expired transitions.
package uploadsessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/vidpress/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, session *models.UploadSession) error
	GetByID(ctx context.Context, id string) (*models.UploadSession, error)

	// MarkFinalized transitions the session to finalized and binds it to the
	// published document. The update is conditional on the pending status:
	// when two transactions race, exactly one wins and the loser gets
	// common.ErrSessionAlreadyFinalized.
	MarkFinalized(ctx context.Context, id string, documentID int64) error

	// MarkExpired sweeps pending sessions whose deadline passed before now.
	// Returns the number of sessions transitioned.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}
