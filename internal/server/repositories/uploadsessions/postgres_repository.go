package uploadsessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vidpress/internal/common"
	"github.com/dmitrijs2005/vidpress/internal/dbx"
	"github.com/dmitrijs2005/vidpress/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, session *models.UploadSession) error {

	query :=
		`INSERT INTO upload_sessions (id, bucket, object_key, status, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.Bucket, session.ObjectKey, session.Status, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.UploadSession, error) {

	query :=
		`SELECT id, bucket, object_key, status, document_id, created_at, expires_at
		 FROM upload_sessions
		 WHERE id = $1
		 `

	session := &models.UploadSession{}
	var documentID sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &session.Bucket, &session.ObjectKey, &session.Status,
		&documentID, &session.CreatedAt, &session.ExpiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	session.DocumentID = documentID.Int64

	return session, nil
}

func (r *PostgresRepository) MarkFinalized(ctx context.Context, id string, documentID int64) error {

	// The status predicate is the optimistic check: only a pending session
	// can be finalized, so a concurrent finalize loses with zero rows.
	query :=
		`UPDATE upload_sessions
		 SET status = 'finalized', document_id = $2
		 WHERE id = $1 AND status = 'pending'
		 `

	res, err := r.db.ExecContext(ctx, query, id, documentID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}

	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrSessionAlreadyFinalized
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {

	query :=
		`UPDATE upload_sessions
		 SET status = 'expired'
		 WHERE status = 'pending' AND expires_at <= $1
		 `

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}

	return n, nil
}
