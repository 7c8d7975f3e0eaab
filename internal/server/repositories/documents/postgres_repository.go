package documents

import (
	"context"
	"database/sql"
	"encoding/json"
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

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("tags encode error: %w", err)
	}
	return string(b), nil
}

func (r *PostgresRepository) Create(ctx context.Context, doc *models.Document) error {

	tags, err := encodeTags(doc.Tags)
	if err != nil {
		return err
	}

	query :=
		`INSERT INTO documents (id, title, description, tags, bucket, object_key, edit_datetime)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err = r.db.ExecContext(ctx, query,
		doc.ID, doc.Title, doc.Description, tags, doc.Bucket, doc.ObjectKey, doc.EditDateTime)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, doc *models.Document) error {

	tags, err := encodeTags(doc.Tags)
	if err != nil {
		return err
	}

	query :=
		`UPDATE documents
		 SET title = $2, description = $3, tags = $4, edit_datetime = $5
		 WHERE id = $1 AND deleted = FALSE
		 `

	res, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.Title, doc.Description, tags, doc.EditDateTime)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {

	query :=
		`SELECT id, title, description, tags, bucket, object_key, edit_datetime, deleted
		 FROM documents
		 WHERE id = $1
		 `

	doc := &models.Document{}
	var tags string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &doc.Title, &doc.Description, &tags,
		&doc.Bucket, &doc.ObjectKey, &doc.EditDateTime, &doc.Deleted)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal([]byte(tags), &doc.Tags); err != nil {
		return nil, fmt.Errorf("tags decode error: %w", err)
	}

	return doc, nil
}

func (r *PostgresRepository) MarkDeleted(ctx context.Context, id int64, editDateTime time.Time) error {

	query :=
		`UPDATE documents
		 SET deleted = TRUE, edit_datetime = $2
		 WHERE id = $1 AND deleted = FALSE
		 `

	res, err := r.db.ExecContext(ctx, query, id, editDateTime)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}
