package counters

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vidpress/internal/common"
	"github.com/dmitrijs2005/vidpress/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Allocate(ctx context.Context, name string) (int64, error) {

	// Lazy creation and increment are one upsert statement, so there is no
	// window where two callers both see "not exists".
	query :=
		`INSERT INTO counters (name, current_value)
		 VALUES ($1, 1)
		 ON CONFLICT (name)
		 DO UPDATE SET current_value = counters.current_value + 1
		 RETURNING current_value
		 `

	var value int64
	err := r.db.QueryRowContext(ctx, query, name).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	return value, nil
}
