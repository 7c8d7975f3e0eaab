package policies

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vidpress/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) RolesForIdentity(ctx context.Context, identity string) ([]string, error) {

	query :=
		`SELECT role FROM role_bindings
		 WHERE identity = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, identity)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return roles, nil
}

func (r *PostgresRepository) PathPatternsForRole(ctx context.Context, role string) ([]string, error) {

	query :=
		`SELECT path_pattern FROM policies
		 WHERE role = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var patterns []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return patterns, nil
}
