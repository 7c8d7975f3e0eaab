package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/dmitrijs2005/vidpress/internal/logging"
	"github.com/dmitrijs2005/vidpress/internal/server/models"
	"github.com/dmitrijs2005/vidpress/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vidpress/internal/server/storage"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// The repositories only use portable SQL ($n placeholders, upsert,
// conditional updates), so service-level tests run against in-memory sqlite
// the same way the transaction helper tests do.
const testSchema = `
CREATE TABLE counters (
    name TEXT PRIMARY KEY,
    current_value INTEGER NOT NULL
);
CREATE TABLE documents (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    bucket TEXT NOT NULL,
    object_key TEXT NOT NULL,
    edit_datetime TIMESTAMP NOT NULL,
    deleted BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE upload_sessions (
    id TEXT PRIMARY KEY,
    bucket TEXT NOT NULL,
    object_key TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    document_id INTEGER,
    created_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL
);
CREATE TABLE role_bindings (
    identity TEXT NOT NULL,
    role TEXT NOT NULL,
    PRIMARY KEY (identity, role)
);
CREATE TABLE policies (
    role TEXT NOT NULL,
    path_pattern TEXT NOT NULL,
    PRIMARY KEY (role, path_pattern)
);
`

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	// a single pooled connection serializes concurrent transactions, which
	// sqlite cannot interleave anyway
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newManager() repomanager.RepositoryManager {
	return repomanager.NewPostgresRepositoryManager()
}

type fakeSink struct {
	mu   sync.Mutex
	docs []*models.Document
}

func (f *fakeSink) Enqueue(doc *models.Document) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, doc)
	return true
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

type fakeSigner struct {
	url string
	err error
}

func (f *fakeSigner) SignUpload(ctx context.Context, bucket, key string) (*storage.SignedUpload, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &storage.SignedUpload{URL: f.url}, nil
}
