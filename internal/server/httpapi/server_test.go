package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/vidpress/internal/logging"
	"github.com/dmitrijs2005/vidpress/internal/server/auth"
	"github.com/dmitrijs2005/vidpress/internal/server/models"
	"github.com/dmitrijs2005/vidpress/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vidpress/internal/server/services"
	"github.com/dmitrijs2005/vidpress/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const testSecretKey = "test-secret"

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

type stubSigner struct{}

func (stubSigner) SignUpload(ctx context.Context, bucket, key string) (*storage.SignedUpload, error) {
	return &storage.SignedUpload{URL: "https://storage.test/" + bucket + "/" + key}, nil
}

type nopSink struct{}

func (nopSink) Enqueue(doc *models.Document) bool { return true }

func newTestServer(t *testing.T, secretsPath string) (*Server, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	repos := repomanager.NewPostgresRepositoryManager()

	uploads := services.NewUploadService(db, repos, stubSigner{}, nopSink{}, "videos", time.Hour, logger)
	documents := services.NewDocumentService(db, repos, nopSink{}, logger)
	access := services.NewAccessService(db, repos, logger)
	secrets := services.NewSecretService(secretsPath)

	return NewServer(":0", logger, uploads, documents, access, secrets, testSecretKey), db
}

func doJSON(t *testing.T, h http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, "")
	rec := doJSON(t, s.Routes(), http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPublishFlow(t *testing.T) {
	s, _ := newTestServer(t, "")
	h := s.Routes()

	// open an upload session
	rec := doJSON(t, h, http.MethodPost, "/upload-session", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created createUploadSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.UploadID)
	assert.NotEmpty(t, created.SignedURL)
	assert.Equal(t, "videos", created.Bucket)

	// finalize it
	meta := services.DocumentMetadata{Title: "launch video", Tags: []string{"launch"}}
	rec = doJSON(t, h, http.MethodPost, "/upload-session/"+created.UploadID+"/finalize", "", meta)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, int64(1), doc.ID)
	assert.Equal(t, "launch video", doc.Title)

	// the published document is readable
	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/videos/%d", doc.ID), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// a second finalize of the same session conflicts
	rec = doJSON(t, h, http.MethodPost, "/upload-session/"+created.UploadID+"/finalize", "", meta)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var er errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
	assert.False(t, er.Retryable)
}

func TestFinalize_UnknownSession(t *testing.T) {
	s, _ := newTestServer(t, "")
	rec := doJSON(t, s.Routes(), http.MethodPost, "/upload-session/no-such-id/finalize", "",
		services.DocumentMetadata{Title: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDocument_UpdateAndDelete(t *testing.T) {
	s, _ := newTestServer(t, "")
	h := s.Routes()

	rec := doJSON(t, h, http.MethodPost, "/upload-session", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created createUploadSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, h, http.MethodPost, "/upload-session/"+created.UploadID+"/finalize", "",
		services.DocumentMetadata{Title: "before"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPut, "/videos/1", "", services.DocumentMetadata{Title: "after"})
	require.Equal(t, http.StatusOK, rec.Code)
	var doc models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "after", doc.Title)

	rec = doJSON(t, h, http.MethodDelete, "/videos/1", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// tombstoned documents are gone for readers
	rec = doJSON(t, h, http.MethodGet, "/videos/1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDocument_BadID(t *testing.T) {
	s, _ := newTestServer(t, "")
	rec := doJSON(t, s.Routes(), http.MethodGet, "/videos/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSecret_AccessGate(t *testing.T) {
	secretsPath := filepath.Join(t.TempDir(), "staging.json")
	require.NoError(t, os.WriteFile(secretsPath, []byte(`{"API_KEY":"k1"}`), 0o600))

	s, db := newTestServer(t, secretsPath)
	h := s.Routes()

	_, err := db.Exec(`INSERT INTO role_bindings (identity, role) VALUES ('alice', 'ops')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO policies (role, path_pattern) VALUES ('ops', '/secret/*')`)
	require.NoError(t, err)

	t.Run("anonymous is denied", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/secret/staging-env", "", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unbound identity is denied", func(t *testing.T) {
		token, err := auth.GenerateToken("mallory", []byte(testSecretKey), time.Hour)
		require.NoError(t, err)
		rec := doJSON(t, h, http.MethodGet, "/secret/staging-env", token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("forged token is denied", func(t *testing.T) {
		token, err := auth.GenerateToken("alice", []byte("other-key"), time.Hour)
		require.NoError(t, err)
		rec := doJSON(t, h, http.MethodGet, "/secret/staging-env", token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("bound identity reads the secrets", func(t *testing.T) {
		token, err := auth.GenerateToken("alice", []byte(testSecretKey), time.Hour)
		require.NoError(t, err)
		rec := doJSON(t, h, http.MethodGet, "/secret/staging-env", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "k1", got["API_KEY"])
	})
}
