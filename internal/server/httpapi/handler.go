package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/vidpress/internal/common"
	"github.com/dmitrijs2005/vidpress/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type createUploadSessionRequest struct {
	Bucket string `json:"bucket"`
}

type createUploadSessionResponse struct {
	UploadID  string    `json:"uploadId"`
	ObjectKey string    `json:"objectKey"`
	Bucket    string    `json:"bucket"`
	SignedURL string    `json:"signedUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses and tells the client
// whether retrying the same request can help. Terminal session errors mean
// the client should request a new session instead.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {

	var status int
	retryable := false

	switch {
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrSessionAlreadyFinalized):
		status = http.StatusConflict
	case errors.Is(err, common.ErrSessionExpired):
		status = http.StatusGone
	case errors.Is(err, common.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrStorageUnavailable),
		errors.Is(err, common.ErrTransactionStartFailed),
		errors.Is(err, common.ErrCommitFailed):
		status = http.StatusServiceUnavailable
		retryable = true
	default:
		status = http.StatusInternalServerError
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	s.writeJSON(w, status, errorResponse{Error: err.Error(), Retryable: retryable})
}

func (s *Server) handleCreateUploadSession(w http.ResponseWriter, r *http.Request) {

	var req createUploadSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	session, signed, err := s.uploads.CreateSession(r.Context(), req.Bucket)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, createUploadSessionResponse{
		UploadID:  session.ID,
		ObjectKey: session.ObjectKey,
		Bucket:    session.Bucket,
		SignedURL: signed.URL,
		ExpiresAt: session.ExpiresAt,
	})
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {

	uploadID := chi.URLParam(r, "id")

	var meta services.DocumentMetadata
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	doc, err := s.uploads.Finalize(r.Context(), uploadID, meta)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) documentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid document id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {

	id, ok := s.documentID(w, r)
	if !ok {
		return
	}

	doc, err := s.documents.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {

	id, ok := s.documentID(w, r)
	if !ok {
		return
	}

	var meta services.DocumentMetadata
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	doc, err := s.documents.Update(r.Context(), id, meta)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {

	id, ok := s.documentID(w, r)
	if !ok {
		return
	}

	if err := s.documents.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStagingEnv(w http.ResponseWriter, r *http.Request) {

	secrets, err := s.secrets.StagingEnv()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, secrets)
}
