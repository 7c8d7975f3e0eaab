// Package client implements the publisher side of the pipeline: open an
// upload session, send the bytes to the signed URL and finalize the session
// into a published document.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/vidpress/internal/common"
)

// Session mirrors the upload-session response of the API.
type Session struct {
	UploadID  string    `json:"uploadId"`
	ObjectKey string    `json:"objectKey"`
	Bucket    string    `json:"bucket"`
	SignedURL string    `json:"signedUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Metadata is the client-supplied part of a published document.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Document is the published document as returned by the API.
type Document struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	Bucket       string    `json:"bucket"`
	ObjectKey    string    `json:"objectKey"`
	EditDateTime time.Time `json:"editDateTime"`
}

type Publisher struct {
	baseURL string
	client  *http.Client
	// uploads go straight to object storage and are not bounded by the API
	// request timeout
	uploadClient *http.Client
}

func NewPublisher(baseURL string, requestTimeout time.Duration) *Publisher {
	return &Publisher{
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       &http.Client{Timeout: requestTimeout},
		uploadClient: &http.Client{},
	}
}

func (p *Publisher) postJSON(ctx context.Context, url string, in, out any) error {

	var buf bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := statusToError(resp); err != nil {
		return err
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}

	return nil
}

// statusToError maps API statuses back onto the shared error taxonomy so
// callers can branch with errors.Is.
func statusToError(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return common.ErrSessionAlreadyFinalized
	case resp.StatusCode == http.StatusGone:
		return common.ErrSessionExpired
	case resp.StatusCode == http.StatusForbidden:
		return common.ErrAccessDenied
	case resp.StatusCode == http.StatusServiceUnavailable:
		return common.ErrStorageUnavailable
	default:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

// CreateSession opens an upload session and returns the signed upload URL.
func (p *Publisher) CreateSession(ctx context.Context) (*Session, error) {
	session := &Session{}
	if err := p.postJSON(ctx, p.baseURL+"/upload-session", nil, session); err != nil {
		return nil, fmt.Errorf("error creating upload session: %w", err)
	}
	return session, nil
}

// Upload streams the content to the signed URL with a plain PUT.
func (p *Publisher) Upload(ctx context.Context, signedURL string, r io.Reader) error {

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, signedURL, r)
	if err != nil {
		return err
	}

	resp, err := p.uploadClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload error: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload status %d", resp.StatusCode)
	}

	return nil
}

// Finalize commits the uploaded content into a published document.
func (p *Publisher) Finalize(ctx context.Context, uploadID string, meta Metadata) (*Document, error) {
	doc := &Document{}
	url := fmt.Sprintf("%s/upload-session/%s/finalize", p.baseURL, uploadID)
	if err := p.postJSON(ctx, url, meta, doc); err != nil {
		return nil, fmt.Errorf("error finalizing upload: %w", err)
	}
	return doc, nil
}

// Publish runs the full flow for a local file: session, upload, finalize.
func (p *Publisher) Publish(ctx context.Context, path string, meta Metadata) (*Document, error) {

	session, err := p.CreateSession(ctx)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := p.Upload(ctx, session.SignedURL, file); err != nil {
		return nil, err
	}

	return p.Finalize(ctx, session.UploadID, meta)
}
