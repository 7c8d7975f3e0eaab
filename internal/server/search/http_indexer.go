package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/vidpress/internal/server/models"
)

// HTTPIndexer talks to a search engine over its JSON document API:
// PUT {base}/indexes/{index}/documents/{id}.
type HTTPIndexer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPIndexer(baseURL string, timeout time.Duration) *HTTPIndexer {
	return &HTTPIndexer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (i *HTTPIndexer) Upsert(ctx context.Context, index string, id int64, doc *models.Document) error {

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("document encode error: %w", err)
	}

	url := fmt.Sprintf("%s/indexes/%s/documents/%d", i.baseURL, index, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return fmt.Errorf("index request error: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("index upsert status %d", resp.StatusCode)
	}

	return nil
}
