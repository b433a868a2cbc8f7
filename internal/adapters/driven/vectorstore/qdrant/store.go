// Package qdrant provides a vector store adapter backed by the Qdrant
// REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DefaultBaseURL is the local Qdrant endpoint.
const DefaultBaseURL = "http://localhost:6333"

// DefaultTimeout bounds each request.
const DefaultTimeout = 15 * time.Second

// Config holds configuration for the Qdrant store.
type Config struct {
	// BaseURL is the Qdrant REST endpoint (default: http://localhost:6333).
	BaseURL string

	// APIKey is sent as the api-key header when set.
	APIKey string

	// Timeout is the per-request timeout (default: 15s).
	Timeout time.Duration
}

// Store is a minimal REST client to Qdrant.
type Store struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// New creates a new Qdrant store.
func New(cfg Config) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// collectionInfo captures the schema fields of a collection response.
type collectionInfo struct {
	Result struct {
		Config struct {
			Params struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// scoredPoint captures the fields returned by search responses.
type scoredPoint struct {
	ID      any            `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// CollectionExists reports whether the named collection exists.
func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	status, _, err := s.do(ctx, http.MethodGet, "/collections/"+name, nil)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("qdrant: unexpected status %d checking collection %q", status, name)
	}
}

// CreateCollection creates a collection with the given dimension and metric.
// If the collection already exists with a different schema, it returns
// domain.ErrCollectionConflict.
func (s *Store) CreateCollection(ctx context.Context, name string, dimension int, metric driven.Metric) error {
	status, body, err := s.do(ctx, http.MethodGet, "/collections/"+name, nil)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		var info collectionInfo
		if err := json.Unmarshal(body, &info); err != nil {
			return fmt.Errorf("qdrant: decode collection info: %w", err)
		}
		vectors := info.Result.Config.Params.Vectors
		if vectors.Size != dimension || vectors.Distance != string(metric) {
			return fmt.Errorf("%w: collection %q has dimension %d metric %s, want %d %s",
				domain.ErrCollectionConflict, name, vectors.Size, vectors.Distance, dimension, metric)
		}
		return nil
	}

	request := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": string(metric),
		},
	}
	status, body, err = s.do(ctx, http.MethodPut, "/collections/"+name, request)
	if err != nil {
		return err
	}
	if status >= http.StatusBadRequest {
		return apiError(status, body)
	}
	return nil
}

// Upsert writes records with overwrite semantics keyed by record ID.
func (s *Store) Upsert(ctx context.Context, collection string, records []driven.Record) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]map[string]any, len(records))
	for i, rec := range records {
		points[i] = map[string]any{
			"id":     rec.ID,
			"vector": rec.Vector,
			"payload": map[string]any{
				driven.PayloadKeyContent:      rec.Payload.Content,
				driven.PayloadKeyDocumentName: rec.Payload.DocumentName,
				driven.PayloadKeyChunkIndex:   rec.Payload.ChunkIndex,
			},
		}
	}

	path := fmt.Sprintf("/collections/%s/points?wait=true", collection)
	status, body, err := s.do(ctx, http.MethodPut, path, map[string]any{"points": points})
	if err != nil {
		return err
	}
	if status >= http.StatusBadRequest {
		return apiError(status, body)
	}
	return nil
}

// Search returns up to limit points ordered by similarity.
func (s *Store) Search(ctx context.Context, collection string, vector []float32, filter map[string]string, limit int) ([]driven.ScoredPoint, error) {
	request := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	if f := buildFilter(filter); f != nil {
		request["filter"] = f
	}

	path := fmt.Sprintf("/collections/%s/points/search", collection)
	status, body, err := s.do(ctx, http.MethodPost, path, request)
	if err != nil {
		return nil, err
	}
	if status >= http.StatusBadRequest {
		return nil, apiError(status, body)
	}

	var response struct {
		Result []scoredPoint `json:"result"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("qdrant: decode search response: %w", err)
	}

	points := make([]driven.ScoredPoint, 0, len(response.Result))
	for _, p := range response.Result {
		points = append(points, driven.ScoredPoint{
			ID:      fmt.Sprint(p.ID),
			Score:   p.Score,
			Payload: payloadFromMap(p.Payload),
		})
	}
	return points, nil
}

// Scroll enumerates up to limit points without similarity ordering.
func (s *Store) Scroll(ctx context.Context, collection string, limit int) ([]driven.Record, error) {
	request := map[string]any{
		"limit":        limit,
		"with_payload": true,
	}

	path := fmt.Sprintf("/collections/%s/points/scroll", collection)
	status, body, err := s.do(ctx, http.MethodPost, path, request)
	if err != nil {
		return nil, err
	}
	if status >= http.StatusBadRequest {
		return nil, apiError(status, body)
	}

	var response struct {
		Result struct {
			Points []scoredPoint `json:"points"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("qdrant: decode scroll response: %w", err)
	}

	records := make([]driven.Record, 0, len(response.Result.Points))
	for _, p := range response.Result.Points {
		records = append(records, driven.Record{
			ID:      fmt.Sprint(p.ID),
			Payload: payloadFromMap(p.Payload),
		})
	}
	return records, nil
}

// Close releases resources.
func (s *Store) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// buildFilter builds the exact-match filter payload.
func buildFilter(filter map[string]string) map[string]any {
	if len(filter) == 0 {
		return nil
	}
	must := make([]any, 0, len(filter))
	for key, value := range filter {
		must = append(must, map[string]any{
			"key":   key,
			"match": map[string]any{"value": value},
		})
	}
	return map[string]any{"must": must}
}

// payloadFromMap converts a raw payload into the typed form.
// JSON numbers arrive as float64.
func payloadFromMap(payload map[string]any) driven.Payload {
	var p driven.Payload
	if v, ok := payload[driven.PayloadKeyContent].(string); ok {
		p.Content = v
	}
	if v, ok := payload[driven.PayloadKeyDocumentName].(string); ok {
		p.DocumentName = v
	}
	if v, ok := payload[driven.PayloadKeyChunkIndex].(float64); ok {
		p.ChunkIndex = int(v)
	}
	return p
}

// do issues a request and returns the status code and response body.
// Transport failures return an error; API-level failures are left to the
// caller, which knows which statuses are meaningful (404 on a collection
// probe is an answer, not an error).
func (s *Store) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("qdrant: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("qdrant: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("qdrant: request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("qdrant: read response: %w", err)
	}
	return resp.StatusCode, payload, nil
}

// apiError converts an error response body into a Go error.
func apiError(status int, body []byte) error {
	var apiErr struct {
		Status struct {
			Error string `json:"error"`
		} `json:"status"`
	}
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Status.Error == "" {
		return fmt.Errorf("qdrant: request failed with status %d", status)
	}
	return fmt.Errorf("qdrant: %s (status %d)", apiErr.Status.Error, status)
}
