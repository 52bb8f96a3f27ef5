// Package opensearch wraps the cluster client behind the operations the
// repositories need: index lifecycle, document writes, search and
// aggregations.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/techjusticelab/Motion-Index/internal/db"
)

// Config holds connection parameters for the search cluster.
type Config struct {
	Addrs    []string
	Username string
	Password string
}

// Client is a thin wrapper over the OpenSearch API client.
type Client struct {
	client *opensearchgo.Client
}

// NewClient creates a cluster client. Connectivity is not verified here;
// call Ping or WaitForReady.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	c, err := opensearchgo.NewClient(opensearchgo.Config{
		Addresses: cfg.Addrs,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Client{client: c}, nil
}

// Ping checks cluster connectivity.
func (c *Client) Ping(ctx context.Context) error {
	req := opensearchapi.PingRequest{}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer closeBody(res)

	if res.IsError() {
		return fmt.Errorf("ping: %s", res.Status())
	}
	return nil
}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for search cluster: %w", ctx.Err())
		case <-ticker.C:
			if err := c.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// IndexExists reports whether the named index exists.
func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{Index: []string{index}}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return false, fmt.Errorf("indices exists %s: %w", index, err)
	}
	defer closeBody(res)

	switch res.StatusCode {
	case 200:
		return true, nil
	case 404:
		return false, nil
	default:
		return false, fmt.Errorf("indices exists %s: %s", index, res.Status())
	}
}

// CreateIndex creates an index with the given mapping body.
func (c *Client) CreateIndex(ctx context.Context, index string, mapping []byte) error {
	req := opensearchapi.IndicesCreateRequest{
		Index: index,
		Body:  bytes.NewReader(mapping),
	}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	defer closeBody(res)

	if res.IsError() {
		return fmt.Errorf("create index %s: %s", index, responseError(res))
	}
	return nil
}

// IndexDocument writes a document under the given ID. refresh=true makes
// the write visible to searches before returning.
func (c *Client) IndexDocument(ctx context.Context, index, id string, doc any, refresh bool) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(body),
	}
	if refresh {
		req.Refresh = "true"
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("index document %s: %w", id, err)
	}
	defer closeBody(res)

	if res.IsError() {
		return fmt.Errorf("index document %s: %s", id, responseError(res))
	}
	return nil
}

// BulkAction is one document in a bulk request.
type BulkAction struct {
	ID  string
	Doc any
}

// BulkResult aggregates per-document outcomes of a bulk call.
type BulkResult struct {
	Succeeded int
	Failed    int
	// Errors holds the reason strings of failed items, for logging only.
	Errors []string
}

// Bulk submits one chunk of index actions. Per-document failures are
// counted in the result, not returned as an error; an error return means
// the whole request failed.
func (c *Client) Bulk(ctx context.Context, index string, actions []BulkAction) (BulkResult, error) {
	if len(actions) == 0 {
		return BulkResult{}, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, a := range actions {
		meta := map[string]map[string]string{"index": {"_index": index, "_id": a.ID}}
		if err := enc.Encode(meta); err != nil {
			return BulkResult{}, fmt.Errorf("encode bulk meta: %w", err)
		}
		if err := enc.Encode(a.Doc); err != nil {
			return BulkResult{}, fmt.Errorf("encode bulk document %s: %w", a.ID, err)
		}
	}

	req := opensearchapi.BulkRequest{
		Index:   index,
		Body:    bytes.NewReader(buf.Bytes()),
		Refresh: "true",
	}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return BulkResult{}, fmt.Errorf("bulk: %w", err)
	}
	defer closeBody(res)

	if res.IsError() {
		return BulkResult{}, fmt.Errorf("bulk: %s", responseError(res))
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return BulkResult{}, fmt.Errorf("parse bulk response: %w", err)
	}

	result := BulkResult{}
	for _, item := range parsed.Items {
		op, ok := item["index"]
		if !ok {
			continue
		}
		if op.Status >= 200 && op.Status < 300 {
			result.Succeeded++
		} else {
			result.Failed++
			if op.Error != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("%s: %s: %s", op.ID, op.Error.Type, op.Error.Reason))
			}
		}
	}
	return result, nil
}

// Exists reports whether a document with the given ID exists.
func (c *Client) Exists(ctx context.Context, index, id string) (bool, error) {
	req := opensearchapi.ExistsRequest{Index: index, DocumentID: id}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", id, err)
	}
	defer closeBody(res)

	switch res.StatusCode {
	case 200:
		return true, nil
	case 404:
		return false, nil
	default:
		return false, fmt.Errorf("exists %s: %s", id, res.Status())
	}
}

// GetSource fetches a document's stored fields. Returns db.ErrKeyNotFound
// when the ID is absent.
func (c *Client) GetSource(ctx context.Context, index, id string) (map[string]any, error) {
	req := opensearchapi.GetRequest{Index: index, DocumentID: id}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	defer closeBody(res)

	if res.StatusCode == 404 {
		return nil, db.ErrKeyNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("get %s: %s", id, responseError(res))
	}

	var parsed struct {
		Source map[string]any `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse get response: %w", err)
	}
	return parsed.Source, nil
}

// UpdateDocument merges the given partial document into the stored one.
// Returns db.ErrKeyNotFound when the ID is absent.
func (c *Client) UpdateDocument(ctx context.Context, index, id string, partial map[string]any) error {
	body, err := json.Marshal(map[string]any{"doc": partial})
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}

	req := opensearchapi.UpdateRequest{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("update %s: %w", id, err)
	}
	defer closeBody(res)

	if res.StatusCode == 404 {
		return db.ErrKeyNotFound
	}
	if res.IsError() {
		return fmt.Errorf("update %s: %s", id, responseError(res))
	}
	return nil
}

// Hit is one raw search hit.
type Hit struct {
	ID        string              `json:"_id"`
	Score     float64             `json:"_score"`
	Source    map[string]any      `json:"_source"`
	Highlight map[string][]string `json:"highlight"`
}

// SearchResponse is the subset of the engine response the repositories use.
type SearchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []Hit `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations"`
}

// Search executes a query body against the index.
func (c *Client) Search(ctx context.Context, index string, body map[string]any) (*SearchResponse, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(encoded),
	}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer closeBody(res)

	if res.IsError() {
		return nil, fmt.Errorf("search: %s", responseError(res))
	}

	var parsed SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}
	return &parsed, nil
}

// Count returns the total number of documents in the index.
func (c *Client) Count(ctx context.Context, index string) (int64, error) {
	req := opensearchapi.CountRequest{Index: []string{index}}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	defer closeBody(res)

	if res.IsError() {
		return 0, fmt.Errorf("count: %s", responseError(res))
	}

	var parsed struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("parse count response: %w", err)
	}
	return parsed.Count, nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// responseError extracts a short reason from an error response body.
func responseError(res *opensearchapi.Response) string {
	data, err := io.ReadAll(res.Body)
	if err != nil || len(data) == 0 {
		return res.Status()
	}

	var parsed struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil || parsed.Error.Type == "" {
		return res.Status() + ": " + strings.TrimSpace(string(data))
	}
	return parsed.Error.Type + ": " + parsed.Error.Reason
}

func closeBody(res *opensearchapi.Response) {
	if res != nil && res.Body != nil {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}
}
