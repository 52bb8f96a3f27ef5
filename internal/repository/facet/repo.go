// Package facet runs the terms-aggregation reads behind filter
// dropdowns and statistics: distinct field values with counts, document
// totals and the legal-date range.
package facet

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/techjusticelab/Motion-Index/internal/db/opensearch"
)

// topLevelFields live on the document root; every other facet field is
// nested under metadata.
var topLevelFields = map[string]bool{
	"doc_type": true,
	"category": true,
	"hash":     true,
}

// analyzedFields need their .keyword sub-field for exact aggregation.
var analyzedFields = map[string]bool{
	"file_name":              true,
	"metadata.document_name": true,
	"metadata.subject":       true,
	"metadata.case_name":     true,
	"metadata.author":        true,
	"metadata.judge":         true,
	"metadata.court":         true,
}

// store is the consumer interface for aggregation reads (ISP).
type store interface {
	Search(ctx context.Context, index string, body map[string]any) (*opensearch.SearchResponse, error)
	Count(ctx context.Context, index string) (int64, error)
}

// Bucket is one distinct value with its document count.
type Bucket struct {
	Value string
	Count int64
}

// Repo implements usecase/facet.Repository.
type Repo struct {
	store store
	index string
}

// New creates a facet repository bound to one index.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// DistinctValues aggregates the distinct values of a field, optionally
// restricted to a prefix, in engine order (frequency descending). The
// "None" and "null" sentinel values written by older producers are
// dropped. No documents are retrieved.
func (r *Repo) DistinctValues(ctx context.Context, field, prefix string, size int) ([]Bucket, error) {
	target := aggField(field)

	body := map[string]any{
		"size": 0,
		"aggs": map[string]any{
			"values": map[string]any{
				"terms": map[string]any{"field": target, "size": size},
			},
		},
	}
	// The prefix goes to the engine verbatim: .keyword sub-fields carry
	// no lowercase normalizer, so a case-folded prefix would never match
	// the title-cased stored terms.
	if prefix != "" {
		body["query"] = map[string]any{
			"prefix": map[string]any{target: prefix},
		}
	}

	res, err := r.store.Search(ctx, r.index, body)
	if err != nil {
		return nil, fmt.Errorf("distinct values %s: %w", field, err)
	}
	return parseTerms(res.Aggregations["values"])
}

// Count returns the total number of indexed documents.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx, r.index)
}

// TimestampRange returns the min and max legal timestamps across the
// index. Empty strings mean no document carries a timestamp.
func (r *Repo) TimestampRange(ctx context.Context) (min, max string, err error) {
	body := map[string]any{
		"size": 0,
		"aggs": map[string]any{
			"min_date": map[string]any{"min": map[string]any{"field": "metadata.timestamp"}},
			"max_date": map[string]any{"max": map[string]any{"field": "metadata.timestamp"}},
		},
	}

	res, err := r.store.Search(ctx, r.index, body)
	if err != nil {
		return "", "", fmt.Errorf("timestamp range: %w", err)
	}

	min, err = parseDateValue(res.Aggregations["min_date"])
	if err != nil {
		return "", "", err
	}
	max, err = parseDateValue(res.Aggregations["max_date"])
	if err != nil {
		return "", "", err
	}
	return min, max, nil
}

// aggField resolves a logical facet field to its exact-match index form.
func aggField(field string) string {
	if strings.HasSuffix(field, ".keyword") {
		return field
	}
	if !topLevelFields[field] && !strings.HasPrefix(field, "metadata.") {
		field = "metadata." + field
	}
	if analyzedFields[field] {
		field += ".keyword"
	}
	return field
}

func parseTerms(raw json.RawMessage) ([]Bucket, error) {
	if raw == nil {
		return nil, nil
	}

	var parsed struct {
		Buckets []struct {
			Key      any   `json:"key"`
			DocCount int64 `json:"doc_count"`
		} `json:"buckets"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse terms aggregation: %w", err)
	}

	buckets := make([]Bucket, 0, len(parsed.Buckets))
	for _, b := range parsed.Buckets {
		key := fmt.Sprintf("%v", b.Key)
		if key == "" || key == "None" || key == "null" {
			continue
		}
		buckets = append(buckets, Bucket{Value: key, Count: b.DocCount})
	}
	return buckets, nil
}

func parseDateValue(raw json.RawMessage) (string, error) {
	if raw == nil {
		return "", nil
	}

	var parsed struct {
		ValueAsString string `json:"value_as_string"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse date aggregation: %w", err)
	}
	return parsed.ValueAsString, nil
}
