// Package document owns the write paths of the search index: index
// lifecycle, single and bulk document upserts with content-derived IDs,
// and partial metadata updates.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/techjusticelab/Motion-Index/internal/db"
	"github.com/techjusticelab/Motion-Index/internal/db/opensearch"
	"github.com/techjusticelab/Motion-Index/internal/domain"
	"github.com/techjusticelab/Motion-Index/internal/domain/court"
	"github.com/techjusticelab/Motion-Index/internal/domain/legaltag"
)

// DefaultBulkChunkSize bounds the number of documents per bulk request.
const DefaultBulkChunkSize = 500

// store is the consumer interface for index writes (ISP).
type store interface {
	IndexExists(ctx context.Context, index string) (bool, error)
	CreateIndex(ctx context.Context, index string, mapping []byte) error
	IndexDocument(ctx context.Context, index, id string, doc any, refresh bool) error
	Bulk(ctx context.Context, index string, actions []opensearch.BulkAction) (opensearch.BulkResult, error)
	Exists(ctx context.Context, index, id string) (bool, error)
	GetSource(ctx context.Context, index, id string) (map[string]any, error)
	UpdateDocument(ctx context.Context, index, id string, partial map[string]any) error
}

// BulkStats aggregates the outcome of a bulk run. Failures are counted,
// not attributed per document; Errors carries reason strings for logging.
type BulkStats struct {
	Indexed int
	Failed  int
	Errors  []string
}

// Repo implements usecase/indexing.Repository.
type Repo struct {
	store store
	index string
}

// New creates a document repository bound to one index.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// EnsureIndex creates the index with the fixed mapping if it does not
// exist. Returns true when the index was created by this call. An
// existing index is never modified.
func (r *Repo) EnsureIndex(ctx context.Context) (bool, error) {
	exists, err := r.store.IndexExists(ctx, r.index)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrIndexCreation, err)
	}
	if exists {
		return false, nil
	}

	if err := r.store.CreateIndex(ctx, r.index, indexMapping); err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrIndexCreation, err)
	}
	return true, nil
}

// Index writes one document under its content-derived ID with immediate
// search visibility, and returns the assigned ID. The court name is
// normalized before the write.
func (r *Repo) Index(ctx context.Context, doc *domain.Document) (string, error) {
	id, err := documentID(doc)
	if err != nil {
		return "", err
	}

	prepared := prepare(doc)
	if err := r.store.IndexDocument(ctx, r.index, id, prepared, true); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrIndexing, err)
	}
	return id, nil
}

// BulkIndex writes documents in fixed-size chunks. Chunks are submitted
// sequentially and independently: a failed chunk counts all of its
// documents as failed and does not abort the remaining chunks. Documents
// without a usable hash are counted as failed without a request.
func (r *Repo) BulkIndex(ctx context.Context, docs []*domain.Document, chunkSize int) BulkStats {
	if chunkSize <= 0 {
		chunkSize = DefaultBulkChunkSize
	}

	var stats BulkStats
	for start := 0; start < len(docs); start += chunkSize {
		end := start + chunkSize
		if end > len(docs) {
			end = len(docs)
		}

		actions := make([]opensearch.BulkAction, 0, end-start)
		for _, doc := range docs[start:end] {
			id, err := documentID(doc)
			if err != nil {
				stats.Failed++
				stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", doc.FilePath, err))
				continue
			}
			actions = append(actions, opensearch.BulkAction{ID: id, Doc: prepare(doc)})
		}
		if len(actions) == 0 {
			continue
		}

		result, err := r.store.Bulk(ctx, r.index, actions)
		if err != nil {
			stats.Failed += len(actions)
			stats.Errors = append(stats.Errors, fmt.Sprintf("chunk at %d: %v", start, err))
			continue
		}
		stats.Indexed += result.Succeeded
		stats.Failed += result.Failed
		stats.Errors = append(stats.Errors, result.Errors...)
	}
	return stats
}

// Exists reports whether a document with the given content hash is
// already indexed. The hash is the index ID, so this is an ID lookup.
func (r *Repo) Exists(ctx context.Context, hash string) (bool, error) {
	return r.ExistsByID(ctx, hash)
}

// ExistsByID reports whether a document with the given index ID exists.
func (r *Repo) ExistsByID(ctx context.Context, id string) (bool, error) {
	ok, err := r.store.Exists(ctx, r.index, id)
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", id, err)
	}
	return ok, nil
}

// Get returns a stored document by ID.
func (r *Repo) Get(ctx context.Context, id string) (*domain.Document, error) {
	source, err := r.store.GetSource(ctx, r.index, id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get %s: %w", id, err)
	}

	raw, err := json.Marshal(source)
	if err != nil {
		return nil, fmt.Errorf("remarshal %s: %w", id, err)
	}
	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", id, err)
	}
	return &doc, nil
}

// UpdateMetadata merges the provided metadata fields into the stored
// document (partial update, not a replace). Court is re-normalized,
// legal tags are re-validated against the vocabulary and judge is
// trimmed when present in the partial.
func (r *Repo) UpdateMetadata(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	cleaned := make(map[string]any, len(fields))
	for k, v := range fields {
		cleaned[k] = v
	}

	if v, ok := stringField(cleaned, "court"); ok {
		cleaned["court"] = court.Normalize(v)
	}
	if v, ok := stringField(cleaned, "judge"); ok {
		cleaned["judge"] = strings.TrimSpace(v)
	}
	if raw, ok := cleaned["legal_tags"]; ok {
		cleaned["legal_tags"] = legaltag.ValidateTags(toStrings(raw))
	}

	err := r.store.UpdateDocument(ctx, r.index, id, map[string]any{"metadata": cleaned})
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.ErrDocumentNotFound
		}
		return fmt.Errorf("update metadata %s: %w", id, err)
	}
	return nil
}

// documentID derives the index ID from the content hash, falling back to
// a metadata-carried hash for legacy payloads.
func documentID(doc *domain.Document) (string, error) {
	if doc.Hash != "" {
		return doc.Hash, nil
	}
	if doc.Metadata.Hash != "" {
		return doc.Metadata.Hash, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrMissingHash, doc.FilePath)
}

// prepare returns a copy of the document with its court name normalized.
// The caller's document is never mutated.
func prepare(doc *domain.Document) *domain.Document {
	if doc.Metadata.Court == "" {
		return doc
	}
	copied := *doc
	copied.Metadata.Court = court.Normalize(doc.Metadata.Court)
	return &copied
}

func stringField(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
