package document

import (
	"context"
	"testing"
	"time"

	"github.com/techjusticelab/Motion-Index/internal/db/opensearch"
	"github.com/techjusticelab/Motion-Index/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	indexExistsFn func(ctx context.Context, index string) (bool, error)
	createIndexFn func(ctx context.Context, index string, mapping []byte) error
	indexDocFn    func(ctx context.Context, index, id string, doc any, refresh bool) error
	bulkFn        func(ctx context.Context, index string, actions []opensearch.BulkAction) (opensearch.BulkResult, error)
	existsFn      func(ctx context.Context, index, id string) (bool, error)
	getSourceFn   func(ctx context.Context, index, id string) (map[string]any, error)
	updateDocFn   func(ctx context.Context, index, id string, partial map[string]any) error
}

func (m *mockStore) IndexExists(ctx context.Context, index string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, index)
	}
	return false, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, index string, mapping []byte) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, index, mapping)
	}
	return nil
}

func (m *mockStore) IndexDocument(ctx context.Context, index, id string, doc any, refresh bool) error {
	if m.indexDocFn != nil {
		return m.indexDocFn(ctx, index, id, doc, refresh)
	}
	return nil
}

func (m *mockStore) Bulk(
	ctx context.Context, index string, actions []opensearch.BulkAction,
) (opensearch.BulkResult, error) {
	if m.bulkFn != nil {
		return m.bulkFn(ctx, index, actions)
	}
	return opensearch.BulkResult{Succeeded: len(actions)}, nil
}

func (m *mockStore) Exists(ctx context.Context, index, id string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, index, id)
	}
	return false, nil
}

func (m *mockStore) GetSource(ctx context.Context, index, id string) (map[string]any, error) {
	if m.getSourceFn != nil {
		return m.getSourceFn(ctx, index, id)
	}
	return map[string]any{}, nil
}

func (m *mockStore) UpdateDocument(ctx context.Context, index, id string, partial map[string]any) error {
	if m.updateDocFn != nil {
		return m.updateDocFn(ctx, index, id, partial)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, "documents")
	return repo, ms
}

func testDocument(t *testing.T, hash string) *domain.Document {
	t.Helper()
	ts := time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC)
	return &domain.Document{
		FilePath: "/data/motions/" + hash + ".pdf",
		FileName: hash + ".pdf",
		Text:     "motion to suppress evidence",
		DocType:  "Motion",
		Category: "PDF Document",
		Metadata: domain.Metadata{
			DocumentName: "Motion to Suppress",
			Subject:      "Suppression of traffic stop evidence",
			Timestamp:    &ts,
			Court:        "SUPERIOR COURT OF THE STATE OF CALIFORNIA, COUNTY OF ALAMEDA",
			LegalTags:    []string{"Evidence Suppression"},
		},
		Hash:      hash,
		CreatedAt: time.Date(2023, 5, 13, 9, 0, 0, 0, time.UTC),
	}
}
