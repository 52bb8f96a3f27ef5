package search

import (
	"context"
	"testing"

	"github.com/techjusticelab/Motion-Index/internal/db/opensearch"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn func(ctx context.Context, index string, body map[string]any) (*opensearch.SearchResponse, error)
}

func (m *mockStore) Search(
	ctx context.Context, index string, body map[string]any,
) (*opensearch.SearchResponse, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, index, body)
	}
	return &opensearch.SearchResponse{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, "documents")
	return repo, ms
}
