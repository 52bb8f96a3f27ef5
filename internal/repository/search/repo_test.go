package search

import (
	"context"
	"errors"
	"testing"

	"github.com/techjusticelab/Motion-Index/internal/db/opensearch"
)

func TestSearchReshapesHits(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchFn = func(
		ctx context.Context, index string, body map[string]any,
	) (*opensearch.SearchResponse, error) {
		if index != "documents" {
			t.Errorf("index = %q", index)
		}
		res := &opensearch.SearchResponse{}
		res.Hits.Total.Value = 42
		res.Hits.Hits = []opensearch.Hit{
			{
				ID:     "h1",
				Source: map[string]any{"file_name": "a.pdf"},
				Highlight: map[string][]string{
					"text": {"<strong>dui</strong> stop"},
				},
			},
			{ID: "h2", Source: map[string]any{"file_name": "b.pdf"}},
		}
		return res, nil
	}

	req := mustRequest(t, "dui", "", nil, nil, 10, 2, "", "", false, false)
	page, err := repo.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.Total != 42 || page.PageSize != 10 || page.From != 10 {
		t.Errorf("page shape = %+v", page)
	}
	if len(page.Hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(page.Hits))
	}
	if page.Hits[0].Source["file_name"] != "a.pdf" {
		t.Errorf("hit order not preserved: %v", page.Hits[0].Source)
	}

	flat := page.Hits[0].Flatten()
	hl, ok := flat["highlight"].(map[string][]string)
	if !ok || len(hl["text"]) != 1 {
		t.Errorf("flattened highlight = %v", flat["highlight"])
	}
	if _, ok := page.Hits[1].Flatten()["highlight"]; ok {
		t.Error("hit without highlight must not carry the key")
	}
}

func TestSearchPropagatesExecutionError(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchFn = func(
		ctx context.Context, index string, body map[string]any,
	) (*opensearch.SearchResponse, error) {
		return nil, errors.New("cluster unreachable")
	}

	req := mustRequest(t, "dui", "", nil, nil, 10, 1, "", "", false, false)
	if _, err := repo.Search(context.Background(), req); err == nil {
		t.Fatal("expected error to propagate to the fail-open layer")
	}
}
