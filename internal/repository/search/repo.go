// Package search builds and executes read-path queries: the boolean
// query tree for document search and the reshaping of engine hits into
// the stable response contract.
package search

import (
	"context"
	"fmt"

	"github.com/techjusticelab/Motion-Index/internal/db/opensearch"
	"github.com/techjusticelab/Motion-Index/internal/domain/search/request"
	"github.com/techjusticelab/Motion-Index/internal/domain/search/result"
)

// store is the consumer interface for query execution (ISP).
type store interface {
	Search(ctx context.Context, index string, body map[string]any) (*opensearch.SearchResponse, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
	index string
}

// New creates a search repository bound to one index.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// Search builds the query for a validated request, executes it and
// reshapes the response. Execution failures are returned; the fail-open
// conversion to an empty page is the caller's policy, not this layer's.
func (r *Repo) Search(ctx context.Context, req *request.Request) (result.Page, error) {
	body := Build(req)

	res, err := r.store.Search(ctx, r.index, body)
	if err != nil {
		return result.Page{}, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]result.Hit, 0, len(res.Hits.Hits))
	for _, h := range res.Hits.Hits {
		hits = append(hits, result.Hit{Source: h.Source, Highlight: h.Highlight})
	}

	return result.Page{
		Total:    res.Hits.Total.Value,
		Hits:     hits,
		PageSize: req.Size(),
		From:     req.From(),
	}, nil
}
