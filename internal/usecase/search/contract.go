package search

import (
	"context"

	"github.com/techjusticelab/Motion-Index/internal/domain/search/request"
	"github.com/techjusticelab/Motion-Index/internal/domain/search/result"
)

// Repository executes a built query against the search cluster.
type Repository interface {
	Search(ctx context.Context, req *request.Request) (result.Page, error)
}
