package facet

import (
	"context"

	"github.com/techjusticelab/Motion-Index/internal/repository/facet"
)

// Repository runs aggregation reads against the search cluster.
type Repository interface {
	DistinctValues(ctx context.Context, field, prefix string, size int) ([]facet.Bucket, error)
	Count(ctx context.Context) (int64, error)
	TimestampRange(ctx context.Context) (min, max string, err error)
}
