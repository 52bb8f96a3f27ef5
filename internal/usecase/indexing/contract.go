package indexing

import (
	"context"

	"github.com/techjusticelab/Motion-Index/internal/domain"
	"github.com/techjusticelab/Motion-Index/internal/repository/document"
)

// Repository owns the index write paths.
type Repository interface {
	EnsureIndex(ctx context.Context) (bool, error)
	Index(ctx context.Context, doc *domain.Document) (string, error)
	BulkIndex(ctx context.Context, docs []*domain.Document, chunkSize int) document.BulkStats
	Exists(ctx context.Context, hash string) (bool, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*domain.Document, error)
	UpdateMetadata(ctx context.Context, id string, fields map[string]any) error
}
