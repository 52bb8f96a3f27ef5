package process

import (
	"context"

	"github.com/techjusticelab/Motion-Index/internal/domain"
	"github.com/techjusticelab/Motion-Index/internal/repository/document"
)

// Extractor turns a file into plain text. Format handling (PDF, Word,
// WordPerfect, OCR) lives behind this interface.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Indexer is the consumer interface over the indexing use case.
type Indexer interface {
	Index(ctx context.Context, doc *domain.Document) (string, error)
	BulkIndex(ctx context.Context, docs []*domain.Document) document.BulkStats
	Exists(ctx context.Context, hash string) (bool, error)
}
