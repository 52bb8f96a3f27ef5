// Package indexing is the write-path use case: index lifecycle, single
// and bulk document writes, partial metadata updates.
package indexing

import (
	"context"

	"go.uber.org/zap"

	"github.com/techjusticelab/Motion-Index/internal/domain"
	"github.com/techjusticelab/Motion-Index/internal/logger"
	"github.com/techjusticelab/Motion-Index/internal/metrics"
	"github.com/techjusticelab/Motion-Index/internal/repository/document"
)

// Service handles document indexing.
type Service struct {
	repo      Repository
	chunkSize int
}

// New creates an indexing service. chunkSize bounds bulk request size;
// zero means the repository default.
func New(repo Repository, chunkSize int) *Service {
	return &Service{repo: repo, chunkSize: chunkSize}
}

// EnsureIndex creates the index if absent. Creation failure is logged
// and reported as false rather than propagated; the caller may proceed
// assuming the index pre-exists.
func (s *Service) EnsureIndex(ctx context.Context) bool {
	created, err := s.repo.EnsureIndex(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("Index creation failed", zap.Error(err))
		return false
	}
	if created {
		logger.FromContext(ctx).Info("Created document index")
	}
	return true
}

// Index writes one document and returns its assigned ID. Write
// rejections propagate so the orchestrator can count the failure.
func (s *Service) Index(ctx context.Context, doc *domain.Document) (string, error) {
	id, err := s.repo.Index(ctx, doc)
	if err != nil {
		metrics.DocumentsIndexedTotal.WithLabelValues("single", "error").Inc()
		return "", err
	}
	metrics.DocumentsIndexedTotal.WithLabelValues("single", "success").Inc()
	return id, nil
}

// BulkIndex writes documents in chunks and returns aggregate counts.
// Per-document failures are logged here, not returned structurally.
func (s *Service) BulkIndex(ctx context.Context, docs []*domain.Document) document.BulkStats {
	stats := s.repo.BulkIndex(ctx, docs, s.chunkSize)

	log := logger.FromContext(ctx)
	for _, reason := range stats.Errors {
		log.Warn("Bulk indexing failure", zap.String("reason", reason))
	}

	metrics.DocumentsIndexedTotal.WithLabelValues("bulk", "success").Add(float64(stats.Indexed))
	metrics.DocumentsIndexedTotal.WithLabelValues("bulk", "error").Add(float64(stats.Failed))
	switch {
	case stats.Failed == 0:
		metrics.BulkChunksTotal.WithLabelValues("success").Inc()
	case stats.Indexed == 0:
		metrics.BulkChunksTotal.WithLabelValues("error").Inc()
	default:
		metrics.BulkChunksTotal.WithLabelValues("partial").Inc()
	}

	log.Info("Bulk indexing finished",
		zap.Int("indexed", stats.Indexed),
		zap.Int("failed", stats.Failed),
	)
	return stats
}

// Exists reports whether a document with the given content hash is
// already indexed.
func (s *Service) Exists(ctx context.Context, hash string) (bool, error) {
	return s.repo.Exists(ctx, hash)
}

// Get returns a stored document by ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.repo.Get(ctx, id)
}

// UpdateMetadata merges the provided fields into a stored document's
// metadata. Missing IDs fail loudly with ErrDocumentNotFound.
func (s *Service) UpdateMetadata(ctx context.Context, id string, fields map[string]any) error {
	if err := s.repo.UpdateMetadata(ctx, id, fields); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Updated document metadata",
		zap.String("id", id),
		zap.Int("fields", len(fields)),
	)
	return nil
}
