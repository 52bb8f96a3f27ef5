// Package search is the read-path use case: execute a document search
// and fail open on cluster errors.
package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/techjusticelab/Motion-Index/internal/domain/search/request"
	"github.com/techjusticelab/Motion-Index/internal/domain/search/result"
	"github.com/techjusticelab/Motion-Index/internal/logger"
	"github.com/techjusticelab/Motion-Index/internal/metrics"
)

// Service handles document search.
type Service struct {
	repo Repository
}

// New creates a search service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search executes the request. Execution failures never reach the
// caller: the error is logged and a deterministic empty page is returned
// instead, trading error signaling for read-path availability.
func (s *Service) Search(ctx context.Context, req *request.Request) result.Page {
	start := time.Now()

	page, err := s.repo.Search(ctx, req)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("failed_open").Inc()
		logger.FromContext(ctx).Error("Search failed, returning empty result",
			zap.String("query", req.Query()),
			zap.Error(err),
		)
		return result.Empty(req.Size(), req.From())
	}

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	return page
}
