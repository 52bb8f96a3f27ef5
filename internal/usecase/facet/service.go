// Package facet composes the aggregation reads behind filter dropdowns
// and index statistics. Court values pass through the normalizer's
// grouping so the facet list shows canonical forms only.
package facet

import (
	"context"

	"go.uber.org/zap"

	"github.com/techjusticelab/Motion-Index/internal/domain/court"
	"github.com/techjusticelab/Motion-Index/internal/logger"
)

// DefaultFieldSize is the default number of distinct values returned.
const DefaultFieldSize = 20

// MetadataFields is the set of filterable fields exposed to clients,
// with display names for UI rendering.
var MetadataFields = []FieldInfo{
	{Name: "doc_type", Label: "Document Type", Type: "keyword"},
	{Name: "case_name", Label: "Case Name", Type: "text"},
	{Name: "case_number", Label: "Case Number", Type: "keyword"},
	{Name: "court", Label: "Court", Type: "text"},
	{Name: "judge", Label: "Judge", Type: "text"},
	{Name: "author", Label: "Author", Type: "text"},
	{Name: "status", Label: "Status", Type: "keyword"},
	{Name: "legal_tags", Label: "Legal Tags", Type: "keyword"},
}

// FieldInfo describes one filterable field.
type FieldInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Stats aggregates index-wide statistics.
type Stats struct {
	TotalDocuments int64            `json:"total_documents"`
	DocumentTypes  map[string]int64 `json:"document_types"`
	LegalTags      []string         `json:"legal_tags"`
	DateRange      DateRange        `json:"date_range"`
}

// DateRange is the span of legal timestamps across the index.
type DateRange struct {
	Oldest string `json:"oldest"`
	Newest string `json:"newest"`
}

// Service handles facet and statistics reads.
type Service struct {
	repo Repository
}

// New creates a facet service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// FieldValues returns the distinct values of a field for dropdowns and
// autocomplete. Court values are over-fetched threefold, grouped into
// canonical forms and sorted alphabetically; normalization can merge
// many raw values into one, so fetching exactly size would silently
// truncate the canonical list. Other fields keep engine frequency order.
// Read failures produce an empty list, matching the search fail-open.
func (s *Service) FieldValues(ctx context.Context, field, prefix string, size int) []string {
	if size <= 0 {
		size = DefaultFieldSize
	}

	fetch := size
	if field == "court" {
		fetch = size * 3
	}

	buckets, err := s.repo.DistinctValues(ctx, field, prefix, fetch)
	if err != nil {
		logger.FromContext(ctx).Error("Facet read failed, returning empty list",
			zap.String("field", field),
			zap.Error(err),
		)
		return []string{}
	}

	values := make([]string, 0, len(buckets))
	for _, b := range buckets {
		values = append(values, b.Value)
	}

	if field == "court" {
		// GroupSimilar returns the canonical forms already sorted.
		values = court.GroupSimilar(values)
		if len(values) > size {
			values = values[:size]
		}
	}
	return values
}

// DocumentTypeCounts returns the document type histogram.
func (s *Service) DocumentTypeCounts(ctx context.Context) map[string]int64 {
	buckets, err := s.repo.DistinctValues(ctx, "doc_type", "", 100)
	if err != nil {
		logger.FromContext(ctx).Error("Document type read failed", zap.Error(err))
		return map[string]int64{}
	}

	counts := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		counts[b.Value] = b.Count
	}
	return counts
}

// LegalTagValues returns the legal tags present in the index.
func (s *Service) LegalTagValues(ctx context.Context) []string {
	return s.FieldValues(ctx, "legal_tags", "", 100)
}

// AllFieldOptions returns the distinct values of every filterable field
// in one call, for populating a full search form.
func (s *Service) AllFieldOptions(ctx context.Context) map[string][]string {
	options := make(map[string][]string, len(MetadataFields))
	for _, f := range MetadataFields {
		options[f.Name] = s.FieldValues(ctx, f.Name, "", DefaultFieldSize)
	}
	return options
}

// DocumentStats returns index-wide statistics: total count, type
// histogram, tag list and the legal-date span.
func (s *Service) DocumentStats(ctx context.Context) Stats {
	stats := Stats{
		DocumentTypes: s.DocumentTypeCounts(ctx),
		LegalTags:     s.LegalTagValues(ctx),
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("Document count failed", zap.Error(err))
	} else {
		stats.TotalDocuments = total
	}

	oldest, newest, err := s.repo.TimestampRange(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("Timestamp range failed", zap.Error(err))
	} else {
		stats.DateRange = DateRange{Oldest: oldest, Newest: newest}
	}
	return stats
}
