package motionindex

import (
	"context"
	"fmt"

	"github.com/techjusticelab/Motion-Index/internal/domain/search/request"
	"github.com/techjusticelab/Motion-Index/internal/domain/search/result"
)

type searcher interface {
	Search(ctx context.Context, req *request.Request) result.Page
}

// SearchQuery is a fluent builder for search requests.
type SearchQuery struct {
	svc searcher

	query     string
	docType   string
	filters   map[string]any
	dateRange *request.DateRange
	size      int
	page      int
	sortBy    string
	sortOrder string
	fuzzy     bool
	matchAll  bool
}

// Query sets the free-text query. Empty matches everything.
func (q *SearchQuery) Query(text string) *SearchQuery {
	q.query = text
	return q
}

// DocType filters by exact document type.
func (q *SearchQuery) DocType(docType string) *SearchQuery {
	q.docType = docType
	return q
}

// Where adds a metadata filter. value must be a string or []string.
func (q *SearchQuery) Where(field string, value any) *SearchQuery {
	if q.filters == nil {
		q.filters = make(map[string]any)
	}
	q.filters[field] = value
	return q
}

// Between bounds the legally significant document date, inclusive.
// Empty strings leave the corresponding side open.
func (q *SearchQuery) Between(start, end string) *SearchQuery {
	q.dateRange = &request.DateRange{Start: start, End: end}
	return q
}

// Size sets the page size.
func (q *SearchQuery) Size(n int) *SearchQuery {
	q.size = n
	return q
}

// Page sets the 1-based page number.
func (q *SearchQuery) Page(n int) *SearchQuery {
	q.page = n
	return q
}

// SortBy sets an explicit sort field and order ("asc" or "desc").
func (q *SearchQuery) SortBy(field, order string) *SearchQuery {
	q.sortBy = field
	q.sortOrder = order
	return q
}

// Fuzzy enables typo-tolerant matching.
func (q *SearchQuery) Fuzzy() *SearchQuery {
	q.fuzzy = true
	return q
}

// MatchAllTags requires documents to carry every filtered legal tag
// instead of any of them.
func (q *SearchQuery) MatchAllTags() *SearchQuery {
	q.matchAll = true
	return q
}

// Do executes the search.
func (q *SearchQuery) Do(ctx context.Context) (result.Page, error) {
	req, err := request.New(
		q.query, q.docType, q.filters, q.dateRange,
		q.size, q.page, q.sortBy, q.sortOrder,
		q.fuzzy, q.matchAll,
	)
	if err != nil {
		return result.Page{}, fmt.Errorf("motionindex: invalid search: %w", err)
	}
	return q.svc.Search(ctx, &req), nil
}
