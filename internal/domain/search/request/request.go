// Package request defines the validated search request value object.
package request

import "fmt"

// Pagination limits.
const (
	DefaultSize = 10
	MaxSize     = 100
	DefaultPage = 1
)

const (
	// SortAsc sorts ascending.
	SortAsc = "asc"
	// SortDesc sorts descending.
	SortDesc = "desc"
)

// DateRange bounds the legally significant document timestamp. Both bounds
// are optional and inclusive.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Empty reports whether neither bound is set.
func (d *DateRange) Empty() bool {
	return d == nil || (d.Start == "" && d.End == "")
}

// Request is a validated search request.
type Request struct {
	query             string
	docType           string
	metadataFilters   map[string]any
	dateRange         *DateRange
	size              int
	page              int
	sortBy            string
	sortOrder         string
	useFuzzy          bool
	legalTagsMatchAll bool
}

// New validates and normalizes search parameters. Defaults: size=10,
// page=1, sort_order=desc. Metadata filter values must be strings or
// string lists.
func New(
	query, docType string,
	metadataFilters map[string]any,
	dateRange *DateRange,
	size, page int,
	sortBy, sortOrder string,
	useFuzzy, legalTagsMatchAll bool,
) (Request, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	if page <= 0 {
		page = DefaultPage
	}
	switch sortOrder {
	case "":
		sortOrder = SortDesc
	case SortAsc, SortDesc:
	default:
		return Request{}, fmt.Errorf("sort_order must be %q or %q, got %q", SortAsc, SortDesc, sortOrder)
	}

	filters := make(map[string]any, len(metadataFilters))
	for field, value := range metadataFilters {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			if v != "" {
				filters[field] = v
			}
		case []string:
			if len(v) == 1 {
				filters[field] = v[0]
			} else if len(v) > 0 {
				filters[field] = v
			}
		default:
			return Request{}, fmt.Errorf("filter %q must be a string or string list", field)
		}
	}

	return Request{
		query:             query,
		docType:           docType,
		metadataFilters:   filters,
		dateRange:         dateRange,
		size:              size,
		page:              page,
		sortBy:            sortBy,
		sortOrder:         sortOrder,
		useFuzzy:          useFuzzy,
		legalTagsMatchAll: legalTagsMatchAll,
	}, nil
}

// Query returns the free-text query, empty for match-everything.
func (r *Request) Query() string { return r.query }

// DocType returns the exact-match document type filter.
func (r *Request) DocType() string { return r.docType }

// MetadataFilters returns the categorical filter map. Values are string or
// []string; single-element lists were collapsed to scalars at validation.
func (r *Request) MetadataFilters() map[string]any { return r.metadataFilters }

// DateRange returns the timestamp bounds, nil when absent.
func (r *Request) DateRange() *DateRange { return r.dateRange }

// Size returns the page size.
func (r *Request) Size() int { return r.size }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// From returns the result offset: (page-1) * size.
func (r *Request) From() int { return (r.page - 1) * r.size }

// SortBy returns the explicit sort field, empty for relevance order.
func (r *Request) SortBy() string { return r.sortBy }

// SortOrder returns "asc" or "desc".
func (r *Request) SortOrder() string { return r.sortOrder }

// UseFuzzy reports whether typo-tolerant matching was requested.
func (r *Request) UseFuzzy() bool { return r.useFuzzy }

// LegalTagsMatchAll reports AND (true) vs OR (false) semantics for a
// multi-valued legal_tags filter.
func (r *Request) LegalTagsMatchAll() bool { return r.legalTagsMatchAll }
