package search

import (
	"strings"

	"github.com/techjusticelab/Motion-Index/internal/domain/court"
	"github.com/techjusticelab/Motion-Index/internal/domain/search/request"
)

// Relevance field weights for the structured multi-field query. Phrase
// weights are doubled so exact phrase occurrence outranks term
// co-occurrence, which matters for precise legal terms of art.
var (
	queryFields  = []string{"text^1", "metadata.subject^2", "metadata.case_name^2", "file_name^1.5"}
	phraseFields = []string{"text^2", "metadata.subject^3", "metadata.case_name^3", "file_name^2.5"}
)

const phraseBoost = 2.0

// operatorTokens mark a query string as an advanced expression handed to
// the engine's query_string mode. Substring containment is intentional
// and matches the historical behavior ("ORDER" triggers it via "OR").
var operatorTokens = []string{"OR", "AND", `"`, "*", "~"}

// textFields are the fields mapped as analyzed text with a .keyword
// sub-field. Exact-match filters and sorts on them target the sub-field.
var textFields = map[string]bool{
	"file_name":              true,
	"metadata.document_name": true,
	"metadata.subject":       true,
	"metadata.case_name":     true,
	"metadata.author":        true,
	"metadata.judge":         true,
	"metadata.court":         true,
}

// tagOverlapScript counts how many of the requested tags a candidate
// document carries. Used with boost_mode=replace so tag-overlap richness
// becomes the ranking when OR-tag filters are active and no explicit
// sort was requested.
const tagOverlapScript = `int overlap = 0; for (tag in params.tags) { if (doc['metadata.legal_tags'].contains(tag)) { overlap++; } } return overlap;`

// Build translates a validated request into one search body. The
// construction order is fixed: text relevance, hard filters, tag-overlap
// scoring, sort, highlight.
func Build(req *request.Request) map[string]any {
	body := map[string]any{
		"size": req.Size(),
		"from": req.From(),
	}

	var must, filter []map[string]any

	if q := req.Query(); q != "" {
		must = append(must, textClauses(q, req.UseFuzzy())...)
	}
	filter = append(filter, filterClauses(req)...)
	if dr := req.DateRange(); !dr.Empty() {
		filter = append(filter, dateRangeClause(dr))
	}

	query := boolQuery(must, filter)
	if tags, ok := orTagFilter(req); ok && req.SortBy() == "" {
		query = tagOverlapQuery(query, tags)
	}
	body["query"] = query

	if sort, ok := sortClause(req.SortBy(), req.SortOrder()); ok {
		body["sort"] = sort
	}
	if req.Query() != "" {
		body["highlight"] = highlightConfig()
	}
	return body
}

// textClauses builds the relevance part of the query. Queries carrying
// operator tokens pass through as engine expressions; plain text gets
// either one fuzzy best-fields query or an exact pair of best-fields AND
// phrase queries.
func textClauses(query string, fuzzy bool) []map[string]any {
	if hasOperators(query) {
		return []map[string]any{{
			"query_string": map[string]any{
				"query":                  query,
				"fields":                 queryFields,
				"default_operator":       "AND",
				"analyze_wildcard":       true,
				"allow_leading_wildcard": true,
			},
		}}
	}

	if fuzzy {
		return []map[string]any{{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    queryFields,
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		}}
	}

	return []map[string]any{
		{
			"multi_match": map[string]any{
				"query":    query,
				"fields":   queryFields,
				"type":     "best_fields",
				"operator": "AND",
			},
		},
		{
			"multi_match": map[string]any{
				"query":  query,
				"fields": phraseFields,
				"type":   "phrase",
				"boost":  phraseBoost,
			},
		},
	}
}

func hasOperators(query string) bool {
	for _, op := range operatorTokens {
		if strings.Contains(query, op) {
			return true
		}
	}
	return false
}

// filterClauses builds the hard filters: doc_type plus the per-field
// metadata filter dispatch. Filters restrict the result set without
// affecting relevance.
func filterClauses(req *request.Request) []map[string]any {
	var filters []map[string]any

	if dt := req.DocType(); dt != "" {
		filters = append(filters, term("doc_type", dt))
	}

	for field, value := range req.MetadataFilters() {
		build, ok := fieldStrategies[field]
		if !ok {
			build = genericFilter
		}
		filters = append(filters, build(req, field, value)...)
	}
	return filters
}

// fieldStrategies dispatches filter construction per field. Fields not
// listed here get the generic term/terms treatment.
var fieldStrategies = map[string]func(req *request.Request, field string, value any) []map[string]any{
	"legal_tags": legalTagsFilter,
	"court":      courtFilter,
	"judge":      judgeFilter,
}

// legalTagsFilter implements tag set semantics: match-all emits one term
// filter per tag (AND); otherwise a list becomes a single any-of terms
// filter. A scalar is a plain term filter either way.
func legalTagsFilter(req *request.Request, _ string, value any) []map[string]any {
	const field = "metadata.legal_tags"
	switch v := value.(type) {
	case string:
		return []map[string]any{term(field, v)}
	case []string:
		if req.LegalTagsMatchAll() {
			filters := make([]map[string]any, 0, len(v))
			for _, tag := range v {
				filters = append(filters, term(field, tag))
			}
			return filters
		}
		return []map[string]any{{"terms": map[string]any{field: v}}}
	default:
		return nil
	}
}

// courtFilter normalizes the requested value and matches any of the
// normalized form, the original raw form, and a loose token match on the
// normalized form. Index entries written before normalization existed
// still match.
func courtFilter(_ *request.Request, _ string, value any) []map[string]any {
	var should []map[string]any
	for _, raw := range valueList(value) {
		normalized := court.Normalize(raw)
		should = append(should,
			term("metadata.court.keyword", normalized),
			term("metadata.court.keyword", raw),
			looseMatch("metadata.court", normalized),
		)
	}
	if should == nil {
		return nil
	}
	return []map[string]any{anyOf(should)}
}

// judgeFilter matches exact plus loose token form without normalization,
// tolerating formatting differences such as trailing titles.
func judgeFilter(_ *request.Request, _ string, value any) []map[string]any {
	var should []map[string]any
	for _, raw := range valueList(value) {
		should = append(should,
			term("metadata.judge.keyword", raw),
			looseMatch("metadata.judge", raw),
		)
	}
	if should == nil {
		return nil
	}
	return []map[string]any{anyOf(should)}
}

// genericFilter is the fallback: scalar value exact-term, list any-of.
func genericFilter(_ *request.Request, field string, value any) []map[string]any {
	target := exactField("metadata." + field)
	switch v := value.(type) {
	case string:
		return []map[string]any{term(target, v)}
	case []string:
		return []map[string]any{{"terms": map[string]any{target: v}}}
	default:
		return nil
	}
}

func dateRangeClause(dr *request.DateRange) map[string]any {
	bounds := map[string]any{}
	if dr.Start != "" {
		bounds["gte"] = dr.Start
	}
	if dr.End != "" {
		bounds["lte"] = dr.End
	}
	return map[string]any{"range": map[string]any{"metadata.timestamp": bounds}}
}

func boolQuery(must, filter []map[string]any) map[string]any {
	if len(must) == 0 && len(filter) == 0 {
		return map[string]any{"match_all": map[string]any{}}
	}

	clauses := map[string]any{}
	if len(must) > 0 {
		clauses["must"] = must
	}
	if len(filter) > 0 {
		clauses["filter"] = filter
	}
	return map[string]any{"bool": clauses}
}

// orTagFilter reports whether the request carries a multi-valued
// legal_tags filter with OR semantics, returning the tags.
func orTagFilter(req *request.Request) ([]string, bool) {
	if req.LegalTagsMatchAll() {
		return nil, false
	}
	tags, ok := req.MetadataFilters()["legal_tags"].([]string)
	if !ok || len(tags) < 2 {
		return nil, false
	}
	return tags, true
}

// tagOverlapQuery replaces the relevance score with the count of
// requested tags present on each document, so OR-tag results are ordered
// by overlap richness.
func tagOverlapQuery(base map[string]any, tags []string) map[string]any {
	return map[string]any{
		"function_score": map[string]any{
			"query": base,
			"script_score": map[string]any{
				"script": map[string]any{
					"source": tagOverlapScript,
					"params": map[string]any{"tags": tags},
				},
			},
			"boost_mode": "replace",
		},
	}
}

// sortClause resolves the sort field. "created_at" is redirected to the
// legal timestamp because ingestion time is not a meaningful ordering
// for legal documents; analyzed text fields sort on their .keyword form.
func sortClause(sortBy, order string) ([]map[string]any, bool) {
	if sortBy == "" {
		return nil, false
	}
	field := sortBy
	if field == "created_at" {
		field = "metadata.timestamp"
	}
	field = exactField(field)
	return []map[string]any{{field: map[string]any{"order": order}}}, true
}

// exactField returns the exact-match form of a field: analyzed text
// fields get their .keyword sub-field, everything else is used as-is.
func exactField(field string) string {
	if strings.HasSuffix(field, ".keyword") {
		return field
	}
	if textFields[field] {
		return field + ".keyword"
	}
	return field
}

func highlightConfig() map[string]any {
	return map[string]any{
		"fields": map[string]any{
			"text": map[string]any{
				"fragment_size":       150,
				"number_of_fragments": 3,
				"pre_tags":            []string{"<strong>"},
				"post_tags":           []string{"</strong>"},
			},
			"metadata.subject": map[string]any{
				"fragment_size":       150,
				"number_of_fragments": 1,
				"pre_tags":            []string{"<strong>"},
				"post_tags":           []string{"</strong>"},
			},
		},
	}
}

func term(field string, value any) map[string]any {
	return map[string]any{"term": map[string]any{field: value}}
}

func looseMatch(field, value string) map[string]any {
	return map[string]any{
		"match": map[string]any{
			field: map[string]any{"query": value, "operator": "and"},
		},
	}
}

func anyOf(should []map[string]any) map[string]any {
	return map[string]any{
		"bool": map[string]any{
			"should":               should,
			"minimum_should_match": 1,
		},
	}
}

func valueList(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	default:
		return nil
	}
}
