package search

import (
	"testing"

	"github.com/techjusticelab/Motion-Index/internal/domain/search/request"
)

func mustRequest(
	t *testing.T,
	query, docType string,
	filters map[string]any,
	dateRange *request.DateRange,
	size, page int,
	sortBy, sortOrder string,
	fuzzy, matchAll bool,
) *request.Request {
	t.Helper()
	req, err := request.New(query, docType, filters, dateRange, size, page, sortBy, sortOrder, fuzzy, matchAll)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return &req
}

func boolClauses(t *testing.T, body map[string]any) (must, filter []map[string]any) {
	t.Helper()
	q, ok := body["query"].(map[string]any)
	if !ok {
		t.Fatalf("body has no query: %v", body)
	}
	b, ok := q["bool"].(map[string]any)
	if !ok {
		t.Fatalf("query is not bool: %v", q)
	}
	if m, ok := b["must"].([]map[string]any); ok {
		must = m
	}
	if f, ok := b["filter"].([]map[string]any); ok {
		filter = f
	}
	return must, filter
}

func TestBuildMatchAllWhenEmpty(t *testing.T) {
	req := mustRequest(t, "", "", nil, nil, 10, 1, "", "", false, false)
	body := Build(req)

	q := body["query"].(map[string]any)
	if _, ok := q["match_all"]; !ok {
		t.Errorf("expected match_all, got %v", q)
	}
	if body["size"] != 10 || body["from"] != 0 {
		t.Errorf("paging = %v/%v", body["size"], body["from"])
	}
	if _, ok := body["highlight"]; ok {
		t.Error("no highlight expected without a query")
	}
}

func TestBuildPagination(t *testing.T) {
	req := mustRequest(t, "", "", nil, nil, 10, 3, "", "", false, false)
	body := Build(req)

	if body["from"] != 20 {
		t.Errorf("from = %v, want 20", body["from"])
	}
}

func TestBuildExactTextQueryPairsPhraseClause(t *testing.T) {
	req := mustRequest(t, "motion to suppress", "", nil, nil, 10, 1, "", "", false, false)
	body := Build(req)

	must, _ := boolClauses(t, body)
	if len(must) != 2 {
		t.Fatalf("must clauses = %d, want 2", len(must))
	}

	best := must[0]["multi_match"].(map[string]any)
	if best["type"] != "best_fields" || best["operator"] != "AND" {
		t.Errorf("first clause = %v", best)
	}
	if _, ok := best["fuzziness"]; ok {
		t.Error("non-fuzzy query must not carry fuzziness")
	}

	phrase := must[1]["multi_match"].(map[string]any)
	if phrase["type"] != "phrase" || phrase["boost"] != phraseBoost {
		t.Errorf("second clause = %v", phrase)
	}
	fields := phrase["fields"].([]string)
	if fields[0] != "text^2" {
		t.Errorf("phrase weights not doubled: %v", fields)
	}
}

func TestBuildFuzzyTextQuery(t *testing.T) {
	req := mustRequest(t, "suppress", "", nil, nil, 10, 1, "", "", true, false)
	body := Build(req)

	must, _ := boolClauses(t, body)
	if len(must) != 1 {
		t.Fatalf("must clauses = %d, want 1", len(must))
	}
	mm := must[0]["multi_match"].(map[string]any)
	if mm["fuzziness"] != "AUTO" {
		t.Errorf("expected AUTO fuzziness, got %v", mm)
	}
}

func TestBuildOperatorQueryUsesQueryString(t *testing.T) {
	for _, q := range []string{`"motion to suppress"`, "dui AND suppress", "suppr*", "ORDER granting"} {
		req := mustRequest(t, q, "", nil, nil, 10, 1, "", "", false, false)
		body := Build(req)

		must, _ := boolClauses(t, body)
		if len(must) != 1 {
			t.Fatalf("%q: must clauses = %d, want 1", q, len(must))
		}
		qs, ok := must[0]["query_string"].(map[string]any)
		if !ok {
			t.Fatalf("%q: expected query_string, got %v", q, must[0])
		}
		if qs["default_operator"] != "AND" || qs["allow_leading_wildcard"] != true {
			t.Errorf("%q: query_string config = %v", q, qs)
		}
	}
}

func TestBuildDocTypeFilter(t *testing.T) {
	req := mustRequest(t, "", "Motion", nil, nil, 10, 1, "", "", false, false)
	body := Build(req)

	_, filter := boolClauses(t, body)
	if len(filter) != 1 {
		t.Fatalf("filters = %d, want 1", len(filter))
	}
	tq := filter[0]["term"].(map[string]any)
	if tq["doc_type"] != "Motion" {
		t.Errorf("term = %v", tq)
	}
}

func TestBuildLegalTagsMatchAll(t *testing.T) {
	filters := map[string]any{"legal_tags": []string{"DUI", "Appeal"}}
	req := mustRequest(t, "", "", filters, nil, 10, 1, "", "", false, true)
	body := Build(req)

	_, filter := boolClauses(t, body)
	if len(filter) != 2 {
		t.Fatalf("filters = %d, want one term per tag", len(filter))
	}
	for i, want := range []string{"DUI", "Appeal"} {
		tq := filter[i]["term"].(map[string]any)
		if tq["metadata.legal_tags"] != want {
			t.Errorf("filter %d = %v, want %s", i, tq, want)
		}
	}
	if _, ok := body["query"].(map[string]any)["function_score"]; ok {
		t.Error("match-all tags must not use function_score")
	}
}

func TestBuildLegalTagsAnyOfWithOverlapScoring(t *testing.T) {
	filters := map[string]any{"legal_tags": []string{"DUI", "Appeal"}}
	req := mustRequest(t, "", "", filters, nil, 10, 1, "", "", false, false)
	body := Build(req)

	fs, ok := body["query"].(map[string]any)["function_score"].(map[string]any)
	if !ok {
		t.Fatalf("expected function_score wrapper, got %v", body["query"])
	}
	if fs["boost_mode"] != "replace" {
		t.Errorf("boost_mode = %v, want replace", fs["boost_mode"])
	}

	script := fs["script_score"].(map[string]any)["script"].(map[string]any)
	params := script["params"].(map[string]any)
	tags := params["tags"].([]string)
	if len(tags) != 2 {
		t.Errorf("script tags = %v", tags)
	}

	inner := fs["query"].(map[string]any)
	b := inner["bool"].(map[string]any)
	filter := b["filter"].([]map[string]any)
	if len(filter) != 1 {
		t.Fatalf("inner filters = %d, want 1", len(filter))
	}
	terms := filter[0]["terms"].(map[string]any)
	if got := terms["metadata.legal_tags"].([]string); len(got) != 2 {
		t.Errorf("terms = %v", got)
	}
}

func TestBuildLegalTagsScalar(t *testing.T) {
	filters := map[string]any{"legal_tags": "DUI"}
	req := mustRequest(t, "", "", filters, nil, 10, 1, "", "", false, false)
	body := Build(req)

	_, filter := boolClauses(t, body)
	if len(filter) != 1 {
		t.Fatalf("filters = %d, want 1", len(filter))
	}
	tq := filter[0]["term"].(map[string]any)
	if tq["metadata.legal_tags"] != "DUI" {
		t.Errorf("term = %v", tq)
	}
}

func TestBuildSingleElementTagListBehavesAsScalar(t *testing.T) {
	filters := map[string]any{"legal_tags": []string{"DUI"}}
	req := mustRequest(t, "", "", filters, nil, 10, 1, "", "", false, false)
	body := Build(req)

	if _, ok := body["query"].(map[string]any)["function_score"]; ok {
		t.Error("single tag must not trigger overlap scoring")
	}
	_, filter := boolClauses(t, body)
	tq, ok := filter[0]["term"].(map[string]any)
	if !ok || tq["metadata.legal_tags"] != "DUI" {
		t.Errorf("filter = %v", filter[0])
	}
}

func TestBuildExplicitSortSuppressesOverlapScoring(t *testing.T) {
	filters := map[string]any{"legal_tags": []string{"DUI", "Appeal"}}
	req := mustRequest(t, "", "", filters, nil, 10, 1, "metadata.timestamp", "asc", false, false)
	body := Build(req)

	if _, ok := body["query"].(map[string]any)["function_score"]; ok {
		t.Error("explicit sort must suppress function_score")
	}
}

func TestBuildCourtFilterMultiForm(t *testing.T) {
	filters := map[string]any{"court": "SUPERIOR COURT OF THE STATE OF CALIFORNIA, COUNTY OF ALAMEDA"}
	req := mustRequest(t, "", "", filters, nil, 10, 1, "", "", false, false)
	body := Build(req)

	_, filter := boolClauses(t, body)
	if len(filter) != 1 {
		t.Fatalf("filters = %d, want 1", len(filter))
	}
	b := filter[0]["bool"].(map[string]any)
	should := b["should"].([]map[string]any)
	if len(should) != 3 {
		t.Fatalf("should clauses = %d, want 3", len(should))
	}
	if b["minimum_should_match"] != 1 {
		t.Errorf("minimum_should_match = %v", b["minimum_should_match"])
	}

	normalized := "Superior Court of California, County of Alameda"
	t0 := should[0]["term"].(map[string]any)
	if t0["metadata.court.keyword"] != normalized {
		t.Errorf("normalized term = %v", t0)
	}
	t1 := should[1]["term"].(map[string]any)
	if t1["metadata.court.keyword"] != filters["court"] {
		t.Errorf("raw term = %v", t1)
	}
	m := should[2]["match"].(map[string]any)["metadata.court"].(map[string]any)
	if m["query"] != normalized || m["operator"] != "and" {
		t.Errorf("loose match = %v", m)
	}
}

func TestBuildJudgeFilterSkipsNormalization(t *testing.T) {
	filters := map[string]any{"judge": "Hon. Maria Lopez"}
	req := mustRequest(t, "", "", filters, nil, 10, 1, "", "", false, false)
	body := Build(req)

	_, filter := boolClauses(t, body)
	should := filter[0]["bool"].(map[string]any)["should"].([]map[string]any)
	if len(should) != 2 {
		t.Fatalf("should clauses = %d, want 2", len(should))
	}
	t0 := should[0]["term"].(map[string]any)
	if t0["metadata.judge.keyword"] != "Hon. Maria Lopez" {
		t.Errorf("exact term = %v", t0)
	}
}

func TestBuildGenericFilters(t *testing.T) {
	filters := map[string]any{
		"status": "Granted",
		"author": "Jane Roe",
	}
	req := mustRequest(t, "", "", filters, nil, 10, 1, "", "", false, false)
	body := Build(req)

	_, filter := boolClauses(t, body)
	if len(filter) != 2 {
		t.Fatalf("filters = %d, want 2", len(filter))
	}

	seen := map[string]bool{}
	for _, f := range filter {
		for field := range f["term"].(map[string]any) {
			seen[field] = true
		}
	}
	// status is keyword-mapped, author is analyzed text.
	if !seen["metadata.status"] || !seen["metadata.author.keyword"] {
		t.Errorf("term fields = %v", seen)
	}
}

func TestBuildGenericListFilter(t *testing.T) {
	filters := map[string]any{"case_number": []string{"CR-1", "CR-2"}}
	req := mustRequest(t, "", "", filters, nil, 10, 1, "", "", false, false)
	body := Build(req)

	_, filter := boolClauses(t, body)
	terms := filter[0]["terms"].(map[string]any)
	if got := terms["metadata.case_number"].([]string); len(got) != 2 {
		t.Errorf("terms = %v", got)
	}
}

func TestBuildDateRangeInclusive(t *testing.T) {
	dr := &request.DateRange{Start: "2023-01-01", End: "2023-12-31"}
	req := mustRequest(t, "", "", nil, dr, 10, 1, "", "", false, false)
	body := Build(req)

	_, filter := boolClauses(t, body)
	bounds := filter[0]["range"].(map[string]any)["metadata.timestamp"].(map[string]any)
	if bounds["gte"] != "2023-01-01" || bounds["lte"] != "2023-12-31" {
		t.Errorf("bounds = %v", bounds)
	}
}

func TestBuildDateRangeOpenEnded(t *testing.T) {
	dr := &request.DateRange{Start: "2023-01-01"}
	req := mustRequest(t, "", "", nil, dr, 10, 1, "", "", false, false)
	body := Build(req)

	_, filter := boolClauses(t, body)
	bounds := filter[0]["range"].(map[string]any)["metadata.timestamp"].(map[string]any)
	if _, ok := bounds["lte"]; ok {
		t.Errorf("unexpected upper bound: %v", bounds)
	}
	if bounds["gte"] != "2023-01-01" {
		t.Errorf("bounds = %v", bounds)
	}
}

func TestBuildSortRedirectsCreatedAt(t *testing.T) {
	req := mustRequest(t, "", "", nil, nil, 10, 1, "created_at", "asc", false, false)
	body := Build(req)

	sort := body["sort"].([]map[string]any)
	spec, ok := sort[0]["metadata.timestamp"].(map[string]any)
	if !ok {
		t.Fatalf("sort = %v, want metadata.timestamp", sort[0])
	}
	if spec["order"] != "asc" {
		t.Errorf("order = %v", spec["order"])
	}
}

func TestBuildSortAppendsKeywordForTextFields(t *testing.T) {
	req := mustRequest(t, "", "", nil, nil, 10, 1, "metadata.case_name", "desc", false, false)
	body := Build(req)

	sort := body["sort"].([]map[string]any)
	if _, ok := sort[0]["metadata.case_name.keyword"]; !ok {
		t.Errorf("sort = %v, want .keyword variant", sort[0])
	}
}

func TestBuildSortKeepsExplicitKeywordAndNonTextFields(t *testing.T) {
	for _, field := range []string{"metadata.case_name.keyword", "metadata.timestamp", "chunk_id"} {
		req := mustRequest(t, "", "", nil, nil, 10, 1, field, "desc", false, false)
		body := Build(req)

		sort := body["sort"].([]map[string]any)
		if _, ok := sort[0][field]; !ok {
			t.Errorf("sort for %s = %v", field, sort[0])
		}
	}
}

func TestBuildHighlightWithQuery(t *testing.T) {
	req := mustRequest(t, "suppress", "", nil, nil, 10, 1, "", "", false, false)
	body := Build(req)

	hl, ok := body["highlight"].(map[string]any)
	if !ok {
		t.Fatal("expected highlight config")
	}
	fields := hl["fields"].(map[string]any)
	text := fields["text"].(map[string]any)
	if text["fragment_size"] != 150 || text["number_of_fragments"] != 3 {
		t.Errorf("text highlight = %v", text)
	}
	subject := fields["metadata.subject"].(map[string]any)
	if subject["number_of_fragments"] != 1 {
		t.Errorf("subject highlight = %v", subject)
	}
}
