// Package result defines the stable search response contract.
package result

// Hit is a single matched document: its stored fields as returned by the
// engine plus optional highlight fragments per field.
type Hit struct {
	Source    map[string]any      `json:"-"`
	Highlight map[string][]string `json:"-"`
}

// Flatten merges the highlight map into the source document under the
// "highlight" key, matching the wire contract.
func (h Hit) Flatten() map[string]any {
	if len(h.Highlight) == 0 {
		return h.Source
	}
	doc := make(map[string]any, len(h.Source)+1)
	for k, v := range h.Source {
		doc[k] = v
	}
	doc["highlight"] = h.Highlight
	return doc
}

// Page is the reshaped search response. Engine-assigned hit order is
// preserved.
type Page struct {
	Total    int64 `json:"total"`
	Hits     []Hit `json:"hits"`
	PageSize int   `json:"page_size"`
	From     int   `json:"from"`
}

// Empty returns the deterministic zero-result page used by the fail-open
// search path.
func Empty(pageSize, from int) Page {
	return Page{Total: 0, Hits: []Hit{}, PageSize: pageSize, From: from}
}
