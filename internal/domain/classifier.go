package domain

import (
	"context"
	"strings"
)

// DocumentTypes is the closed set of classification labels. Classifier
// output outside this set collapses to "Unknown".
var DocumentTypes = []string{
	"Motion",
	"Petition",
	"Order",
	"Brief",
	"Report",
	"Exhibit",
	"Memorandum",
	"Response",
	"Opposition",
	"Complaint",
	"Answer",
	"Discovery Request",
	"Discovery Response",
	"Notice",
	"Declaration",
	"Affidavit",
	"Judgment",
	"Transcript",
	"Settlement Agreement",
	"Unknown",
}

// NormalizeDocType maps a raw classifier label onto the closed set,
// case-insensitively. Anything unrecognized becomes "Unknown".
func NormalizeDocType(raw string) string {
	for _, dt := range DocumentTypes {
		if strings.EqualFold(strings.TrimSpace(raw), dt) {
			return dt
		}
	}
	return "Unknown"
}

// Classification is the structured result of classifying one document.
type Classification struct {
	DocType  string   `json:"doc_type"`
	Metadata Metadata `json:"metadata"`
}

// Classifier turns extracted document text into structured metadata.
// Implemented by the language-model transport; treated as opaque here.
type Classifier interface {
	Classify(ctx context.Context, fileName, text string) (Classification, error)
}
