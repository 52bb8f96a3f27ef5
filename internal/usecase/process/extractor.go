package process

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/techjusticelab/Motion-Index/internal/domain"
)

// PlainText extracts text from files that already are text. Binary
// formats (PDF, Word, WordPerfect) need a real extraction backend and
// are rejected here.
type PlainText struct{}

// NewPlainTextExtractor creates the plain-text extractor.
func NewPlainTextExtractor() *PlainText {
	return &PlainText{}
}

// Extract reads a .txt file as UTF-8 text.
func (e *PlainText) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".txt" {
		return "", fmt.Errorf("%w: no text extractor for %s files", domain.ErrUnsupportedFormat, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s is not valid UTF-8 text", path)
	}
	return string(data), nil
}
