package process

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPlainText_ExtractsTxtFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "motion.txt")
	if err := os.WriteFile(path, []byte("motion to suppress evidence"), 0o600); err != nil {
		t.Fatal(err)
	}

	text, err := NewPlainTextExtractor().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "motion to suppress evidence" {
		t.Errorf("got %q", text)
	}
}

func TestPlainText_RejectsBinaryFormats(t *testing.T) {
	for _, name := range []string{"brief.pdf", "brief.docx", "brief.wpd"} {
		_, err := NewPlainTextExtractor().Extract(context.Background(), name)
		if err == nil {
			t.Errorf("%s: expected error", name)
		}
		if err != nil && !strings.Contains(err.Error(), "no text extractor") {
			t.Errorf("%s: unexpected error %v", name, err)
		}
	}
}

func TestPlainText_RejectsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.txt")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00}, 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewPlainTextExtractor().Extract(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
}
