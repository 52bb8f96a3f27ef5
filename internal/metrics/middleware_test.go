package metrics

import (
	"net/http/httptest"
	"testing"
)

func TestStatusWriter_DefaultsTo200OnBareWrite(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &statusWriter{ResponseWriter: rr, status: 200}

	if _, err := w.Write([]byte("ok")); err != nil {
		t.Fatalf("write: %v", err)
	}

	if w.status != 200 {
		t.Errorf("status = %d, want 200", w.status)
	}
	if !w.wroteHeader {
		t.Error("bare Write should mark the header as written")
	}
}

func TestStatusWriter_CapturesExplicitStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &statusWriter{ResponseWriter: rr, status: 200}

	w.WriteHeader(404)
	w.WriteHeader(500) // later calls must not overwrite the captured status

	if w.status != 404 {
		t.Errorf("status = %d, want 404", w.status)
	}
}

func TestNormalizePath(t *testing.T) {
	if got := normalizePath(""); got != "unknown" {
		t.Errorf("empty path = %q, want unknown", got)
	}
	if got := normalizePath("/search"); got != "/search" {
		t.Errorf("path = %q, want /search", got)
	}
}
