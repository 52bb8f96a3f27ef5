package classcache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/techjusticelab/Motion-Index/internal/db"
	"github.com/techjusticelab/Motion-Index/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

type mockClassifier struct {
	classifyFn func(ctx context.Context, fileName, text string) (domain.Classification, error)
	calls      int
}

func (m *mockClassifier) Classify(
	ctx context.Context, fileName, text string,
) (domain.Classification, error) {
	m.calls++
	if m.classifyFn != nil {
		return m.classifyFn(ctx, fileName, text)
	}
	return domain.Classification{DocType: "Motion"}, nil
}

func TestClassifyCacheMissCallsInnerAndStores(t *testing.T) {
	ms := &mockStore{}
	inner := &mockClassifier{}

	var storedKey string
	var storedValue []byte
	ms.setFn = func(ctx context.Context, key string, value []byte) error {
		storedKey = key
		storedValue = value
		return nil
	}

	c := New(inner, ms, nil, zap.NewNop())
	cls, err := c.Classify(context.Background(), "motion.pdf", "motion to suppress")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.DocType != "Motion" || inner.calls != 1 {
		t.Errorf("cls = %+v, calls = %d", cls, inner.calls)
	}
	if storedKey == "" || len(storedValue) == 0 {
		t.Error("expected classification to be cached")
	}

	var roundtrip domain.Classification
	if err := json.Unmarshal(storedValue, &roundtrip); err != nil {
		t.Fatalf("cached value not JSON: %v", err)
	}
	if roundtrip.DocType != "Motion" {
		t.Errorf("cached doc_type = %q", roundtrip.DocType)
	}
}

func TestClassifyCacheHitSkipsInner(t *testing.T) {
	ms := &mockStore{}
	inner := &mockClassifier{}

	cached, _ := json.Marshal(domain.Classification{DocType: "Order"})
	ms.getFn = func(ctx context.Context, key string) ([]byte, error) {
		return cached, nil
	}

	c := New(inner, ms, nil, zap.NewNop())
	cls, err := c.Classify(context.Background(), "order.pdf", "order granting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.DocType != "Order" {
		t.Errorf("doc_type = %q, want Order", cls.DocType)
	}
	if inner.calls != 0 {
		t.Errorf("inner called %d times on a hit", inner.calls)
	}
}

func TestClassifySameTextSameKey(t *testing.T) {
	ms := &mockStore{}
	inner := &mockClassifier{}

	var keys []string
	ms.setFn = func(ctx context.Context, key string, value []byte) error {
		keys = append(keys, key)
		return nil
	}

	c := New(inner, ms, nil, zap.NewNop())
	for _, name := range []string{"a.pdf", "b.pdf"} {
		if _, err := c.Classify(context.Background(), name, "identical text"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(keys) != 2 || keys[0] != keys[1] {
		t.Errorf("keys = %v, want identical", keys)
	}
}

func TestClassifyCacheErrorsAreMisses(t *testing.T) {
	ms := &mockStore{}
	inner := &mockClassifier{}

	ms.getFn = func(ctx context.Context, key string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}
	ms.setFn = func(ctx context.Context, key string, value []byte) error {
		return errors.New("connection refused")
	}

	c := New(inner, ms, nil, zap.NewNop())
	cls, err := c.Classify(context.Background(), "motion.pdf", "text")
	if err != nil {
		t.Fatalf("cache failure must not fail classification: %v", err)
	}
	if cls.DocType != "Motion" || inner.calls != 1 {
		t.Errorf("cls = %+v, calls = %d", cls, inner.calls)
	}
}

func TestClassifyInnerErrorPropagates(t *testing.T) {
	ms := &mockStore{}
	inner := &mockClassifier{
		classifyFn: func(ctx context.Context, fileName, text string) (domain.Classification, error) {
			return domain.Classification{}, domain.ErrClassifier
		},
	}

	c := New(inner, ms, nil, zap.NewNop())
	_, err := c.Classify(context.Background(), "motion.pdf", "text")
	if !errors.Is(err, domain.ErrClassifier) {
		t.Errorf("expected ErrClassifier, got %v", err)
	}
}
