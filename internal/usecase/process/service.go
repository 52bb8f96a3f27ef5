// Package process drives the ingestion pipeline: walk a directory,
// extract and classify each supported file, index the result.
// Files → channel → N workers → extract → classify → index.
package process

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/techjusticelab/Motion-Index/internal/domain"
	"github.com/techjusticelab/Motion-Index/internal/domain/legaltag"
	"github.com/techjusticelab/Motion-Index/internal/logger"
)

// DefaultMaxWorkers bounds pipeline concurrency when unconfigured.
const DefaultMaxWorkers = 4

// DefaultBatchSize is how many documents a worker accumulates before
// flushing them through a bulk write.
const DefaultBatchSize = 100

// extensionCategories maps a supported file extension to its
// format-derived category. Files with other extensions are ignored.
var extensionCategories = map[string]string{
	".pdf":  "PDF Document",
	".docx": "Word Document",
	".doc":  "Word Document",
	".wpd":  "WordPerfect Document",
	".wp":   "WordPerfect Document",
	".wp5":  "WordPerfect Document",
	".txt":  "Text Document",
	".mot":  "Motion",
	".mtn":  "Motion",
	".pet":  "Petition",
	".sup":  "Supplement",
	".ord":  "Order",
	".rep":  "Report",
	".ppt":  "Presentation",
	".pptx": "Presentation",
}

// Stats are the totals of one processing run. Each run returns its own
// value; nothing is accumulated across runs.
type Stats struct {
	Total   int
	Indexed int
	Skipped int
	Failed  int
}

// Service orchestrates file processing.
type Service struct {
	extractor  Extractor
	classifier domain.Classifier
	indexer    Indexer
	workers    int
	batchSize  int
}

// New creates a processing service. workers bounds concurrency; zero
// means DefaultMaxWorkers.
func New(extractor Extractor, classifier domain.Classifier, indexer Indexer, workers int) *Service {
	if workers <= 0 {
		workers = DefaultMaxWorkers
	}
	return &Service{
		extractor:  extractor,
		classifier: classifier,
		indexer:    indexer,
		workers:    workers,
		batchSize:  DefaultBatchSize,
	}
}

// WithBatchSize overrides how many documents each worker accumulates
// before a bulk flush. Non-positive values keep the default.
func (s *Service) WithBatchSize(n int) *Service {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

// ProcessDirectory walks dir recursively, processing every supported
// file through a worker pool. Each worker accumulates documents into a
// batch and flushes it through a bulk write when full, and once more
// when its share of files is drained. Per-file failures are counted and
// logged, never aborting the run. The walk error is the only fatal
// condition.
func (s *Service) ProcessDirectory(ctx context.Context, dir string) (Stats, error) {
	paths, err := collectFiles(dir)
	if err != nil {
		return Stats{}, err
	}

	files := make(chan string, s.workers*2)
	var wg sync.WaitGroup
	var indexed, skipped, failed atomic.Int64

	flush := func(batch []*domain.Document) {
		if len(batch) == 0 {
			return
		}
		stats := s.indexer.BulkIndex(ctx, batch)
		indexed.Add(int64(stats.Indexed))
		failed.Add(int64(stats.Failed))
	}

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batch := make([]*domain.Document, 0, s.batchSize)
			for path := range files {
				doc, err := s.buildDocument(ctx, path)
				if err != nil {
					logger.FromContext(ctx).Warn("Failed to process file",
						zap.String("path", path),
						zap.Error(err),
					)
					failed.Add(1)
					continue
				}
				if doc == nil {
					skipped.Add(1)
					continue
				}
				batch = append(batch, doc)
				if len(batch) >= s.batchSize {
					flush(batch)
					batch = batch[:0]
				}
			}
			flush(batch)
		}()
	}

	for _, path := range paths {
		select {
		case <-ctx.Done():
			close(files)
			wg.Wait()
			return Stats{}, ctx.Err()
		case files <- path:
		}
	}
	close(files)
	wg.Wait()

	return Stats{
		Total:   len(paths),
		Indexed: int(indexed.Load()),
		Skipped: int(skipped.Load()),
		Failed:  int(failed.Load()),
	}, nil
}

// ProcessFile runs the pipeline for a single file and returns the
// assigned document ID. Empty ID with nil error means the file was
// already indexed and skipped.
func (s *Service) ProcessFile(ctx context.Context, path string) (string, error) {
	doc, err := s.buildDocument(ctx, path)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", nil
	}
	return s.indexer.Index(ctx, doc)
}

// buildDocument extracts and classifies one file into a document ready
// for indexing. A nil document with nil error means the file's content
// is already indexed.
func (s *Service) buildDocument(ctx context.Context, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	hash := domain.HashBytes(data)
	if exists, err := s.indexer.Exists(ctx, hash); err == nil && exists {
		logger.FromContext(ctx).Debug("Skipping already indexed file", zap.String("path", path))
		return nil, nil
	}

	text, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	cls, err := s.classifier.Classify(ctx, filepath.Base(path), text)
	if err != nil {
		return nil, err
	}

	meta := cls.Metadata
	meta.LegalTags = legaltag.ValidateTags(meta.LegalTags)

	doc := domain.NewDocument(path, text, meta)
	doc.DocType = domain.NormalizeDocType(cls.DocType)
	doc.Category = extensionCategories[strings.ToLower(filepath.Ext(path))]
	doc.Hash = hash

	return doc, nil
}

// collectFiles walks dir and returns the supported files in walk order.
func collectFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := extensionCategories[strings.ToLower(filepath.Ext(path))]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
