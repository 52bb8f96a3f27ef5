// motion-index-ingest is the ingestion CLI: it walks a directory of
// legal documents, classifies them and loads them into the search index.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/techjusticelab/Motion-Index/internal/config"
	"github.com/techjusticelab/Motion-Index/internal/db/opensearch"
	dbRedis "github.com/techjusticelab/Motion-Index/internal/db/redis"
	"github.com/techjusticelab/Motion-Index/internal/domain"
	logpkg "github.com/techjusticelab/Motion-Index/internal/logger"
	"github.com/techjusticelab/Motion-Index/internal/metrics"
	"github.com/techjusticelab/Motion-Index/internal/repository/classcache"
	documentrepo "github.com/techjusticelab/Motion-Index/internal/repository/document"
	openaiCls "github.com/techjusticelab/Motion-Index/internal/transport/openai"
	indexinguc "github.com/techjusticelab/Motion-Index/internal/usecase/indexing"
	processuc "github.com/techjusticelab/Motion-Index/internal/usecase/process"
	"github.com/techjusticelab/Motion-Index/internal/version"
)

var workers int

var rootCmd = &cobra.Command{
	Use:     "motion-index-ingest",
	Short:   "Load legal documents into the Motion-Index search cluster",
	Version: version.Version,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <directory>",
	Short: "Process and index every supported document under a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

var setupIndexCmd = &cobra.Command{
	Use:   "setup-index",
	Short: "Create the document index with its mapping if it does not exist",
	RunE:  runSetupIndex,
}

func init() {
	ingestCmd.Flags().IntVar(&workers, "workers", 0, "concurrent workers (default from config)")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(setupIndexCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env holds the wired services shared by the subcommands.
type env struct {
	cfg      config.Config
	logger   *zap.Logger
	cache    *dbRedis.Store
	indexing *indexinguc.Service
}

func setup() (*env, error) {
	cfg, err := config.Load(config.GetEnv())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.New(config.GetEnv(), cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	cluster, err := opensearch.NewClient(opensearch.Config{
		Addrs:    cfg.Search.Addrs,
		Username: cfg.Search.Username,
		Password: cfg.Search.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create search client: %w", err)
	}

	ctx := context.Background()
	if err := cluster.WaitForReady(ctx, time.Duration(cfg.Search.ReadinessTimeout)*time.Second); err != nil {
		return nil, fmt.Errorf("search cluster not ready: %w", err)
	}

	var cache *dbRedis.Store
	if len(cfg.Cache.Addrs) > 0 {
		cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create cache store: %w", err)
		}
	}

	metrics.RegisterPipelineMetrics()

	docRepo := documentrepo.New(cluster, cfg.Search.Index)
	indexing := indexinguc.New(docRepo, cfg.Processing.BulkChunkSize)

	return &env{cfg: cfg, logger: logger, cache: cache, indexing: indexing}, nil
}

func (e *env) close() {
	if e.cache != nil {
		e.cache.Close()
	}
	_ = e.logger.Sync()
}

// buildClassifier assembles the classifier chain: OpenAI (or the
// keyword fallback when no API key is configured) wrapped in the
// content-hash cache when a cache store is available.
func (e *env) buildClassifier() domain.Classifier {
	var cls domain.Classifier
	if e.cfg.Classifier.APIKey != "" {
		cls = openaiCls.NewClassifier(&openaiCls.Config{
			APIKey:  e.cfg.Classifier.APIKey,
			BaseURL: e.cfg.Classifier.BaseURL,
			Model:   e.cfg.Classifier.Model,
			Logger:  e.logger,
		})
	} else {
		e.logger.Warn("No classifier API key configured, using keyword classifier")
		cls = keywordClassifier{}
	}

	if e.cache != nil {
		cls = classcache.New(cls, e.cache, metrics.ClassificationCacheTotal, e.logger)
	}
	return cls
}

func runIngest(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	dir := args[0]
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	ctx := logpkg.WithContext(context.Background(), e.logger)
	e.indexing.EnsureIndex(ctx)

	w := workers
	if w <= 0 {
		w = e.cfg.Processing.MaxWorkers
	}
	svc := processuc.New(processuc.NewPlainTextExtractor(), e.buildClassifier(), e.indexing, w).
		WithBatchSize(e.cfg.Processing.BatchSize)

	cmd.Printf("Processing %s with %d workers...\n", dir, w)
	start := time.Now()
	stats, err := svc.ProcessDirectory(ctx, dir)
	if err != nil {
		return fmt.Errorf("process %s: %w", dir, err)
	}

	cmd.Printf("Done in %s: %d files, %d indexed, %d skipped, %d failed\n",
		time.Since(start).Round(time.Millisecond),
		stats.Total, stats.Indexed, stats.Skipped, stats.Failed)
	return nil
}

func runSetupIndex(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	ctx := logpkg.WithContext(context.Background(), e.logger)
	if !e.indexing.EnsureIndex(ctx) {
		return fmt.Errorf("index %s could not be created", e.cfg.Search.Index)
	}
	cmd.Printf("Index %s is ready\n", e.cfg.Search.Index)
	return nil
}

// docTypeKeywords drive the no-LLM fallback classification. First match
// in order wins, so the more specific phrases come first.
var docTypeKeywords = []struct {
	phrase  string
	docType string
}{
	{"motion to", "Motion"},
	{"notice of motion", "Motion"},
	{"petition for", "Petition"},
	{"it is hereby ordered", "Order"},
	{"order granting", "Order"},
	{"order denying", "Order"},
	{"memorandum of points", "Memorandum"},
	{"declaration of", "Declaration"},
	{"opposition to", "Opposition"},
	{"response to", "Response"},
	{"complaint", "Complaint"},
	{"affidavit", "Affidavit"},
	{"judgment", "Judgment"},
	{"transcript", "Transcript"},
	{"settlement agreement", "Settlement Agreement"},
	{"brief", "Brief"},
	{"exhibit", "Exhibit"},
	{"notice", "Notice"},
}

// keywordClassifier is the deterministic fallback used when no LLM is
// configured. It guesses the document type from characteristic phrases
// and leaves the rest of the metadata empty.
type keywordClassifier struct{}

func (keywordClassifier) Classify(_ context.Context, fileName, text string) (domain.Classification, error) {
	haystack := strings.ToLower(fileName + " " + text)
	for _, kw := range docTypeKeywords {
		if strings.Contains(haystack, kw.phrase) {
			return domain.Classification{
				DocType: kw.docType,
				Metadata: domain.Metadata{
					DocumentName: strings.TrimSuffix(fileName, filepath.Ext(fileName)),
				},
			}, nil
		}
	}
	return domain.Classification{
		DocType: "Unknown",
		Metadata: domain.Metadata{
			DocumentName: strings.TrimSuffix(fileName, filepath.Ext(fileName)),
		},
	}, nil
}
