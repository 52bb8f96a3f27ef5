// Package motionindex is the embedded SDK: it wires the search cluster,
// repositories and services into a single client for programs that want
// to index and query legal documents without running the HTTP server.
package motionindex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/techjusticelab/Motion-Index/internal/db/opensearch"
	"github.com/techjusticelab/Motion-Index/internal/domain"
	documentrepo "github.com/techjusticelab/Motion-Index/internal/repository/document"
	facetrepo "github.com/techjusticelab/Motion-Index/internal/repository/facet"
	searchrepo "github.com/techjusticelab/Motion-Index/internal/repository/search"
	facetuc "github.com/techjusticelab/Motion-Index/internal/usecase/facet"
	indexinguc "github.com/techjusticelab/Motion-Index/internal/usecase/indexing"
	searchuc "github.com/techjusticelab/Motion-Index/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the Motion-Index SDK entry point.
type Client struct {
	cluster     *opensearch.Client
	searchSvc   *searchuc.Service
	facetSvc    *facetuc.Service
	indexingSvc *indexinguc.Service
}

// New creates a Client and connects to the search cluster.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		index: "documents",
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("motionindex: cluster address required (use WithOpenSearch)")
	}

	cluster, err := opensearch.NewClient(opensearch.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("motionindex: create cluster client: %w", err)
	}

	if err := cluster.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		return nil, fmt.Errorf("motionindex: %w: %v", domain.ErrClusterUnavailable, err)
	}

	return wireClient(cluster, cfg), nil
}

func wireClient(cluster *opensearch.Client, cfg *clientConfig) *Client {
	docRepo := documentrepo.New(cluster, cfg.index)
	searchRepo := searchrepo.New(cluster, cfg.index)
	facetRepo := facetrepo.New(cluster, cfg.index)

	return &Client{
		cluster:     cluster,
		searchSvc:   searchuc.New(searchRepo),
		facetSvc:    facetuc.New(facetRepo),
		indexingSvc: indexinguc.New(docRepo, cfg.bulkChunkSize),
	}
}

// Ping checks cluster connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.cluster.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search starts a fluent search query.
func (c *Client) Search() *SearchQuery {
	return &SearchQuery{svc: c.searchSvc}
}

// Facets returns the facet service: distinct field values, document
// type counts and corpus statistics.
func (c *Client) Facets() *facetuc.Service {
	return c.facetSvc
}

// Indexing returns the indexing service: EnsureIndex, Index, BulkIndex,
// Get and UpdateMetadata.
func (c *Client) Indexing() *indexinguc.Service {
	return c.indexingSvc
}
