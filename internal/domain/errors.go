package domain

import "errors"

var (
	// ErrClusterUnavailable signals the search cluster could not be reached at startup.
	ErrClusterUnavailable = errors.New("search cluster unavailable")
	// ErrIndexCreation signals the index could not be created.
	ErrIndexCreation = errors.New("index creation failed")
	// ErrIndexing signals a single-document write was rejected by the cluster.
	ErrIndexing = errors.New("indexing failed")
	// ErrDocumentNotFound signals a get/update against a missing document ID.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrMissingHash signals a document submitted for indexing without a content hash.
	ErrMissingHash = errors.New("document has no content hash")
	// ErrClassifier signals an LLM classification failure.
	ErrClassifier = errors.New("classification failed")
	// ErrUnsupportedFormat signals a file extension outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
