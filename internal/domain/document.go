package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"time"
)

// EmbeddingDims is the dimensionality of the reserved dense-vector field.
// The field is mapped but never populated by the core paths.
const EmbeddingDims = 384

// Metadata holds the legally significant fields extracted from a document.
// Timestamp is the filing/signature date, not the processing time; it stays
// nil when no date could be discovered.
type Metadata struct {
	DocumentName string     `json:"document_name"`
	Subject      string     `json:"subject"`
	Status       string     `json:"status,omitempty"`
	Timestamp    *time.Time `json:"timestamp"`
	CaseName     string     `json:"case_name,omitempty"`
	CaseNumber   string     `json:"case_number,omitempty"`
	Author       string     `json:"author,omitempty"`
	Judge        string     `json:"judge,omitempty"`
	Court        string     `json:"court,omitempty"`
	LegalTags    []string   `json:"legal_tags,omitempty"`
	// Hash is a legacy location for the content digest; some producers set
	// it here instead of on the document. Used only as an ID fallback.
	Hash string `json:"hash,omitempty"`
}

// Document is a processed legal document as stored in the search index.
// Hash is the SHA-256 of the file content and doubles as the index ID,
// which makes re-indexing identical bytes an idempotent overwrite.
type Document struct {
	FilePath  string    `json:"file_path"`
	FileName  string    `json:"file_name"`
	Text      string    `json:"text"`
	DocType   string    `json:"doc_type"`
	Category  string    `json:"category,omitempty"`
	ChunkID   int       `json:"chunk_id"`
	Metadata  Metadata  `json:"metadata"`
	Embedding []float32 `json:"embedding,omitempty"`
	Hash      string    `json:"hash"`
	CreatedAt time.Time `json:"created_at"`
	S3URI     string    `json:"s3_uri,omitempty"`
}

// NewDocument creates a document for the given file path and extracted text.
// FileName is derived from the path; CreatedAt defaults to now.
func NewDocument(filePath, text string, meta Metadata) *Document {
	return &Document{
		FilePath:  filePath,
		FileName:  filepath.Base(filePath),
		Text:      text,
		DocType:   "Unknown",
		Metadata:  meta,
		CreatedAt: time.Now().UTC(),
	}
}

// HashBytes returns the hex-encoded SHA-256 digest of the given content.
// Two files with identical bytes always produce the same document ID.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
