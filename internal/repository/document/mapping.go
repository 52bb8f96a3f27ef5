package document

// indexMapping is the fixed schema for the document index. EnsureIndex
// creates the index with it when absent and never touches an existing
// mapping. The embedding field is reserved for future vector search and
// uses the knn_vector mapper, the OpenSearch equivalent of a dense
// vector; nothing in the pipeline populates it yet.
var indexMapping = []byte(`{
  "mappings": {
    "properties": {
      "file_path": {"type": "keyword"},
      "file_name": {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "category": {"type": "keyword"},
      "chunk_id": {"type": "integer"},
      "text": {"type": "text", "analyzer": "english"},
      "doc_type": {"type": "keyword"},
      "s3_uri": {"type": "keyword"},
      "metadata": {
        "properties": {
          "document_name": {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
          "subject": {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
          "status": {"type": "keyword"},
          "case_name": {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
          "case_number": {"type": "keyword"},
          "author": {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
          "judge": {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
          "court": {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
          "legal_tags": {"type": "keyword"},
          "timestamp": {"type": "date"}
        }
      },
      "embedding": {"type": "knn_vector", "dimension": 384},
      "hash": {"type": "keyword"},
      "created_at": {"type": "date"}
    }
  }
}`)
