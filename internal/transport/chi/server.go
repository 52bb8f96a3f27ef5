// Package chi is the HTTP transport: routing, request decoding and the
// mapping of domain errors onto status codes.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/techjusticelab/Motion-Index/internal/domain"
	"github.com/techjusticelab/Motion-Index/internal/domain/search/request"
	facetuc "github.com/techjusticelab/Motion-Index/internal/usecase/facet"
	healthuc "github.com/techjusticelab/Motion-Index/internal/usecase/health"
	indexinguc "github.com/techjusticelab/Motion-Index/internal/usecase/indexing"
	searchuc "github.com/techjusticelab/Motion-Index/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search, facet and metadata-update API.
type Server struct {
	search        *searchuc.Service
	facets        *facetuc.Service
	indexing      *indexinguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	facets *facetuc.Service,
	indexing *indexinguc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:   search,
		facets:   facets,
		indexing: indexing,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, "document_not_found"),
		sentinelHandler(domain.ErrMissingHash, http.StatusBadRequest, "validation_failed"),
		sentinelHandler(domain.ErrIndexing, http.StatusBadGateway, "indexing_failed"),
		sentinelHandler(domain.ErrClassifier, http.StatusBadGateway, "classifier_error"),
	}
	return s
}

// Routes mounts all handlers on a chi router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/search", s.SearchDocuments)
	r.Get("/document-types", s.DocumentTypes)
	r.Get("/legal-tags", s.LegalTags)
	r.Post("/metadata-field-values", s.MetadataFieldValues)
	r.Get("/metadata-fields", s.MetadataFields)
	r.Get("/all-field-options", s.AllFieldOptions)
	r.Get("/document-stats", s.DocumentStats)
	r.Post("/update-metadata", s.UpdateMetadata)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// searchRequestBody is the wire shape of POST /search.
type searchRequestBody struct {
	Query             string             `json:"query"`
	DocType           string             `json:"doc_type"`
	MetadataFilters   map[string]any     `json:"metadata_filters"`
	DateRange         *request.DateRange `json:"date_range"`
	Size              int                `json:"size"`
	Page              int                `json:"page"`
	SortBy            string             `json:"sort_by"`
	SortOrder         string             `json:"sort_order"`
	UseFuzzy          bool               `json:"use_fuzzy"`
	LegalTagsMatchAll bool               `json:"legal_tags_match_all"`
}

// SearchDocuments handles POST /search.
func (s *Server) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	var body searchRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	filters, err := normalizeFilters(body.MetadataFilters)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	req, err := request.New(
		body.Query, body.DocType, filters, body.DateRange,
		body.Size, body.Page, body.SortBy, body.SortOrder,
		body.UseFuzzy, body.LegalTagsMatchAll,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	page := s.search.Search(r.Context(), &req)

	hits := make([]map[string]any, len(page.Hits))
	for i, h := range page.Hits {
		hits[i] = h.Flatten()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":     page.Total,
		"hits":      hits,
		"page_size": page.PageSize,
		"from":      page.From,
	})
}

// normalizeFilters converts decoded JSON filter values ([]any from the
// decoder) into the string / []string shapes the request object accepts.
func normalizeFilters(raw map[string]any) (map[string]any, error) {
	if raw == nil {
		return nil, nil
	}
	filters := make(map[string]any, len(raw))
	for field, value := range raw {
		switch v := value.(type) {
		case nil:
		case string:
			filters[field] = v
		case []any:
			list := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, errors.New("filter " + field + " must contain only strings")
				}
				list = append(list, s)
			}
			filters[field] = list
		default:
			return nil, errors.New("filter " + field + " must be a string or string list")
		}
	}
	return filters, nil
}

// DocumentTypes handles GET /document-types.
func (s *Server) DocumentTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"document_types": s.facets.DocumentTypeCounts(r.Context()),
	})
}

// LegalTags handles GET /legal-tags.
func (s *Server) LegalTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"legal_tags": s.facets.LegalTagValues(r.Context()),
	})
}

// MetadataFieldValues handles POST /metadata-field-values.
func (s *Server) MetadataFieldValues(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Field  string `json:"field"`
		Prefix string `json:"prefix"`
		Size   int    `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if body.Field == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "field is required")
		return
	}

	values := s.facets.FieldValues(r.Context(), body.Field, body.Prefix, body.Size)
	writeJSON(w, http.StatusOK, map[string]any{
		"field":  body.Field,
		"values": values,
	})
}

// MetadataFields handles GET /metadata-fields.
func (s *Server) MetadataFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"fields": facetuc.MetadataFields,
	})
}

// AllFieldOptions handles GET /all-field-options.
func (s *Server) AllFieldOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"options": s.facets.AllFieldOptions(r.Context()),
	})
}

// DocumentStats handles GET /document-stats.
func (s *Server) DocumentStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.facets.DocumentStats(r.Context()))
}

// UpdateMetadata handles POST /update-metadata.
func (s *Server) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DocumentID string         `json:"document_id"`
		Metadata   map[string]any `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if body.DocumentID == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "document_id is required")
		return
	}
	if len(body.Metadata) == 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "metadata must not be empty")
		return
	}

	if err := s.indexing.UpdateMetadata(r.Context(), body.DocumentID, body.Metadata); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"document_id": body.DocumentID,
		"updated":     true,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"code":    code,
		"message": message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDocumentNotFound,
		domain.ErrMissingHash,
		domain.ErrIndexing,
		domain.ErrIndexCreation,
		domain.ErrClassifier,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
