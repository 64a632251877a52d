// Package httpapi exposes the ML endpoints over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wenda-travel/wendaml/internal/domain"
	"github.com/wenda-travel/wendaml/internal/metrics"
	"github.com/wenda-travel/wendaml/internal/model"
	"github.com/wenda-travel/wendaml/internal/repository/catalog"
	forecastuc "github.com/wenda-travel/wendaml/internal/usecase/forecast"
	healthuc "github.com/wenda-travel/wendaml/internal/usecase/health"
	recommenduc "github.com/wenda-travel/wendaml/internal/usecase/recommend"
	segmentuc "github.com/wenda-travel/wendaml/internal/usecase/segment"
)

const (
	defaultLimit = 10
	maxLimit     = 50
	minYear      = 2024
)

// Catalog serves destination queries for the no-model recommendation fallback.
type Catalog interface {
	TopRated(ctx context.Context, f catalog.Filter) ([]domain.CatalogItem, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the usecase services behind the HTTP handlers.
type Server struct {
	forecasts     *forecastuc.Service
	segments      *segmentuc.Service
	recommends    *recommenduc.Service
	health        *healthuc.Service
	models        healthuc.ArtifactLister
	catalog       Catalog
	regions       []string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. catalog may be nil when serving
// without a database; the recommendation fallback is then unavailable and
// an untrained recommender surfaces as 503.
func NewServer(
	forecasts *forecastuc.Service,
	segments *segmentuc.Service,
	recommends *recommenduc.Service,
	health *healthuc.Service,
	models healthuc.ArtifactLister,
	cat Catalog,
	regions []string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		forecasts:  forecasts,
		segments:   segments,
		recommends: recommends,
		health:     health,
		models:     models,
		catalog:    cat,
		regions:    regions,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRegion, http.StatusBadRequest),
		sentinelHandler(domain.ErrItemNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrModelUnavailable, http.StatusServiceUnavailable),
		sentinelHandler(domain.ErrUpstreamUnavailable, http.StatusServiceUnavailable),
	}
	return s
}

// Routes builds the router for the ML API.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/ml", func(r chi.Router) {
		r.Post("/forecast", s.handleForecast)
		r.Post("/recommend", s.handleRecommend)
		r.Get("/segments", s.handleSegments)
		r.Post("/segments/assign", s.handleAssign)
		r.Get("/models", s.handleModels)
		r.Get("/health", s.handleHealth)
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	return r
}

// handleForecast handles POST /ml/forecast.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	var req forecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	region, ok := s.canonicalRegion(req.Province)
	if !ok {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid province, use one of: %s", strings.Join(s.regions, ", ")))
		return
	}
	if req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}
	if req.Year < minYear {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("year must be %d or later", minYear))
		return
	}

	pred, err := s.forecasts.Predict(r.Context(), region, req.Year, req.Month,
		req.OccupancyRate, req.AvgStayDays)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, forecastResponse{
		Province:  region,
		Month:     req.Month,
		Year:      req.Year,
		Predicted: pred,
		Generated: time.Now().UTC(),
	})
}

// handleRecommend handles POST /ml/recommend. The request selects the
// strategy: an itemId alone asks for similar destinations, preferences alone
// ask for a filtered ranking, both together ask for the hybrid re-rank.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 || limit > maxLimit {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxLimit))
		return
	}

	filter := model.PreferenceFilter{
		Categories: req.Preferences.Categories,
		Regions:    req.Preferences.Provinces,
		MinRating:  req.Preferences.MinRating,
	}
	hasPrefs := len(filter.Categories) > 0 || len(filter.Regions) > 0 || filter.MinRating > 0

	var (
		ranked []domain.RankedItem
		mode   string
		err    error
	)
	switch {
	case req.ItemID != "" && hasPrefs:
		mode = "hybrid"
		ranked, err = s.recommends.Hybrid(r.Context(), filter, req.ItemID, limit)
	case req.ItemID != "":
		mode = "similar"
		ranked, err = s.recommends.Similar(r.Context(), req.ItemID, limit)
	default:
		mode = "preference"
		ranked, err = s.recommends.ByPreference(r.Context(), filter, limit)
	}
	if err != nil {
		if errors.Is(err, domain.ErrModelUnavailable) && s.catalog != nil {
			s.fallbackRecommend(w, r, filter, limit)
			return
		}
		s.handleDomainError(w, err)
		return
	}
	metrics.RecommendationsTotal.WithLabelValues(mode).Inc()

	writeJSON(w, http.StatusOK, recommendResponse{
		Recommendations: rankedToDTO(ranked),
		Source:          sourceModel,
		Generated:       time.Now().UTC(),
	})
}

// fallbackRecommend answers from the destination catalog when no recommender
// artifact is trained yet: best rated matches first, score scaled from rating.
func (s *Server) fallbackRecommend(w http.ResponseWriter, r *http.Request, f model.PreferenceFilter, limit int) {
	items, err := s.catalog.TopRated(r.Context(), catalog.Filter{
		Categories: f.Categories,
		Regions:    f.Regions,
		Limit:      limit,
	})
	if err != nil {
		s.handleDomainError(w, fmt.Errorf("%w: catalog fallback: %v", domain.ErrUpstreamUnavailable, err))
		return
	}

	recs := make([]recommendationDTO, 0, len(items))
	for _, it := range items {
		if f.MinRating > 0 && it.Rating < f.MinRating {
			continue
		}
		recs = append(recs, recommendationDTO{
			ItemID:      it.ID,
			Name:        it.Name,
			Province:    it.Region,
			Category:    it.Category,
			Rating:      it.Rating,
			Score:       it.Rating / 5,
			Description: it.Description,
		})
	}

	metrics.RecommendationsTotal.WithLabelValues("fallback").Inc()
	writeJSON(w, http.StatusOK, recommendResponse{
		Recommendations: recs,
		Source:          sourceFallback,
		Generated:       time.Now().UTC(),
	})
}

// handleSegments handles GET /ml/segments. Without a trained clustering
// artifact the endpoint serves the static market-study segment table instead
// of failing, so catalog pages render before the first training run.
func (s *Server) handleSegments(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.segments.Segments(r.Context())
	source := sourceModel
	if err != nil {
		if !errors.Is(err, domain.ErrModelUnavailable) {
			s.handleDomainError(w, err)
			return
		}
		profiles = defaultSegments()
		source = sourceFallback
	}

	writeJSON(w, http.StatusOK, segmentsResponse{
		Segments:  profiles,
		Total:     len(profiles),
		Source:    source,
		Generated: time.Now().UTC(),
	})
}

// handleAssign handles POST /ml/segments/assign.
func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	a, err := s.segments.Assign(r.Context(), req.Behavior)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, assignResponse{
		SegmentID:  a.SegmentID,
		Name:       a.Profile.Name,
		Confidence: a.Confidence,
		Profile:    a.Profile,
	})
}

// handleModels handles GET /ml/models.
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	infos, err := s.models.ListAvailable(r.Context())
	if err != nil {
		s.handleDomainError(w, fmt.Errorf("%w: listing artifacts: %v", domain.ErrUpstreamUnavailable, err))
		return
	}
	writeJSON(w, http.StatusOK, modelsResponse{Models: infos, Total: len(infos)})
}

// handleHealth handles GET /ml/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:    string(report.Status),
		Checks:    checks,
		Models:    report.Models,
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) canonicalRegion(province string) (string, bool) {
	for _, r := range s.regions {
		if strings.EqualFold(r, strings.TrimSpace(province)) {
			return r, true
		}
	}
	return "", false
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func rankedToDTO(ranked []domain.RankedItem) []recommendationDTO {
	recs := make([]recommendationDTO, len(ranked))
	for i, it := range ranked {
		recs[i] = recommendationDTO{
			ItemID:   it.ItemID,
			Name:     it.Name,
			Province: it.Region,
			Category: it.Category,
			Rating:   it.Rating,
			Score:    it.Score,
		}
	}
	return recs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRegion,
		domain.ErrItemNotFound,
		domain.ErrModelUnavailable,
		domain.ErrUpstreamUnavailable,
		domain.ErrSchemaMismatch,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler creates an errorHandler matching a sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}
