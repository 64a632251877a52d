package httpapi

import (
	"time"

	"github.com/wenda-travel/wendaml/internal/domain"
	"github.com/wenda-travel/wendaml/internal/feature"
)

type forecastRequest struct {
	Province string `json:"province"`
	Month    int    `json:"month"`
	Year     int    `json:"year"`
	// Optional regressor inputs; zero means unknown.
	OccupancyRate float64 `json:"occupancyRate,omitempty"`
	AvgStayDays   float64 `json:"avgStayDays,omitempty"`
}

type forecastResponse struct {
	Province  string            `json:"province"`
	Month     int               `json:"month"`
	Year      int               `json:"year"`
	Predicted domain.Prediction `json:"prediction"`
	Generated time.Time         `json:"generatedAt"`
}

type preferencesDTO struct {
	Categories []string `json:"categories,omitempty"`
	Provinces  []string `json:"provinces,omitempty"`
	MinRating  float64  `json:"minRating,omitempty"`
}

type recommendRequest struct {
	ItemID      string         `json:"itemId,omitempty"`
	Preferences preferencesDTO `json:"preferences"`
	Limit       int            `json:"limit,omitempty"`
}

type recommendResponse struct {
	Recommendations []recommendationDTO `json:"recommendations"`
	Source          string              `json:"source"`
	Generated       time.Time           `json:"generatedAt"`
}

type recommendationDTO struct {
	ItemID      string  `json:"itemId"`
	Name        string  `json:"name"`
	Province    string  `json:"province"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	Score       float64 `json:"score"`
	Description string  `json:"description,omitempty"`
}

type segmentsResponse struct {
	Segments  []domain.SegmentProfile `json:"segments"`
	Total     int                     `json:"totalSegments"`
	Source    string                  `json:"source"`
	Generated time.Time               `json:"generatedAt"`
}

type assignRequest struct {
	feature.Behavior
}

type assignResponse struct {
	SegmentID  int                   `json:"segmentId"`
	Name       string                `json:"name"`
	Confidence float64               `json:"confidence"`
	Profile    domain.SegmentProfile `json:"profile"`
}

type healthResponse struct {
	Status    string                `json:"status"`
	Checks    map[string]string     `json:"checks"`
	Models    []domain.ArtifactInfo `json:"models"`
	Timestamp time.Time             `json:"timestamp"`
}

type modelsResponse struct {
	Models []domain.ArtifactInfo `json:"models"`
	Total  int                   `json:"total"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Result sources reported to clients, mirroring prediction sources.
const (
	sourceModel    = "model"
	sourceFallback = "fallback"
)
