// Package health aggregates component checks for the operational endpoints.
package health

import (
	"context"

	"github.com/wenda-travel/wendaml/internal/domain"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing check.
	CheckError CheckResult = "error"
)

// Report aggregates component checks and the available models.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	Models []domain.ArtifactInfo
}

// Service coordinates health checks.
type Service struct {
	store  StorePinger
	db     DBPinger
	models ArtifactLister
}

// New creates a Service. db may be nil when serving without a database.
func New(store StorePinger, db DBPinger, models ArtifactLister) *Service {
	return &Service{store: store, db: db, models: models}
}

// Check pings the artifact store and database and lists loaded artifacts.
// A failing model listing degrades the report but never errors: health must
// answer even with an empty store.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.store.Ping(ctx); err != nil {
		checks["artifact_store"] = CheckError
	} else {
		checks["artifact_store"] = CheckOK
	}

	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			checks["database"] = CheckError
		} else {
			checks["database"] = CheckOK
		}
	}

	var models []domain.ArtifactInfo
	if s.models != nil {
		if got, err := s.models.ListAvailable(ctx); err == nil {
			models = got
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	return Report{Status: status, Checks: checks, Models: models}
}
