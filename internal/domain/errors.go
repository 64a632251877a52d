package domain

import "errors"

var (
	// ErrArtifactNotFound signals a missing artifact in the store.
	// Soft: callers fall back to the documented heuristic chain.
	ErrArtifactNotFound = errors.New("artifact not found")
	// ErrArtifactCorrupt signals an artifact that failed to deserialize.
	// Soft: logged, then treated identically to ErrArtifactNotFound.
	ErrArtifactCorrupt = errors.New("artifact corrupt")
	// ErrModelUnavailable signals that no usable model is loaded.
	// Callers decide whether to substitute a fallback result.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrSchemaMismatch signals a feature vector paired with the wrong schema,
	// or a catalog/similarity-index misalignment. Fatal: must abort the
	// operation rather than silently producing wrong output.
	ErrSchemaMismatch = errors.New("feature schema mismatch")
	// ErrItemNotFound signals an id absent from the catalog snapshot.
	ErrItemNotFound = errors.New("item not found in catalog")
	// ErrInvalidRegion signals a region outside the supported list.
	ErrInvalidRegion = errors.New("invalid region")
	// ErrUpstreamUnavailable signals an unreachable external collaborator
	// (historical statistics provider, registry database).
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
)
