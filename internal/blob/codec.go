package blob

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/wenda-travel/wendaml/internal/domain"
)

// envelope is the on-disk artifact layout: a manifest describing the
// training run plus the opaque model payload.
type envelope struct {
	Manifest domain.Manifest `json:"manifest"`
	Payload  json.RawMessage `json:"payload"`
}

// Encode serializes a manifest and model payload into artifact bytes.
func Encode(m domain.Manifest, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	data, err := json.Marshal(envelope{Manifest: m, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return data, nil
}

// Decode deserializes artifact bytes into payload and returns the manifest.
// Any failure maps to domain.ErrArtifactCorrupt: callers treat it like a
// missing artifact rather than surfacing it to end users.
func Decode(data []byte, payload any) (domain.Manifest, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return domain.Manifest{}, fmt.Errorf("%w: %v", domain.ErrArtifactCorrupt, err)
	}
	if payload != nil {
		if err := json.Unmarshal(env.Payload, payload); err != nil {
			return domain.Manifest{}, fmt.Errorf("%w: payload: %v", domain.ErrArtifactCorrupt, err)
		}
	}
	return env.Manifest, nil
}

// DecodeManifest reads only the manifest, skipping the payload.
func DecodeManifest(data []byte) (domain.Manifest, error) {
	return Decode(data, nil)
}
