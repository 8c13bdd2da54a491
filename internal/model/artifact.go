package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ReputedGhost/diabetes-risk-awareness/internal/features"
)

// Artifact is the frozen model file produced by the offline training job.
// Training is out of scope here: the file is loaded once at startup and
// treated as opaque beyond the checks below.
type Artifact struct {
	SchemaVersion int       `json:"schema_version"`
	TrainedOn     string    `json:"trained_on,omitempty"`
	Features      []string  `json:"features"`
	Scaler        Scaler    `json:"scaler"`
	Coefficients  []float64 `json:"coefficients"`
	Intercept     float64   `json:"intercept"`
}

// Scaler holds the per-feature standardization parameters baked in at
// training time.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// LoadArtifact reads and validates a frozen model artifact. Any failure
// here is fatal to startup: the service cannot evaluate without a model.
func LoadArtifact(path string) (*Artifact, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer file.Close()

	var a Artifact
	if err := json.NewDecoder(file).Decode(&a); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}

	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", path, err)
	}

	return &a, nil
}

func (a *Artifact) validate() error {
	names := features.Names()
	if len(a.Features) != len(names) {
		return fmt.Errorf("expected %d features, artifact has %d", len(names), len(a.Features))
	}
	for i, name := range names {
		if a.Features[i] != name {
			return fmt.Errorf("feature %d: expected %q, artifact has %q", i, name, a.Features[i])
		}
	}

	if len(a.Coefficients) != features.Count {
		return fmt.Errorf("expected %d coefficients, artifact has %d", features.Count, len(a.Coefficients))
	}
	if len(a.Scaler.Mean) != features.Count || len(a.Scaler.Scale) != features.Count {
		return fmt.Errorf("scaler must carry %d means and scales", features.Count)
	}
	for i, s := range a.Scaler.Scale {
		if s == 0 {
			return fmt.Errorf("scaler scale for %q is zero", a.Features[i])
		}
	}

	return nil
}
