package model

import (
	"math"

	"github.com/ReputedGhost/diabetes-risk-awareness/internal/features"
)

// Predictor is the single capability the rest of the service needs from the
// classifier: positive-class probability for one feature vector. The
// concrete binding is swappable; nothing downstream knows about the
// artifact format.
type Predictor interface {
	PredictProba(v features.Vector) (float64, error)
}

// Pipeline applies a frozen standardize-then-logistic-regression artifact.
type Pipeline struct {
	artifact *Artifact
}

// NewPipeline binds a loaded artifact.
func NewPipeline(artifact *Artifact) *Pipeline {
	return &Pipeline{artifact: artifact}
}

// Artifact exposes the underlying frozen artifact, used by the attribution
// engine which decomposes the same linear form.
func (p *Pipeline) Artifact() *Artifact {
	return p.artifact
}

// Logit returns the model output in log-odds space.
func (p *Pipeline) Logit(v features.Vector) float64 {
	a := p.artifact
	z := a.Intercept
	for i, x := range v.Values() {
		z += a.Coefficients[i] * (x - a.Scaler.Mean[i]) / a.Scaler.Scale[i]
	}
	return z
}

// PredictProba returns the positive-class probability in [0, 1].
func (p *Pipeline) PredictProba(v features.Vector) (float64, error) {
	return sigmoid(p.Logit(v)), nil
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

var _ Predictor = (*Pipeline)(nil)
