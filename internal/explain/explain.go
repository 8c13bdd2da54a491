package explain

import (
	"fmt"
	"math"
	"sort"

	"github.com/ReputedGhost/diabetes-risk-awareness/internal/dataset"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/features"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/model"
)

// Contribution is one feature's signed share of the model output relative
// to the reference baseline, in log-odds space.
type Contribution struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
}

// Explainer produces one signed contribution per feature. Like the
// predictor it is a swappable capability; the service never depends on the
// concrete decomposition.
type Explainer interface {
	Explain(v features.Vector) ([]Contribution, error)
}

// LinearExplainer decomposes the frozen pipeline's linear form exactly: for
// a standardized logistic model the Shapley value of feature i is
// coef_i * (z_i - baseline_i), and the contributions sum to the difference
// between the model's log-odds and the baseline log-odds.
type LinearExplainer struct {
	artifact *model.Artifact
	baseline []float64
}

// NewLinearExplainer binds the model artifact to the reference dataset that
// supplies the background distribution.
func NewLinearExplainer(artifact *model.Artifact, ref *dataset.Reference) (*LinearExplainer, error) {
	means := ref.Means()
	if len(means) != features.Count {
		return nil, fmt.Errorf("reference dataset supplies %d feature means, need %d", len(means), features.Count)
	}
	return &LinearExplainer{artifact: artifact, baseline: means}, nil
}

// Explain returns one contribution per feature in training order.
func (e *LinearExplainer) Explain(v features.Vector) ([]Contribution, error) {
	names := features.Names()
	values := v.Values()

	contribs := make([]Contribution, features.Count)
	for i := range contribs {
		scaled := (values[i] - e.artifact.Scaler.Mean[i]) / e.artifact.Scaler.Scale[i]
		base := (e.baseline[i] - e.artifact.Scaler.Mean[i]) / e.artifact.Scaler.Scale[i]
		contribs[i] = Contribution{
			Feature: names[i],
			Value:   e.artifact.Coefficients[i] * (scaled - base),
		}
	}
	return contribs, nil
}

var _ Explainer = (*LinearExplainer)(nil)

// Influence directions shown to the user.
const (
	DirectionStronger = "stronger"
	DirectionLess     = "less"
)

// Influence is one ranked attribution statement.
type Influence struct {
	Feature   string  `json:"feature"`
	Direction string  `json:"direction"`
	Value     float64 `json:"value"`
}

// TopInfluences ranks contributions by absolute value descending and keeps
// the strongest n. Ties keep the original feature order. Positive
// contributions read as stronger influence on the result, non-positive as
// less.
func TopInfluences(contribs []Contribution, n int) []Influence {
	ranked := make([]Contribution, len(contribs))
	copy(ranked, contribs)

	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].Value) > math.Abs(ranked[j].Value)
	})

	if n > len(ranked) {
		n = len(ranked)
	}

	out := make([]Influence, 0, n)
	for _, c := range ranked[:n] {
		direction := DirectionLess
		if c.Value > 0 {
			direction = DirectionStronger
		}
		out = append(out, Influence{Feature: c.Feature, Direction: direction, Value: c.Value})
	}
	return out
}
