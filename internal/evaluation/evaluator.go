// Package evaluation wires the full pipeline for one user-triggered check:
// collect and clamp inputs, run the frozen classifier, apply the safety
// policy, and explain the verdict when the policy did not short-circuit it.
package evaluation

import (
	"fmt"
	"math"

	"github.com/ReputedGhost/diabetes-risk-awareness/internal/explain"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/features"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/model"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/policy"
	"github.com/google/uuid"
)

// topInfluenceCount limits the attribution statements shown to the user.
const topInfluenceCount = 3

// User-facing copy rendered alongside the band.
const (
	lowRiskSummary = "Your blood sugar level, body weight range, and lack of family history " +
		"suggest a low diabetes risk based on common medical guidelines."
	modelSummary = "This result is based on patterns observed in historical health data. " +
		"It does not confirm or rule out diabetes."
	disclaimer = "This tool is for awareness and learning purposes only. It is not a medical diagnosis."
)

var guidance = []string{
	"Maintain a balanced diet and regular physical activity",
	"Monitor blood sugar levels if advised",
	"Consult a healthcare professional for clarity",
}

// Result is everything the presentation layer needs for one evaluation.
// Nothing here outlives the response.
type Result struct {
	ID               string              `json:"id"`
	Band             policy.Band         `json:"band"`
	Probability      float64             `json:"probability"`
	Meter            float64             `json:"meter"`
	BMI              float64             `json:"bmi"`
	MedicallyLowRisk bool                `json:"medically_low_risk"`
	BiasGuardApplied bool                `json:"bias_guard_applied"`
	Influences       []explain.Influence `json:"influences,omitempty"`
	Summary          string              `json:"summary"`
	Guidance         []string            `json:"guidance"`
	Disclaimer       string              `json:"disclaimer"`
}

// Evaluator holds the process-wide read-only state: the bound predictor and
// explainer, both constructed once at startup. Evaluations share it without
// locking because nothing here mutates.
type Evaluator struct {
	predictor model.Predictor
	explainer explain.Explainer
}

// New builds an evaluator from its two collaborators.
func New(predictor model.Predictor, explainer explain.Explainer) *Evaluator {
	return &Evaluator{predictor: predictor, explainer: explainer}
}

// Evaluate runs the whole pipeline for one set of raw inputs. It is pure
// over its inputs apart from the generated result ID: identical inputs
// always yield the identical band, probability, and ranking.
func (e *Evaluator) Evaluate(in features.Inputs) (Result, error) {
	v := in.Vector()

	rawProb, err := e.predictor.PredictProba(v)
	if err != nil {
		return Result{}, fmt.Errorf("risk model inference failed: %w", err)
	}

	decision := policy.Apply(v, roundPercent(rawProb*100))

	res := Result{
		ID:               uuid.NewString(),
		Band:             decision.Band,
		Probability:      decision.Probability,
		Meter:            decision.Band.Meter(),
		BMI:              v.BMI,
		MedicallyLowRisk: decision.MedicallyLowRisk,
		BiasGuardApplied: decision.BiasGuardApplied,
		Summary:          modelSummary,
		Guidance:         guidance,
		Disclaimer:       disclaimer,
	}

	if decision.MedicallyLowRisk {
		// The override encodes settled medical guidance; explaining the
		// model's opinion would only muddy that message.
		res.Summary = lowRiskSummary
		return res, nil
	}

	contribs, err := e.explainer.Explain(v)
	if err != nil {
		return Result{}, fmt.Errorf("attribution failed: %w", err)
	}
	res.Influences = explain.TopInfluences(contribs, topInfluenceCount)

	return res, nil
}

func roundPercent(p float64) float64 {
	return math.Round(p*100) / 100
}
