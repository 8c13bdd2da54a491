// Package policy layers deterministic medical safety rules on top of the
// model's raw probability. The thresholds are reviewed domain heuristics
// and deliberately literal constants, not configuration.
package policy

import "github.com/ReputedGhost/diabetes-risk-awareness/internal/features"

// Band is the three-way risk classification shown to the user.
type Band string

const (
	BandLow      Band = "LOW"
	BandModerate Band = "MODERATE"
	BandHigh     Band = "HIGH"
)

const (
	// Band thresholds on the 0-100 probability. Strict comparisons: 35
	// and 70 themselves fall into the higher band.
	moderateThreshold = 35.0
	highThreshold     = 70.0

	// Medically-low-risk override: all three classical low-risk markers
	// must agree.
	lowRiskGlucoseMax  = 100.0
	lowRiskBMIMax      = 32.0
	lowRiskPedigreeMax = 0.0

	// Bias guard: a HIGH verdict with unremarkable glucose and no family
	// history is damped to a fixed MODERATE probability rather than
	// trusted. Never damped below MODERATE.
	biasGuardProbabilityMin = 70.0
	biasGuardGlucoseMax     = 110.0
	biasGuardDampedValue    = 55.0
)

// Meter positions for the proportional risk meter.
const (
	MeterLow      = 0.25
	MeterModerate = 0.60
	MeterHigh     = 0.90
)

// Decision is the outcome of applying the safety policy to one evaluation.
type Decision struct {
	Band             Band    `json:"band"`
	Probability      float64 `json:"probability"`
	RawProbability   float64 `json:"raw_probability"`
	MedicallyLowRisk bool    `json:"medically_low_risk"`
	BiasGuardApplied bool    `json:"bias_guard_applied"`
}

// MedicallyLowRisk reports whether glucose, family history, and BMI all sit
// in the classical low-risk range. When true the model verdict is
// short-circuited to LOW and no attribution is produced.
func MedicallyLowRisk(v features.Vector) bool {
	return v.Glucose < lowRiskGlucoseMax &&
		v.Pedigree == lowRiskPedigreeMax &&
		v.BMI < lowRiskBMIMax
}

// Apply runs both safety rules against the model's raw probability
// (0-100 scale) and derives the final band. Rule order matters: the
// medically-low-risk override is checked first and wins outright; the bias
// guard only rewrites the probability that banding then sees.
func Apply(v features.Vector, rawProbability float64) Decision {
	d := Decision{
		Probability:    rawProbability,
		RawProbability: rawProbability,
	}

	d.MedicallyLowRisk = MedicallyLowRisk(v)

	if rawProbability > biasGuardProbabilityMin &&
		v.Glucose < biasGuardGlucoseMax &&
		v.Pedigree == lowRiskPedigreeMax {
		d.Probability = biasGuardDampedValue
		d.BiasGuardApplied = true
	}

	switch {
	case d.MedicallyLowRisk:
		d.Band = BandLow
	case d.Probability < moderateThreshold:
		d.Band = BandLow
	case d.Probability < highThreshold:
		d.Band = BandModerate
	default:
		d.Band = BandHigh
	}

	return d
}

// Meter returns the proportional meter position for the band.
func (b Band) Meter() float64 {
	switch b {
	case BandModerate:
		return MeterModerate
	case BandHigh:
		return MeterHigh
	default:
		return MeterLow
	}
}
