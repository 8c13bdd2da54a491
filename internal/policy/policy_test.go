package policy

import (
	"testing"

	"github.com/ReputedGhost/diabetes-risk-awareness/internal/features"
	"github.com/stretchr/testify/assert"
)

func vector(glucose, pedigree, bmi float64) features.Vector {
	return features.Vector{
		Pregnancies:   1,
		Glucose:       glucose,
		BloodPressure: 80,
		SkinThickness: 20,
		Insulin:       80,
		Pedigree:      pedigree,
		BMI:           bmi,
		Age:           40,
	}
}

func TestMedicallyLowRisk(t *testing.T) {
	tests := []struct {
		name     string
		glucose  float64
		pedigree float64
		bmi      float64
		expected bool
	}{
		{
			name:     "all markers in low range",
			glucose:  90, pedigree: 0.0, bmi: 25,
			expected: true,
		},
		{
			name:     "glucose at boundary is not low risk",
			glucose:  100, pedigree: 0.0, bmi: 25,
			expected: false,
		},
		{
			name:     "bmi at boundary is not low risk",
			glucose:  90, pedigree: 0.0, bmi: 32,
			expected: false,
		},
		{
			name:     "any family history disqualifies",
			glucose:  90, pedigree: 0.01, bmi: 25,
			expected: false,
		},
		{
			name:     "glucose just under boundary",
			glucose:  99, pedigree: 0.0, bmi: 31.99,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MedicallyLowRisk(vector(tt.glucose, tt.pedigree, tt.bmi)))
		})
	}
}

func TestApply_LowRiskOverrideWins(t *testing.T) {
	// Even an extreme model probability is forced to LOW when all
	// classical markers agree.
	d := Apply(vector(90, 0.0, 25), 95)

	assert.Equal(t, BandLow, d.Band)
	assert.True(t, d.MedicallyLowRisk)
	assert.Equal(t, 95.0, d.RawProbability)
}

func TestApply_BiasGuard(t *testing.T) {
	tests := []struct {
		name        string
		glucose     float64
		pedigree    float64
		bmi         float64
		rawProb     float64
		wantApplied bool
		wantProb    float64
		wantBand    Band
	}{
		{
			name:    "high verdict with unremarkable glucose and no history is damped",
			glucose: 105, pedigree: 0.0, bmi: 35, rawProb: 85,
			wantApplied: true, wantProb: 55, wantBand: BandModerate,
		},
		{
			name:    "probability exactly 70 does not trigger the guard",
			glucose: 105, pedigree: 0.0, bmi: 35, rawProb: 70,
			wantApplied: false, wantProb: 70, wantBand: BandHigh,
		},
		{
			name:    "glucose at 110 does not trigger the guard",
			glucose: 110, pedigree: 0.0, bmi: 35, rawProb: 85,
			wantApplied: false, wantProb: 85, wantBand: BandHigh,
		},
		{
			name:    "family history disables the guard",
			glucose: 105, pedigree: 0.2, bmi: 35, rawProb: 85,
			wantApplied: false, wantProb: 85, wantBand: BandHigh,
		},
		{
			name:    "damped case that also satisfies the low-risk override lands on LOW",
			glucose: 95, pedigree: 0.0, bmi: 25, rawProb: 85,
			wantApplied: true, wantProb: 55, wantBand: BandLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Apply(vector(tt.glucose, tt.pedigree, tt.bmi), tt.rawProb)

			assert.Equal(t, tt.wantApplied, d.BiasGuardApplied)
			assert.Equal(t, tt.wantProb, d.Probability)
			assert.Equal(t, tt.wantBand, d.Band)
			assert.Equal(t, tt.rawProb, d.RawProbability)
		})
	}
}

func TestApply_BandThresholds(t *testing.T) {
	// Outside the low-risk override range so banding is purely threshold
	// driven.
	v := vector(140, 0.5, 35)

	tests := []struct {
		probability float64
		expected    Band
	}{
		{0, BandLow},
		{34.99, BandLow},
		{35, BandModerate},
		{55, BandModerate},
		{69.99, BandModerate},
		{70, BandHigh},
		{100, BandHigh},
	}

	for _, tt := range tests {
		d := Apply(v, tt.probability)
		assert.Equal(t, tt.expected, d.Band, "probability %v", tt.probability)
		assert.Equal(t, tt.probability, d.Probability)
	}
}

func TestApply_MonotonicBandTransitions(t *testing.T) {
	v := vector(140, 0.5, 35)

	var seen []Band
	for p := 30.0; p <= 80.0; p += 1.0 {
		band := Apply(v, p).Band
		if len(seen) == 0 || seen[len(seen)-1] != band {
			seen = append(seen, band)
		}
	}

	assert.Equal(t, []Band{BandLow, BandModerate, BandHigh}, seen)
}

func TestMeter(t *testing.T) {
	assert.Equal(t, 0.25, BandLow.Meter())
	assert.Equal(t, 0.60, BandModerate.Meter())
	assert.Equal(t, 0.90, BandHigh.Meter())
}
