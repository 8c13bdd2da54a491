package evaluation

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ReputedGhost/diabetes-risk-awareness/internal/dataset"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/explain"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/features"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/model"
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPredictor returns a fixed probability.
type stubPredictor struct {
	probability float64
	err         error
}

func (s *stubPredictor) PredictProba(features.Vector) (float64, error) {
	return s.probability, s.err
}

// recordingExplainer counts invocations so tests can assert the low-risk
// override skips attribution entirely.
type recordingExplainer struct {
	calls    int
	contribs []explain.Contribution
	err      error
}

func (r *recordingExplainer) Explain(features.Vector) ([]explain.Contribution, error) {
	r.calls++
	return r.contribs, r.err
}

func defaultContribs() []explain.Contribution {
	return []explain.Contribution{
		{Feature: "Pregnancies", Value: 0.1},
		{Feature: "Glucose", Value: 1.2},
		{Feature: "BloodPressure", Value: -0.2},
		{Feature: "SkinThickness", Value: 0.05},
		{Feature: "Insulin", Value: -0.4},
		{Feature: "DiabetesPedigreeFunction", Value: 0.3},
		{Feature: "BMI", Value: 0.8},
		{Feature: "Age", Value: 0.25},
	}
}

func TestEvaluate_MedicallyLowRiskSkipsAttribution(t *testing.T) {
	explainer := &recordingExplainer{contribs: defaultContribs()}
	// Model is confident, but every classical marker is in the low range.
	ev := New(&stubPredictor{probability: 0.95}, explainer)

	in := features.Inputs{Age: 60, HeightCm: 170, WeightKg: 70, Glucose: 90, BloodPressure: 80, SkinThickness: 20, Insulin: 80, Pedigree: 0.0}

	res, err := ev.Evaluate(in)
	require.NoError(t, err)

	assert.Equal(t, policy.BandLow, res.Band)
	assert.True(t, res.MedicallyLowRisk)
	assert.Empty(t, res.Influences)
	assert.Zero(t, explainer.calls, "attribution engine must not run for the low-risk override")
	assert.Equal(t, 0.25, res.Meter)
	assert.Contains(t, res.Summary, "common medical guidelines")
}

func TestEvaluate_BiasGuardDampsToModerate(t *testing.T) {
	explainer := &recordingExplainer{contribs: defaultContribs()}
	ev := New(&stubPredictor{probability: 0.85}, explainer)

	// High BMI keeps the low-risk override off; glucose and pedigree keep
	// the bias guard on.
	in := features.Inputs{Age: 70, HeightCm: 150, WeightKg: 95, Glucose: 105, BloodPressure: 85, SkinThickness: 25, Insulin: 90, Pedigree: 0.0}

	res, err := ev.Evaluate(in)
	require.NoError(t, err)

	assert.Equal(t, policy.BandModerate, res.Band)
	assert.Equal(t, 55.0, res.Probability)
	assert.True(t, res.BiasGuardApplied)
	assert.False(t, res.MedicallyLowRisk)
	assert.Equal(t, 0.60, res.Meter)
	assert.Equal(t, 1, explainer.calls)
	require.Len(t, res.Influences, 3)
	assert.Equal(t, "Glucose", res.Influences[0].Feature)
}

func TestEvaluate_BandTransitions(t *testing.T) {
	// Holding the vector fixed outside the override range, rising model
	// probability walks LOW -> MODERATE -> HIGH at 35 and 70.
	in := features.Inputs{Age: 50, HeightCm: 160, WeightKg: 95, Glucose: 150, BloodPressure: 85, SkinThickness: 25, Insulin: 120, Pedigree: 0.6}

	tests := []struct {
		probability float64
		expected    policy.Band
	}{
		{0.30, policy.BandLow},
		{0.35, policy.BandModerate},
		{0.50, policy.BandModerate},
		{0.70, policy.BandHigh},
		{0.80, policy.BandHigh},
	}

	for _, tt := range tests {
		ev := New(&stubPredictor{probability: tt.probability}, &recordingExplainer{contribs: defaultContribs()})
		res, err := ev.Evaluate(in)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, res.Band, "probability %v", tt.probability)
	}
}

func TestEvaluate_ProbabilityScaledAndRounded(t *testing.T) {
	ev := New(&stubPredictor{probability: 0.41237}, &recordingExplainer{contribs: defaultContribs()})

	in := features.Inputs{Age: 50, HeightCm: 160, WeightKg: 95, Glucose: 150, BloodPressure: 85, Insulin: 120, Pedigree: 0.6}

	res, err := ev.Evaluate(in)
	require.NoError(t, err)
	assert.Equal(t, 41.24, res.Probability)
}

func TestEvaluate_PredictorError(t *testing.T) {
	ev := New(&stubPredictor{err: errors.New("boom")}, &recordingExplainer{})

	_, err := ev.Evaluate(features.Defaults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "risk model inference failed")
}

func TestEvaluate_ExplainerError(t *testing.T) {
	ev := New(&stubPredictor{probability: 0.6}, &recordingExplainer{err: errors.New("boom")})

	in := features.Inputs{Age: 50, HeightCm: 160, WeightKg: 95, Glucose: 150, BloodPressure: 85, Insulin: 120, Pedigree: 0.6}

	_, err := ev.Evaluate(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attribution failed")
}

func TestEvaluate_IdempotentWithRealPipeline(t *testing.T) {
	artifact, err := model.LoadArtifact(filepath.Join("..", "model", "testdata", "model.json"))
	require.NoError(t, err)

	ref, err := dataset.Load(filepath.Join("..", "dataset", "testdata", "diabetes_sample.csv"))
	require.NoError(t, err)

	explainer, err := explain.NewLinearExplainer(artifact, ref)
	require.NoError(t, err)

	ev := New(model.NewPipeline(artifact), explainer)

	in := features.Inputs{Age: 52, Pregnancies: 3, HeightCm: 158, WeightKg: 92, Glucose: 175, BloodPressure: 88, SkinThickness: 32, Insulin: 210, Pedigree: 0.7}

	first, err := ev.Evaluate(in)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := ev.Evaluate(in)
		require.NoError(t, err)

		assert.Equal(t, first.Band, again.Band)
		assert.Equal(t, first.Probability, again.Probability)
		assert.Equal(t, first.Influences, again.Influences)
		assert.Equal(t, first.BMI, again.BMI)
	}
}

func TestEvaluate_ResultCarriesGuidance(t *testing.T) {
	ev := New(&stubPredictor{probability: 0.5}, &recordingExplainer{contribs: defaultContribs()})

	in := features.Inputs{Age: 50, HeightCm: 160, WeightKg: 95, Glucose: 150, BloodPressure: 85, Insulin: 120, Pedigree: 0.6}

	res, err := ev.Evaluate(in)
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Len(t, res.Guidance, 3)
	assert.Contains(t, res.Summary, "historical health data")
	assert.NotEmpty(t, res.Disclaimer)
}
