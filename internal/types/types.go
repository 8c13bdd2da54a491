package types

import (
	"github.com/ReputedGhost/diabetes-risk-awareness/internal/features"
)

// EvaluateRequest is the JSON body accepted by the evaluate endpoint.
// All fields are optional: absent fields fall back to the published
// defaults, present fields are clamped into their allowed range.
type EvaluateRequest struct {
	Age              *int     `json:"age"`
	Pregnancies      *int     `json:"pregnancies"`
	HeightCm         *int     `json:"height_cm"`
	WeightKg         *int     `json:"weight_kg"`
	Glucose          *int     `json:"glucose"`
	BloodPressure    *int     `json:"blood_pressure"`
	SkinThickness    *int     `json:"skin_thickness"`
	Insulin          *int     `json:"insulin"`
	DiabetesPedigree *float64 `json:"diabetes_pedigree"`
}

// Inputs converts the request into feature inputs, filling absent
// fields with their defaults.
func (r EvaluateRequest) Inputs() features.Inputs {
	in := features.Defaults()
	if r.Age != nil {
		in.Age = *r.Age
	}
	if r.Pregnancies != nil {
		in.Pregnancies = *r.Pregnancies
	}
	if r.HeightCm != nil {
		in.HeightCm = *r.HeightCm
	}
	if r.WeightKg != nil {
		in.WeightKg = *r.WeightKg
	}
	if r.Glucose != nil {
		in.Glucose = *r.Glucose
	}
	if r.BloodPressure != nil {
		in.BloodPressure = *r.BloodPressure
	}
	if r.SkinThickness != nil {
		in.SkinThickness = *r.SkinThickness
	}
	if r.Insulin != nil {
		in.Insulin = *r.Insulin
	}
	if r.DiabetesPedigree != nil {
		in.Pedigree = *r.DiabetesPedigree
	}
	return in
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status       string `json:"status"`
	ModelVersion string `json:"model_version"`
	DatasetRows  int    `json:"dataset_rows"`
	Uptime       string `json:"uptime"`
}

// ErrorResponse is the uniform error envelope for API failures.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}
