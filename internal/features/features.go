package features

import "math"

// Canonical feature order. The frozen classifier was trained on columns in
// exactly this order, so the vector layout and the reference dataset header
// must both match it.
var featureNames = []string{
	"Pregnancies",
	"Glucose",
	"BloodPressure",
	"SkinThickness",
	"Insulin",
	"DiabetesPedigreeFunction",
	"BMI",
	"Age",
}

// Count is the number of model features.
const Count = 8

// Names returns the feature names in training order.
func Names() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames)
	return out
}

// Range describes the accepted bounds and prefill default for one input field.
type Range struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
}

// Input field ranges for the intake form.
var (
	AgeRange           = Range{Min: 1, Max: 120, Default: 30}
	PregnanciesRange   = Range{Min: 0, Max: 20, Default: 0}
	HeightCmRange      = Range{Min: 100, Max: 220, Default: 170}
	WeightKgRange      = Range{Min: 30, Max: 200, Default: 70}
	GlucoseRange       = Range{Min: 50, Max: 300, Default: 120}
	BloodPressureRange = Range{Min: 40, Max: 200, Default: 80}
	SkinThicknessRange = Range{Min: 0, Max: 100, Default: 20}
	InsulinRange       = Range{Min: 0, Max: 900, Default: 80}
	PedigreeRange      = Range{Min: 0.0, Max: 3.0, Default: 0.0}
)

// Clamp forces v into the range bounds.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Inputs holds the raw self-reported values for one evaluation. BMI is not
// an input: it is always derived from height and weight.
type Inputs struct {
	Age           int     `json:"age"`
	Pregnancies   int     `json:"pregnancies"`
	HeightCm      int     `json:"height_cm"`
	WeightKg      int     `json:"weight_kg"`
	Glucose       int     `json:"glucose"`
	BloodPressure int     `json:"blood_pressure"`
	SkinThickness int     `json:"skin_thickness"`
	Insulin       int     `json:"insulin"`
	Pedigree      float64 `json:"diabetes_pedigree"`
}

// Defaults returns the prefilled intake form.
func Defaults() Inputs {
	return Inputs{
		Age:           int(AgeRange.Default),
		Pregnancies:   int(PregnanciesRange.Default),
		HeightCm:      int(HeightCmRange.Default),
		WeightKg:      int(WeightKgRange.Default),
		Glucose:       int(GlucoseRange.Default),
		BloodPressure: int(BloodPressureRange.Default),
		SkinThickness: int(SkinThicknessRange.Default),
		Insulin:       int(InsulinRange.Default),
		Pedigree:      PedigreeRange.Default,
	}
}

// Clamped returns a copy with every field forced into its declared range.
// Downstream policy logic never observes out-of-domain values.
func (in Inputs) Clamped() Inputs {
	return Inputs{
		Age:           int(AgeRange.Clamp(float64(in.Age))),
		Pregnancies:   int(PregnanciesRange.Clamp(float64(in.Pregnancies))),
		HeightCm:      int(HeightCmRange.Clamp(float64(in.HeightCm))),
		WeightKg:      int(WeightKgRange.Clamp(float64(in.WeightKg))),
		Glucose:       int(GlucoseRange.Clamp(float64(in.Glucose))),
		BloodPressure: int(BloodPressureRange.Clamp(float64(in.BloodPressure))),
		SkinThickness: int(SkinThicknessRange.Clamp(float64(in.SkinThickness))),
		Insulin:       int(InsulinRange.Clamp(float64(in.Insulin))),
		Pedigree:      PedigreeRange.Clamp(in.Pedigree),
	}
}

// BMI computes body-mass index from height in cm and weight in kg, rounded
// to two decimal places.
func BMI(heightCm, weightKg float64) float64 {
	heightM := heightCm / 100
	return math.Round(weightKg/(heightM*heightM)*100) / 100
}

// Vector is the immutable 8-feature tuple fed to the model, in training
// order.
type Vector struct {
	Pregnancies   float64
	Glucose       float64
	BloodPressure float64
	SkinThickness float64
	Insulin       float64
	Pedigree      float64
	BMI           float64
	Age           float64
}

// Vector clamps the inputs, derives BMI, and lays the values out in
// training order.
func (in Inputs) Vector() Vector {
	c := in.Clamped()
	return Vector{
		Pregnancies:   float64(c.Pregnancies),
		Glucose:       float64(c.Glucose),
		BloodPressure: float64(c.BloodPressure),
		SkinThickness: float64(c.SkinThickness),
		Insulin:       float64(c.Insulin),
		Pedigree:      c.Pedigree,
		BMI:           BMI(float64(c.HeightCm), float64(c.WeightKg)),
		Age:           float64(c.Age),
	}
}

// Values returns the feature values in training order.
func (v Vector) Values() []float64 {
	return []float64{
		v.Pregnancies,
		v.Glucose,
		v.BloodPressure,
		v.SkinThickness,
		v.Insulin,
		v.Pedigree,
		v.BMI,
		v.Age,
	}
}

// FieldSchema describes one intake field for form rendering.
type FieldSchema struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Range
}

// Schema returns the intake form contract: field names, bounds, and
// defaults in display order.
func Schema() []FieldSchema {
	return []FieldSchema{
		{Name: "age", Label: "Age (years)", Range: AgeRange},
		{Name: "pregnancies", Label: "Number of pregnancies (0 if not applicable)", Range: PregnanciesRange},
		{Name: "height_cm", Label: "Height (cm)", Range: HeightCmRange},
		{Name: "weight_kg", Label: "Weight (kg)", Range: WeightKgRange},
		{Name: "glucose", Label: "Blood sugar level (glucose)", Range: GlucoseRange},
		{Name: "blood_pressure", Label: "Blood pressure (lower number)", Range: BloodPressureRange},
		{Name: "skin_thickness", Label: "Skin thickness (leave default if unknown)", Range: SkinThicknessRange},
		{Name: "insulin", Label: "Insulin level (leave default if unknown)", Range: InsulinRange},
		{Name: "diabetes_pedigree", Label: "Family history of diabetes", Range: PedigreeRange},
	}
}
