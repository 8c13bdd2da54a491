package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ReputedGhost/diabetes-risk-awareness/internal/features"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	ref, err := Load(filepath.Join("testdata", "diabetes_sample.csv"))
	require.NoError(t, err)

	assert.Equal(t, 20, ref.Len())

	means := ref.Means()
	require.Len(t, means, features.Count)

	// Glucose is column 1; spot-check the mean against a hand sum.
	total := 0.0
	for i := 0; i < ref.Len(); i++ {
		total += ref.Row(i)[1]
	}
	assert.InDelta(t, total/20, means[1], 1e-9)

	// Means() must hand out a copy of the baseline.
	means[0] = -999
	assert.NotEqual(t, means[0], ref.Means()[0])
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "absent.csv"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open reference dataset")
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ref.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_BadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "header only",
			content: "Pregnancies,Glucose,BloodPressure,SkinThickness,Insulin,DiabetesPedigreeFunction,BMI,Age,Outcome\n",
			wantErr: "no data rows",
		},
		{
			name:    "wrong column order",
			content: "Pregnancies,Glucose,BloodPressure,SkinThickness,Insulin,BMI,DiabetesPedigreeFunction,Age,Outcome\n1,85,66,29,0,26.6,0.351,31,0\n",
			wantErr: "expected \"DiabetesPedigreeFunction\"",
		},
		{
			name:    "missing outcome column",
			content: "Pregnancies,Glucose,BloodPressure,SkinThickness,Insulin,DiabetesPedigreeFunction,BMI,Age\n1,85,66,29,0,0.351,26.6,31\n",
			wantErr: "expected 9 columns",
		},
		{
			name:    "non-numeric feature value",
			content: "Pregnancies,Glucose,BloodPressure,SkinThickness,Insulin,DiabetesPedigreeFunction,BMI,Age,Outcome\n1,abc,66,29,0,0.351,26.6,31,0\n",
			wantErr: "column \"Glucose\"",
		},
		{
			name:    "non-numeric outcome",
			content: "Pregnancies,Glucose,BloodPressure,SkinThickness,Insulin,DiabetesPedigreeFunction,BMI,Age,Outcome\n1,85,66,29,0,0.351,26.6,31,yes\n",
			wantErr: "outcome",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeCSV(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
