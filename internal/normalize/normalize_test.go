package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalysisEmptyInputGetsDefaults(t *testing.T) {
	out := Analysis(map[string]any{})

	require.Equal(t, DefaultSummary, out.Summary)
	require.Equal(t, DefaultDiagnosis, out.Diagnosis)
	require.Equal(t, defaultKeyPoints, out.KeyPoints)
	require.Equal(t, defaultTreatmentPlan, out.TreatmentPlan)
}

func TestAnalysisPassesThroughCleanFields(t *testing.T) {
	out := Analysis(map[string]any{
		"summary":        "Client discussed coping strategies.",
		"diagnosis":      "Generalized Anxiety Disorder",
		"key_points":     []any{"Improved sleep", "Reduced avoidance"},
		"treatment_plan": []any{"CBT: Weekly sessions"},
	})

	require.Equal(t, "Client discussed coping strategies.", out.Summary)
	require.Equal(t, "Generalized Anxiety Disorder", out.Diagnosis)
	require.Equal(t, []string{"Improved sleep", "Reduced avoidance"}, out.KeyPoints)
	require.Equal(t, []string{"CBT: Weekly sessions"}, out.TreatmentPlan)
}

func TestAnalysisNestedDiagnosis(t *testing.T) {
	out := Analysis(map[string]any{
		"diagnosis": map[string]any{
			"name":     "Adjustment disorder",
			"severity": "mild",
		},
	})
	require.Equal(t, "Adjustment disorder", out.Diagnosis)
}

func TestAnalysisNestedDiagnosisAlternateKeys(t *testing.T) {
	out := Analysis(map[string]any{
		"diagnosis": map[string]any{"primary_diagnosis": "Major Depressive Disorder"},
	})
	require.Equal(t, "Major Depressive Disorder", out.Diagnosis)

	out = Analysis(map[string]any{
		"diagnosis": map[string]any{"code": "F32.1"},
	})
	require.Equal(t, "F32.1", out.Diagnosis)
}

func TestAnalysisSingleStringKeyPointsWrapped(t *testing.T) {
	out := Analysis(map[string]any{"key_points": "Client is making progress"})
	require.Equal(t, []string{"Client is making progress"}, out.KeyPoints)
}

func TestAnalysisDropsEmptyListItems(t *testing.T) {
	out := Analysis(map[string]any{
		"key_points": []any{"Valid point", "", "   "},
	})
	require.Equal(t, []string{"Valid point"}, out.KeyPoints)
}

func TestAnalysisStructuredTreatmentPlan(t *testing.T) {
	out := Analysis(map[string]any{
		"treatment_plan": []any{
			map[string]any{
				"intervention_type":   "CBT",
				"technique":           "Thought records",
				"frequency":           "Weekly",
				"goal":                "Reduce catastrophizing",
				"homework_assignment": "Daily thought log",
			},
		},
	})

	require.Equal(t,
		[]string{"CBT: Thought records weekly. Goal: Reduce catastrophizing. Homework: Daily thought log"},
		out.TreatmentPlan)
}

func TestAnalysisNumericSummary(t *testing.T) {
	out := Analysis(map[string]any{"summary": float64(42)})
	require.Equal(t, "42", out.Summary)
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"surrounding quotes", `"quoted text"`, "quoted text"},
		{"surrounding brackets", "[item one]", "item one"},
		{"escaped newlines", `line one\nline two`, "line one line two"},
		{"collapsed whitespace", "too   many    spaces", "too many spaces"},
		{"empty", "   ", ""},
		{"json object flattened", `{"a":"first","b":"second"}`, "first. second"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestJoinValuesDeterministic(t *testing.T) {
	m := map[string]any{"z": "last", "a": "first", "m": "middle"}
	for i := 0; i < 20; i++ {
		require.Equal(t, "first. middle. last", joinValues(m))
	}
}
