package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notewell/notewell/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       models.Category
	}{
		{
			name:       "crisis",
			transcript: "Sometimes I think about suicide and it scares me.",
			want:       models.CategoryCrisis,
		},
		{
			name:       "anxiety",
			transcript: "I feel anxious and can't sleep lately due to work stress.",
			want:       models.CategoryAnxiety,
		},
		{
			name:       "depression",
			transcript: "Everything feels hopeless and I have no energy.",
			want:       models.CategoryDepression,
		},
		{
			name:       "relationship",
			transcript: "My marriage has been difficult since the move.",
			want:       models.CategoryRelationship,
		},
		{
			name:       "trauma",
			transcript: "The flashbacks from the accident keep coming back.",
			want:       models.CategoryTrauma,
		},
		{
			name:       "substance use",
			transcript: "My drinking has gotten worse over the past month.",
			want:       models.CategorySubstanceUse,
		},
		{
			name:       "work stress",
			transcript: "My boss keeps piling on deadlines and I am burned out.",
			want:       models.CategoryWorkStress,
		},
		{
			name:       "no keywords",
			transcript: "We talked about my garden and the weather this week.",
			want:       models.CategoryGeneral,
		},
		{
			name:       "case insensitive",
			transcript: "I HAVE BEEN HAVING PANIC ATTACKS",
			want:       models.CategoryAnxiety,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.transcript))
		})
	}
}

func TestClassifyCrisisTakesPrecedence(t *testing.T) {
	// Crisis indicators must win over every co-occurring category.
	got := Classify("I want to kill myself but I'm also stressed about work")
	require.Equal(t, models.CategoryCrisis, got)
}

func TestClassifyCategoryOrdering(t *testing.T) {
	// Anxiety is checked before work stress, so a transcript mentioning both
	// classifies as anxiety.
	got := Classify("I feel anxious and can't sleep lately due to work stress")
	require.Equal(t, models.CategoryAnxiety, got)
}
