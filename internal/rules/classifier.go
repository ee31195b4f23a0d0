// Package rules implements the deterministic analysis path: keyword-driven
// category detection and fixed clinical templates per category. It is the
// fallback when the external model is unavailable, disabled, or fails.
package rules

import (
	"strings"

	"github.com/notewell/notewell/internal/models"
)

// keywordSets are checked in order. Crisis sits first on purpose: crisis
// indicators must never be masked by a co-occurring lower-priority category.
var keywordSets = []struct {
	category models.Category
	words    []string
}{
	{models.CategoryCrisis, []string{"suicidal", "suicide", "kill myself", "end it all", "harm myself", "die"}},
	{models.CategoryAnxiety, []string{"panic", "anxiety", "anxious", "worried", "nervous", "fear", "phobia"}},
	{models.CategoryDepression, []string{"depressed", "depression", "sad", "hopeless", "empty", "worthless", "guilt"}},
	{models.CategoryRelationship, []string{"relationship", "marriage", "divorce", "family", "partner", "spouse", "conflict"}},
	{models.CategoryTrauma, []string{"trauma", "ptsd", "flashback", "nightmare", "abuse", "assault"}},
	{models.CategorySubstanceUse, []string{"alcohol", "drinking", "drugs", "substance", "addiction", "recovery"}},
	{models.CategoryWorkStress, []string{"work", "job", "career", "boss", "workplace", "stress", "burnout"}},
}

// Classify returns the primary clinical category for a transcript. It is total:
// transcripts matching no keyword set classify as general.
func Classify(transcript string) models.Category {
	lower := strings.ToLower(transcript)
	for _, set := range keywordSets {
		for _, w := range set.words {
			if strings.Contains(lower, w) {
				return set.category
			}
		}
	}
	return models.CategoryGeneral
}
