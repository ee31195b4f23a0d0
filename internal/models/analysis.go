package models

// Category is the primary clinical theme detected in a session transcript.
type Category string

const (
	CategoryCrisis       Category = "crisis"
	CategoryAnxiety      Category = "anxiety"
	CategoryDepression   Category = "depression"
	CategoryRelationship Category = "relationship"
	CategoryTrauma       Category = "trauma"
	CategorySubstanceUse Category = "substance_use"
	CategoryWorkStress   Category = "work_stress"
	CategoryGeneral      Category = "general"
)

// ClinicalAnalysis is the canonical analysis result. All four text fields are
// guaranteed non-empty after normalization, whichever path produced them.
type ClinicalAnalysis struct {
	Summary       string   `json:"summary"`
	Diagnosis     string   `json:"diagnosis"`
	KeyPoints     []string `json:"key_points"`
	TreatmentPlan []string `json:"treatment_plan"`
	Category      Category `json:"category"`
	Confidence    float64  `json:"confidence"`
}
