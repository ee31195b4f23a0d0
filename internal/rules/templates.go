package rules

import "github.com/notewell/notewell/internal/models"

// templates hold the hand-authored analysis per category. Confidence is fixed
// per category and reflects the decreasing certainty of a templated,
// non-personalized response.
var templates = map[models.Category]models.ClinicalAnalysis{
	models.CategoryCrisis: {
		Summary:   "Client presents with safety concerns and potential self-harm ideation requiring immediate intervention.",
		Diagnosis: "Crisis Intervention Required - Immediate Safety Assessment",
		KeyPoints: []string{
			"Active safety concerns identified in session",
			"Immediate risk assessment needed",
			"Crisis intervention protocols required",
			"Urgent clinical attention necessary",
		},
		TreatmentPlan: []string{
			"Crisis Assessment: Immediate safety evaluation and risk assessment",
			"Safety Planning: Develop comprehensive safety plan with emergency contacts",
			"Emergency Resources: Provide crisis hotline numbers and emergency services",
			"Immediate Follow-up: Schedule urgent follow-up within 24-48 hours",
			"Professional Consultation: Contact supervising clinician immediately",
		},
		Category:   models.CategoryCrisis,
		Confidence: 0.95,
	},
	models.CategoryAnxiety: {
		Summary:   "Client reports anxiety-related symptoms impacting daily functioning and quality of life.",
		Diagnosis: "Anxiety Disorder - Comprehensive Assessment Recommended",
		KeyPoints: []string{
			"Anxiety symptoms significantly impacting functioning",
			"Physical and emotional manifestations present",
			"Avoidance behaviors may be developing",
			"Coping strategies need enhancement",
		},
		TreatmentPlan: []string{
			"Anxiety Assessment: Comprehensive evaluation using standardized anxiety measures",
			"Cognitive Behavioral Therapy: Weekly sessions focusing on thought restructuring",
			"Relaxation Training: Progressive muscle relaxation and breathing techniques",
			"Exposure Therapy: Gradual exposure to anxiety triggers when appropriate",
			"Lifestyle Interventions: Sleep hygiene and stress management techniques",
		},
		Category:   models.CategoryAnxiety,
		Confidence: 0.80,
	},
	models.CategoryDepression: {
		Summary:   "Client presents with depressive symptoms affecting mood, energy, and daily activities.",
		Diagnosis: "Depressive Disorder - Clinical Evaluation Recommended",
		KeyPoints: []string{
			"Persistent low mood and energy reported",
			"Impact on daily activities and relationships",
			"Negative thought patterns identified",
			"Sleep and appetite changes may be present",
		},
		TreatmentPlan: []string{
			"Depression Screening: Administer PHQ-9 and assess symptom severity",
			"Behavioral Activation: Schedule pleasant activities and social engagement",
			"Cognitive Therapy: Address negative thought patterns and cognitive distortions",
			"Lifestyle Interventions: Sleep hygiene, exercise, and nutrition counseling",
			"Medical Evaluation: Consider referral for psychiatric assessment if indicated",
		},
		Category:   models.CategoryDepression,
		Confidence: 0.80,
	},
	models.CategoryRelationship: {
		Summary:   "Client discusses relationship dynamics and interpersonal challenges requiring therapeutic support.",
		Diagnosis: "Relationship Issues - Couples or Family Therapy Indicated",
		KeyPoints: []string{
			"Interpersonal conflicts affecting well-being",
			"Communication patterns need improvement",
			"Relationship satisfaction concerns",
			"Family dynamics impacting individual functioning",
		},
		TreatmentPlan: []string{
			"Relationship Assessment: Evaluate communication patterns and conflict resolution",
			"Communication Skills: Teach active listening and assertiveness techniques",
			"Couples Therapy: Consider joint sessions if partner is willing to participate",
			"Boundary Setting: Develop healthy boundaries in relationships",
			"Family Systems Work: Address family dynamics and roles",
		},
		Category:   models.CategoryRelationship,
		Confidence: 0.75,
	},
	models.CategoryTrauma: {
		Summary:   "Client reports trauma-related symptoms requiring specialized trauma-informed treatment.",
		Diagnosis: "Trauma/PTSD - Specialized Assessment Recommended",
		KeyPoints: []string{
			"Trauma history significantly impacting current functioning",
			"Re-experiencing symptoms may be present",
			"Avoidance and hypervigilance behaviors noted",
			"Specialized trauma treatment indicated",
		},
		TreatmentPlan: []string{
			"Trauma Assessment: Comprehensive PTSD evaluation using PCL-5 or similar",
			"Trauma-Focused Therapy: Consider EMDR or Trauma-Focused CBT",
			"Stabilization: Grounding techniques and emotional regulation skills",
			"Safety Planning: Ensure current safety and develop coping strategies",
			"Specialized Referral: Connect with trauma-specialized therapist",
		},
		Category:   models.CategoryTrauma,
		Confidence: 0.85,
	},
	models.CategorySubstanceUse: {
		Summary:   "Client discusses substance use concerns requiring assessment and potential treatment planning.",
		Diagnosis: "Substance Use Disorder - Comprehensive Evaluation Required",
		KeyPoints: []string{
			"Substance use patterns affecting life functioning",
			"Potential dependency or abuse issues",
			"Impact on relationships and responsibilities",
			"Motivation for change assessment needed",
		},
		TreatmentPlan: []string{
			"Substance Use Assessment: Comprehensive evaluation using AUDIT or DAST tools",
			"Motivational Interviewing: Explore readiness for change and treatment goals",
			"Relapse Prevention: Develop coping strategies and trigger identification",
			"Support Groups: Consider AA/NA or other peer support programs",
			"Medical Evaluation: Assess need for medical detox or medication support",
		},
		Category:   models.CategorySubstanceUse,
		Confidence: 0.80,
	},
	models.CategoryWorkStress: {
		Summary:   "Client reports work-related stress and occupational challenges impacting overall well-being.",
		Diagnosis: "Occupational Stress - Adjustment Support Recommended",
		KeyPoints: []string{
			"Work-related stressors affecting mental health",
			"Work-life balance challenges identified",
			"Occupational functioning concerns",
			"Stress management skills needed",
		},
		TreatmentPlan: []string{
			"Stress Assessment: Evaluate sources and impact of occupational stress",
			"Stress Management: Teach time management and prioritization skills",
			"Boundary Setting: Develop healthy work-life boundaries",
			"Career Counseling: Explore career satisfaction and potential changes",
			"Workplace Interventions: Consider workplace accommodations if needed",
		},
		Category:   models.CategoryWorkStress,
		Confidence: 0.75,
	},
	models.CategoryGeneral: {
		Summary:   "Client engaged in therapeutic discussion addressing personal concerns and seeking professional support.",
		Diagnosis: "General Adjustment - Comprehensive Assessment Pending",
		KeyPoints: []string{
			"Client actively engaged in therapeutic process",
			"Multiple life stressors may be present",
			"Seeking professional guidance and support",
			"Motivation for positive change demonstrated",
		},
		TreatmentPlan: []string{
			"Comprehensive Assessment: Complete biopsychosocial evaluation",
			"Goal Setting: Collaborate on specific therapeutic objectives",
			"Therapeutic Alliance: Establish strong working relationship",
			"Treatment Planning: Develop individualized intervention approach",
			"Regular Monitoring: Track progress and adjust treatment as needed",
		},
		Category:   models.CategoryGeneral,
		Confidence: 0.70,
	},
}

// Render returns the fixed analysis template for a category. Slices are copied
// so callers cannot mutate the shared templates.
func Render(cat models.Category) models.ClinicalAnalysis {
	tmpl, ok := templates[cat]
	if !ok {
		tmpl = templates[models.CategoryGeneral]
	}
	out := tmpl
	out.KeyPoints = append([]string(nil), tmpl.KeyPoints...)
	out.TreatmentPlan = append([]string(nil), tmpl.TreatmentPlan...)
	return out
}
