// Package normalize repairs loosely structured model output into the fixed
// ClinicalAnalysis shape. The upstream model is instructed to emit flat JSON
// but frequently leaks nested objects or prose-wrapped fragments; every
// function here is total and never returns an empty field.
package normalize

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/notewell/notewell/internal/models"
)

// Fixed replacements for fields the model left empty or unusable.
const (
	DefaultSummary   = "Session analysis completed. Please review transcript for details."
	DefaultDiagnosis = "Clinical assessment pending. Further evaluation recommended."
)

var (
	defaultKeyPoints = []string{
		"Session content reviewed",
		"Clinical assessment in progress",
	}
	defaultTreatmentPlan = []string{
		"Clinical Assessment: Complete comprehensive evaluation to determine appropriate treatment approach",
		"Follow-up: Schedule follow-up session within 1-2 weeks to continue assessment and treatment planning",
	}
)

// Analysis converts raw parsed model output into a populated ClinicalAnalysis.
// Category and Confidence are left zero; the caller assigns them.
func Analysis(raw map[string]any) models.ClinicalAnalysis {
	out := models.ClinicalAnalysis{
		Summary:       Clean(valueText(raw["summary"])),
		Diagnosis:     diagnosisText(raw["diagnosis"]),
		KeyPoints:     pointList(raw["key_points"]),
		TreatmentPlan: planList(raw["treatment_plan"]),
	}

	if out.Summary == "" {
		out.Summary = DefaultSummary
	}
	if out.Diagnosis == "" {
		out.Diagnosis = DefaultDiagnosis
	}
	if len(out.KeyPoints) == 0 {
		out.KeyPoints = append([]string(nil), defaultKeyPoints...)
	}
	if len(out.TreatmentPlan) == 0 {
		out.TreatmentPlan = append([]string(nil), defaultTreatmentPlan...)
	}
	return out
}

// diagnosisText extracts a plain diagnosis string from whatever shape the
// model produced. Nested objects commonly carry the text under "name" or
// "primary_diagnosis".
func diagnosisText(v any) string {
	switch d := v.(type) {
	case map[string]any:
		for _, key := range []string{"name", "primary_diagnosis", "diagnosis"} {
			if s := stringify(d[key]); s != "" {
				return Clean(s)
			}
		}
		return Clean(firstValue(d))
	default:
		return Clean(valueText(v))
	}
}

// pointList normalizes key_points: sequences element by element, single
// strings wrapped into a one-element list, empties dropped.
func pointList(v any) []string {
	var points []string
	switch p := v.(type) {
	case []any:
		for _, item := range p {
			if m, ok := item.(map[string]any); ok {
				points = append(points, Clean(joinValues(m)))
				continue
			}
			points = append(points, Clean(stringify(item)))
		}
	case string:
		points = []string{Clean(p)}
	}
	return lo.Filter(points, func(s string, _ int) bool { return s != "" })
}

// planList normalizes treatment_plan. Structured items with recognizable
// sub-fields are recomposed into natural sentences.
func planList(v any) []string {
	var plan []string
	switch p := v.(type) {
	case []any:
		for _, item := range p {
			if m, ok := item.(map[string]any); ok {
				plan = append(plan, Clean(composePlanItem(m)))
				continue
			}
			plan = append(plan, Clean(stringify(item)))
		}
	case string:
		plan = []string{Clean(p)}
	}
	return lo.Filter(plan, func(s string, _ int) bool { return s != "" })
}

// composePlanItem rebuilds a structured treatment item as
// "Type: description. Goal: .... Homework: ....".
func composePlanItem(m map[string]any) string {
	intervention := stringify(m["intervention_type"])
	if intervention == "" {
		intervention = stringify(m["type"])
	}
	intervention = strings.TrimRight(intervention, ":")

	technique := stringify(m["technique"])
	if technique == "" {
		technique = stringify(m["description"])
	}
	frequency := stringify(m["frequency"])
	goal := stringify(m["goal"])
	homework := stringify(m["homework_assignment"])
	if homework == "" {
		homework = stringify(m["homework"])
	}

	switch {
	case intervention != "" && technique != "":
		var b strings.Builder
		b.WriteString(intervention + ": " + technique)
		if frequency != "" {
			b.WriteString(" " + strings.ToLower(frequency))
		}
		if goal != "" {
			b.WriteString(". Goal: " + goal)
		}
		if homework != "" {
			b.WriteString(". Homework: " + homework)
		}
		return b.String()
	case intervention != "":
		details := make([]string, 0, 4)
		if technique != "" {
			details = append(details, technique)
		}
		if frequency != "" {
			details = append(details, frequency)
		}
		if goal != "" {
			details = append(details, "Goal: "+goal)
		}
		if homework != "" {
			details = append(details, "Homework: "+homework)
		}
		if len(details) > 0 {
			return intervention + ": " + strings.Join(details, ". ")
		}
		return intervention + ":"
	default:
		return joinValues(m)
	}
}

// Clean strips JSON formatting artifacts: surrounding braces, brackets and
// quotes, escaped whitespace, and redundant spaces.
func Clean(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		var m map[string]any
		if err := json.Unmarshal([]byte(text), &m); err == nil && len(m) > 0 {
			text = joinValues(m)
		} else {
			text = strings.TrimSpace(text[1 : len(text)-1])
		}
	}
	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") && len(text) >= 2 {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	if len(text) >= 2 {
		if (strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`)) ||
			(strings.HasPrefix(text, "'") && strings.HasSuffix(text, "'")) {
			text = text[1 : len(text)-1]
		}
	}

	text = strings.ReplaceAll(text, `\"`, `"`)
	text = strings.ReplaceAll(text, `\'`, "'")
	text = strings.ReplaceAll(text, `\n`, " ")
	text = strings.ReplaceAll(text, `\r`, "")
	text = strings.ReplaceAll(text, `\t`, " ")

	return strings.Join(strings.Fields(text), " ")
}

// joinValues flattens a map into one sentence. Keys are sorted: Go map
// iteration is randomized, and normalization must stay deterministic.
func joinValues(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(m))
	for _, k := range keys {
		switch v := m[k].(type) {
		case []any:
			for _, item := range v {
				if s := stringify(item); s != "" {
					parts = append(parts, s)
				}
			}
		default:
			if s := stringify(v); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, ". ")
}

func firstValue(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s := stringify(m[k]); s != "" {
			return s
		}
	}
	return ""
}

// valueText renders any JSON value as text, flattening nested maps.
func valueText(v any) string {
	if m, ok := v.(map[string]any); ok {
		return joinValues(m)
	}
	return stringify(v)
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case map[string]any:
		return joinValues(s)
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}
