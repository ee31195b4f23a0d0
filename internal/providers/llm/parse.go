package llm

import (
	"encoding/json"
	"strings"
)

// parseAnalysisText turns raw model text into a generic map. It never fails:
// direct JSON first, then the largest balanced object substring, then a
// line-level salvage, and finally a fixed fallback record.
func parseAnalysisText(text string) map[string]any {
	text = strings.TrimSpace(text)
	if text == "" {
		return fallbackAnalysis()
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(text), &out); err == nil {
		return out
	}

	if inner := extractObject(text); inner != "" {
		if err := json.Unmarshal([]byte(inner), &out); err == nil {
			return out
		}
	}

	if salvaged := salvageLines(text); salvaged != nil {
		return salvaged
	}

	return fallbackAnalysis()
}

// extractObject returns the substring from the first "{" to the last "}".
func extractObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// salvageLines rebuilds an object from lines that look like JSON members, for
// responses where the model emitted members without enclosing braces.
func salvageLines(text string) map[string]any {
	var members []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ","))
		if strings.HasPrefix(trimmed, `"`) && strings.Contains(trimmed, ":") {
			members = append(members, trimmed)
		}
	}
	if len(members) == 0 {
		return nil
	}

	var out map[string]any
	candidate := "{\n" + strings.Join(members, ",\n") + "\n}"
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return nil
	}
	return out
}

// fallbackAnalysis is the fixed record substituted when the model output is
// unparseable. It flows through the normalizer like any other result.
func fallbackAnalysis() map[string]any {
	return map[string]any{
		"summary":   "Session analysis encountered technical difficulties. Manual review recommended.",
		"diagnosis": "Technical analysis incomplete. Clinical review required.",
		"key_points": []any{
			"Automated analysis encountered parsing issues",
			"Manual clinical review recommended",
			"Session content preserved for review",
		},
		"treatment_plan": []any{
			"Clinical Review: Manual review of session transcript by qualified clinician",
			"Technical Support: Contact system administrator regarding analysis parsing issues",
			"Follow-up: Schedule follow-up session to ensure continuity of care",
		},
	}
}
