package vanilla

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// sanitizeLabel keeps inline formatting in role labels and descriptions and
// strips everything else. The result is safe to emit without escaping.
func sanitizeLabel(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(labelSanitizer().Sanitize(trimmed))
}

func labelSanitizer() *bluemonday.Policy {
	labelPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "em", "i", "code", "small", "span")
		policy.AllowAttrs("class").OnElements("span")
		labelPolicy = policy
	})
	return labelPolicy
}

func controlID(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return ""
	}
	return "rf-" + trimmed
}

// sanitizeClassList drops reserved roleform- classes from user supplied class
// lists so they cannot collide with chrome styling.
func sanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.HasPrefix(token, "roleform-") {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

// inlineCSSVars renders CSS custom properties as a style attribute value in
// stable order.
func inlineCSSVars(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	names := slices.Sorted(maps.Keys(vars))
	parts := make([]string, 0, len(names))
	for _, name := range names {
		value := strings.TrimSpace(vars[name])
		if value == "" || strings.ContainsAny(value, ";{}") {
			continue
		}
		parts = append(parts, name+": "+value)
	}
	return strings.Join(parts, "; ")
}
