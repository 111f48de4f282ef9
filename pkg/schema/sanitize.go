package schema

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// sanitizeLabelMarkup strips everything but harmless inline markup from
// labels, help text, and messages loaded out of schema documents. Schema
// files ship with the binary, but they are also the place integrators paste
// copy from elsewhere.
func sanitizeLabelMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(labelSanitizer().Sanitize(trimmed))
}

func labelSanitizer() *bluemonday.Policy {
	labelPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "i", "em", "strong", "span", "br", "abbr", "sup", "sub")
		policy.AllowAttrs("title").OnElements("abbr", "span")
		labelPolicy = policy
	})
	return labelPolicy
}
