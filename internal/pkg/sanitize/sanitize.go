package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict strips every tag and attribute, leaving only text content.
var strict = bluemonday.StrictPolicy()

// Text removes all markup from user-supplied text before it is persisted.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
