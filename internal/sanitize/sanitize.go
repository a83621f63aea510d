// Package sanitize strips markup from user-supplied free text before it is
// stored or echoed back to other users.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all HTML and trims surrounding whitespace. Descriptions and
// review notes are plain text everywhere in the product.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
