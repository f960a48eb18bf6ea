// internal/app/system/htmlsanitize/htmlsanitize.go
// Package htmlsanitize cleans user-supplied text before it is persisted.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc keeps the formatting tags user-generated content may carry.
	ugc = bluemonday.UGCPolicy()
	// strict removes all markup, leaving plain text.
	strict = bluemonday.StrictPolicy()
)

// Sanitize removes dangerous markup (scripts, event handlers, javascript:
// URLs) while preserving safe formatting. Used for idea descriptions.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// Strip removes all markup and trims surrounding whitespace. Used for chat
// messages, which are plain text on the wire.
func Strip(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
