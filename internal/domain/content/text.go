// Package content renders editor supplied markdown for display.
package content

import (
	"html/template"
	"strings"

	bm "github.com/microcosm-cc/bluemonday"
	bf "github.com/russross/blackfriday"
)

var ugcPolicy = bm.UGCPolicy()

// Markdown renders an editor description to sanitised HTML.
func Markdown(source string) template.HTML {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return ""
	}
	rendered := bf.MarkdownCommon([]byte(trimmed))
	// #nosec G203 -- output passed through the UGC policy.
	return template.HTML(ugcPolicy.SanitizeBytes(rendered))
}
