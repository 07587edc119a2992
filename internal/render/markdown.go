// Package render converts post bodies from markdown to HTML for read views.
package render

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
)

var md = goldmark.New()

// HTML renders src as markdown. A conversion failure degrades to the
// HTML-escaped literal source rather than propagating an error; a bad post
// body must never break a read path.
func HTML(src string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return html.EscapeString(src)
	}
	return buf.String()
}
