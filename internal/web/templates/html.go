// Package templates renders the site's HTML as templ components.
//
// Every string that originates in a spreadsheet goes through text or attr,
// both of which escape it. Multi-line descriptions are rendered one escaped
// line at a time, joined with <br>.
package templates

import (
	"io"
	"strings"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func newWriter(w io.Writer) *htmlWriter {
	return &htmlWriter{w: w}
}

// raw writes trusted markup.
func (h *htmlWriter) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes escaped text content.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes name="value" with value escaped.
func (h *htmlWriter) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// lines writes each line escaped, separated by <br>.
func (h *htmlWriter) lines(lines []string) {
	for i, l := range lines {
		if i > 0 {
			h.raw("<br>")
		}
		h.text(l)
	}
}

// splitText splits a description on newlines for rendering with <br>.
func splitText(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}
