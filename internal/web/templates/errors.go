package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ErrorAlert renders an error fragment with the user-facing message, the
// suggested action and the error code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		writeErrorAlert(h, message, action, code)
		return h.err
	})
}

func writeErrorAlert(h *htmlWriter, message, action, code string) {
	h.raw(`<div class="error-alert" role="alert"><p class="error-message">`)
	h.text(message)
	h.raw(`</p>`)
	if action != "" {
		h.raw(`<p class="error-action">`)
		h.text(action)
		h.raw(`</p>`)
	}
	h.raw(`<p class="error-code">`)
	h.text(code)
	h.raw(`</p></div>`)
}

// ErrorPage wraps ErrorAlert in a full document.
func ErrorPage(title, message, action, code string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		writeHead(h, title)
		h.raw(`<main class="container">`)
		writeErrorAlert(h, message, action, code)
		h.raw(`<p><a href="/">トップへ戻る</a></p></main>`)
		writeFoot(h, title)
		return h.err
	})
}
