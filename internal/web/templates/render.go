// Package templates renders the dashboard's HTML pages as templ components.
//
// Components are written against templ.ComponentFunc directly. Every dynamic
// string goes through templ.EscapeString before it reaches the response.
package templates

import (
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
)

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s escaped for element content or a quoted attribute.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

// hidden writes a hidden form input.
func (h *htmlWriter) hidden(name, value string) {
	h.raw(`<input type="hidden" name="`)
	h.text(name)
	h.raw(`" value="`)
	h.text(value)
	h.raw(`">`)
}

// count formats n with thousands separators.
func count(n int) string {
	return humanize.Comma(int64(n))
}

// plural returns "1 row" / "2,048 rows".
func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return count(n) + " " + many
}

func itoa(n int) string { return strconv.Itoa(n) }
