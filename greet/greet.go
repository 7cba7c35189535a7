// Package greet implements the demo request handler: it echoes the input
// back inside a fixed greeting template.
package greet

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/guestkit/guestkit"
)

// placeholder is substituted for input that is not valid UTF-8. It is the
// literal empty-object text, so the response stays plausible even for
// garbage input.
const placeholder = "{}"

// template is the fixed response. The backslashes are literal bytes of the
// output, they are not Go escapes.
const template = `{\"message\": \"Hello from Rust WASM!\", \"input\": \"%s\"}`

// Handler responds to every input with a greeting that echoes the input.
var Handler guestkit.Handler = guestkit.HandlerFunc(Respond)

// DecodeText interprets b as UTF-8 text. The second return value reports
// whether b was valid; callers decide what to substitute when it was not.
func DecodeText(b []byte) (string, bool) {
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

// EscapeQuotes prefixes every double quote in s with a backslash so the
// result can be embedded in a quoted position of the template.
func EscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Respond builds the response for one input: decode (falling back to the
// empty-object placeholder on invalid UTF-8), escape and embed.
func Respond(input []byte) []byte {
	text, ok := DecodeText(input)
	if !ok {
		text = placeholder
	}
	return fmt.Appendf(nil, template, EscapeQuotes(text))
}
