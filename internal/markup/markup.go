// Package markup turns task subjects into escaped rich text with links and
// highlighted tags.
package markup

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dori/tally/internal/model"
)

// Word characters follow Unicode letters and digits, whitespace includes
// Unicode separators.
const (
	word  = `\p{L}\p{M}\p{N}\p{Pc}`
	space = `\s\v\p{Z}`
)

var (
	linkPattern = regexp.MustCompile(`[` + word + `]+://[^` + space + `]+`)
	tagPattern  = regexp.MustCompile(`(^|[` + space + `])([+@][` + word + `\-\\]+)`)

	escaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"'", "&apos;",
		`"`, "&quot;",
	)
)

// Escape replaces the five markup-significant characters with entities
func Escape(s string) string {
	return escaper.Replace(s)
}

// RenderSubject returns the task subject as markup: escaped, with every
// scheme://... run wrapped in a link and every tag that starts the subject
// or follows whitespace wrapped in <b>.
func RenderSubject(task model.Task) string {
	return Render(task.Subject)
}

// Render is RenderSubject for a bare subject string
func Render(subject string) string {
	s := Escape(subject)

	s = linkPattern.ReplaceAllStringFunc(s, func(url string) string {
		return fmt.Sprintf(`<a href="%s">%s</a>`, strings.ReplaceAll(url, "&", "&amp;"), url)
	})

	return tagPattern.ReplaceAllString(s, "${1}<b>${2}</b>")
}

// Kind classifies a span of subject text
type Kind int

const (
	Text Kind = iota
	Link
	Tag
)

// Span is a run of raw subject text with a single kind
type Span struct {
	Kind Kind
	Text string
}

// Spans splits a raw, unescaped subject into text, link and tag runs using
// the same rules as Render. Concatenating the span texts gives back subject.
func Spans(subject string) []Span {
	var spans []Span
	emit := func(kind Kind, text string) {
		if text == "" {
			return
		}
		if n := len(spans); n > 0 && spans[n-1].Kind == Text && kind == Text {
			spans[n-1].Text += text
			return
		}
		spans = append(spans, Span{Kind: kind, Text: text})
	}

	// Links end at whitespace, so every segment after a link starts with
	// the separator a following tag needs.
	last := 0
	for _, loc := range linkPattern.FindAllStringIndex(subject, -1) {
		tagSpans(subject[last:loc[0]], emit)
		emit(Link, subject[loc[0]:loc[1]])
		last = loc[1]
	}
	tagSpans(subject[last:], emit)

	return spans
}

func tagSpans(segment string, emit func(Kind, string)) {
	last := 0
	for _, m := range tagPattern.FindAllStringSubmatchIndex(segment, -1) {
		// m[4]:m[5] is the tag without its leading separator
		emit(Text, segment[last:m[4]])
		emit(Tag, segment[m[4]:m[5]])
		last = m[5]
	}
	emit(Text, segment[last:])
}
