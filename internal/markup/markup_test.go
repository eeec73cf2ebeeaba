package markup

import (
	"strings"
	"testing"

	"github.com/dori/tally/internal/model"
)

func TestRenderSubject(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		want    string
	}{
		{
			name:    "escape and bold",
			subject: "P&T keep focus on long term +HoWE",
			want:    "P&amp;T keep focus on long term <b>+HoWE</b>",
		},
		{
			name:    "all five characters",
			subject: `<a href='x'>"q"&</a>`,
			want:    "&lt;a href=&apos;x&apos;&gt;&quot;q&quot;&amp;&lt;/a&gt;",
		},
		{
			name:    "tag at start",
			subject: "+Tag first",
			want:    "<b>+Tag</b> first",
		},
		{
			name:    "tag without preceding space",
			subject: "word+Tag and mail@example.com",
			want:    "word+Tag and mail@example.com",
		},
		{
			name:    "adjacent tags",
			subject: "+a +b @c",
			want:    "<b>+a</b> <b>+b</b> <b>@c</b>",
		},
		{
			name:    "hierarchical tag",
			subject: "do +Area-Sub now",
			want:    "do <b>+Area-Sub</b> now",
		},
		{
			name:    "link",
			subject: "see http://example.com/a?b=c today",
			want:    `see <a href="http://example.com/a?b=c">http://example.com/a?b=c</a> today`,
		},
		{
			name:    "bare domain not linked",
			subject: "see example.com today",
			want:    "see example.com today",
		},
		{
			name:    "ampersand in link",
			subject: "http://x.org/?a=1&b=2",
			want:    `<a href="http://x.org/?a=1&amp;amp;b=2">http://x.org/?a=1&amp;b=2</a>`,
		},
		{
			name:    "link then tag",
			subject: "https://x.org +p",
			want:    `<a href="https://x.org">https://x.org</a> <b>+p</b>`,
		},
		{
			name:    "empty",
			subject: "",
			want:    "",
		},
		{
			name:    "whitespace only",
			subject: " \t ",
			want:    " \t ",
		},
		{
			name:    "lone sigils",
			subject: "+ @ ://",
			want:    "+ @ ://",
		},
		{
			name:    "unicode tag",
			subject: "plan +Über-straße",
			want:    "plan <b>+Über-straße</b>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := model.NewTask()
			task.Subject = tt.subject
			if got := RenderSubject(task); got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestRenderWithoutMarkupEqualsEscape(t *testing.T) {
	subjects := []string{"a < b", `he said "hi" & left`, "it's > 3"}
	for _, s := range subjects {
		if got, want := Render(s), Escape(s); got != want {
			t.Errorf("Render(%q) = %q, want %q", s, got, want)
		}
	}
}

func TestSpans(t *testing.T) {
	subject := "+p read https://x.org/?a=1&b=2 with @c and word+no"
	spans := Spans(subject)

	want := []Span{
		{Tag, "+p"},
		{Text, " read "},
		{Link, "https://x.org/?a=1&b=2"},
		{Text, " with "},
		{Tag, "@c"},
		{Text, " and word+no"},
	}
	if len(spans) != len(want) {
		t.Fatalf("got %d spans, want %d: %+v", len(spans), len(want), spans)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d: got %+v, want %+v", i, spans[i], want[i])
		}
	}

	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	if b.String() != subject {
		t.Errorf("spans do not cover the subject: %q", b.String())
	}
}

func TestSpansEmpty(t *testing.T) {
	if got := Spans(""); len(got) != 0 {
		t.Errorf("got %+v", got)
	}
}
