package header

import (
	"strings"
	"testing"
)

func TestBuild_PlainFields(t *testing.T) {
	got := Build(Fields{
		Title:    "Hello World",
		Subtitle: "A short intro",
		Category: "news",
		Tags:     []string{"go", "blog"},
		Date:     "2021-03-04",
		Type:     "wp",
		SourceID: "42",
	})
	if got.Degraded {
		t.Fatalf("unexpected degradation: %s", got.Reason)
	}
	for _, want := range []string{
		`title: "Hello World"`,
		`subtitle: "A short intro"`,
		`category: "news"`,
		`tags: ["go", "blog"]`,
		`date: "2021-03-04"`,
		`type: "wp"`,
		"wordpress_id: 42",
	} {
		if !strings.Contains(got.Text, want) {
			t.Errorf("header missing %q:\n%s", want, got.Text)
		}
	}
	if !strings.HasSuffix(got.Text, "---\n\n") {
		t.Errorf("header must end with a closing fence and a blank line:\n%q", got.Text)
	}
}

func TestBuild_OmitsSourceIDWhenEmpty(t *testing.T) {
	got := Build(Fields{Title: "T", Type: "rain"})
	if strings.Contains(got.Text, "wordpress_id") {
		t.Errorf("wordpress_id should be absent:\n%s", got.Text)
	}
}

func TestBuild_AlwaysValidates(t *testing.T) {
	hostile := []Fields{
		{Title: `She said "hi"`, Type: "wp"},
		{Title: "It's fine", Type: "wp"},
		{Title: `Mixed "double" and 'single'`, Type: "wp"},
		{Title: `Backslash \ and "quote"`, Type: "wp"},
		{Title: "Colon: subtitle style", Subtitle: "a: b: c", Type: "wp"},
		{Title: "#comment --- [list]", Category: "- dash", Type: "wp"},
		{Subtitle: `<img src="x.png"> caption`, Title: "T", Type: "wp"},
		{Subtitle: "[label](http://e", Title: "T", Type: "wp"},
		{Tags: []string{`"q"`, "'s'", "plain"}, Title: "T", Type: "wp"},
	}
	for _, f := range hostile {
		got := Build(f)
		if err := Validate(got.Text); err != nil {
			t.Errorf("built header does not parse for %+v: %v", f, err)
		}
	}
}

func TestQuoteValue_Strategies(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"plain", `"plain"`},
		{`only "double"`, `'only "double"'`},
		{"only 'single'", `"only 'single'"`},
		{`both "d" and 's'`, `"both \"d\" and 's'"`},
		{`back\slash`, `"back\\slash"`},
		{"  padded  ", `"padded"`},
		{"fish &amp; chips", `"fish & chips"`},
	}
	for _, c := range cases {
		if got := quoteValue(c.in); got != c.want {
			t.Errorf("quoteValue(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestNeutralizeMarkup(t *testing.T) {
	got := neutralizeMarkup(`before <img src="pic.png" alt="x"> after`)
	if strings.Contains(got, `src="pic.png"`) {
		t.Errorf("double-quoted attribute survived: %q", got)
	}
	if !strings.Contains(got, `src='pic.png'`) {
		t.Errorf("attribute not single-quoted: %q", got)
	}

	got = neutralizeMarkup(`broken <img src=`)
	if !strings.Contains(got, `src=""`) {
		t.Errorf("dangling src not repaired: %q", got)
	}
}

func TestStripMarkdownLinks(t *testing.T) {
	cases := []struct{ in, want string }{
		{"see [docs](https://example.com) now", "see docs now"},
		{"see [docs](https://exam...", "see docs"},
		{"see [docs](https://exam", "see docs"},
		{"no links here", "no links here"},
		{"[a](x) and [b](y)", "a and b"},
	}
	for _, c := range cases {
		if got := stripMarkdownLinks(c.in); got != c.want {
			t.Errorf("stripMarkdownLinks(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBuild_FallbackOnControlCharacters(t *testing.T) {
	got := Build(Fields{Title: "bad\x01title", Date: "2020-01-01", Type: "wp"})
	if !got.Degraded {
		t.Fatal("expected degraded header for control characters")
	}
	if got.Reason == "" {
		t.Error("degraded header must carry a reason")
	}
	if !strings.Contains(got.Text, `title: "bad title"`) {
		t.Errorf("fallback title not sanitized:\n%s", got.Text)
	}
	if !strings.Contains(got.Text, `subtitle: ""`) || !strings.Contains(got.Text, "tags: []") {
		t.Errorf("fallback must blank subtitle and tags:\n%s", got.Text)
	}
	if !strings.Contains(got.Text, `date: "2020-01-01"`) {
		t.Errorf("fallback must keep the date:\n%s", got.Text)
	}
	if err := Validate(got.Text); err != nil {
		t.Errorf("fallback header does not parse: %v", err)
	}
}

func TestFallback_EmptyTitle(t *testing.T) {
	got := fallback(Fields{Title: "\x02", Type: "wp"})
	if !strings.Contains(got, `title: "`+FallbackTitle+`"`) {
		t.Errorf("empty sanitized title must use the literal fallback:\n%s", got)
	}
}

func TestQuoteTags(t *testing.T) {
	if got := quoteTags(nil); got != "[]" {
		t.Errorf("empty tags = %q, want []", got)
	}
	if got := quoteTags([]string{"a", "b c"}); got != `["a", "b c"]` {
		t.Errorf("tags = %q", got)
	}
}
