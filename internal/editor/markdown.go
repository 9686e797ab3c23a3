package editor

import (
	"bytes"
	stdhtml "html"
	"regexp"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// markdownRepairs fix LLM output that standard markdown misreads: indented
// bullets parsed as code blocks, blank lines splitting one list in two, and
// a list switching from "-" to "*" markers mid-way.
var markdownRepairs = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?m)^([ \t]{4,})([*-])`), "  $2"},
	{regexp.MustCompile(`(?m)^([*-]\s.+)(\n\n)([*-]\s)`), "$1\n$3"},
	{regexp.MustCompile(`(?m)^(- .+\n)\* `), "$1- "},
	{regexp.MustCompile(`(?m)^([ \t]{4,})([^*\s-])`), "$2"},
	{regexp.MustCompile(`(?m)^[ \t]{4,}(.+)$`), "$1"},
}

// maxRepairPasses bounds the fixpoint loop. Every repair shortens the text
// or removes a "*" marker, so the loop ends well before this in practice.
const maxRepairPasses = 64

// FixMarkdownPatterns applies the repairs until none of them changes the
// text, so running it on its own output is a no-op.
func FixMarkdownPatterns(text string) string {
	if text == "" {
		return text
	}
	for i := 0; i < maxRepairPasses; i++ {
		before := text
		for _, r := range markdownRepairs {
			text = r.re.ReplaceAllString(text, r.repl)
		}
		if text == before {
			break
		}
	}
	return text
}

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithUnsafe(),
	),
)

// Markdown repairs and converts free text to HTML. Repairs always run on
// the markdown source, never on converted HTML.
func Markdown(text string) string {
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(FixMarkdownPatterns(text)), &buf); err != nil {
		return "<p>" + stdhtml.EscapeString(text) + "</p>"
	}
	return buf.String()
}
