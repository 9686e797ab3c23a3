package editor

import (
	"fmt"
	"html/template"
	"io"

	"github.com/ziadkadry99/clil-studio/internal/lesson"
)

var pageTemplate = template.Must(template.New("lesson").Funcs(template.FuncMap{
	// Section and card bodies are generated HTML.
	"raw": func(s string) template.HTML { return template.HTML(s) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1 class="lesson-title">{{.Title}}</h1>
<main class="sections">
{{- range .Views}}
<section class="section" id="{{.Section}}">
<div class="section-header"><h3>{{.Title}}</h3><span class="version-counter">{{.Counter}}</span></div>
<div class="part-container" id="{{.Section}}-container">{{raw .HTML}}</div>
{{- if .Hint}}<p class="navigation-hint">{{.Hint}}</p>{{end}}
</section>
{{- end}}
</main>
<aside class="helper-content">
{{- range .HelperCards}}
<div class="helper-card{{if ne .State "ready"}} {{.State}}{{end}}" id="{{.ID}}">
<div class="helper-card-header"><h3>{{.Title}}</h3></div>
<div class="helper-card-content">{{raw .HTML}}</div>
</div>
{{- end}}
</aside>
<aside class="tips-overlay">
{{- range .TipCards}}
<div class="insight-card{{if ne .State "ready"}} {{.State}}{{end}}" id="{{.ID}}">
<div class="tips-card-header"><h3>{{.Title}}</h3></div>
<div class="tips-card-content">{{raw .HTML}}</div>
</div>
{{- end}}
</aside>
<div id="chatbot-messages">
{{- range .Chat}}
<div class="chat-message{{if eq .Role "user"}} user{{end}}"><div class="chat-bubble">{{raw .HTML}}</div></div>
{{- end}}
</div>
</body>
</html>
`))

type pageData struct {
	Title       string
	Views       []SectionView
	HelperCards []Card
	TipCards    []Card
	Chat        []ChatBubble
}

// RenderPage writes the session as a standalone HTML page.
func (s *Session) RenderPage(w io.Writer) error {
	data := pageData{
		Title: s.Title(),
		Views: s.Views(),
		Chat:  s.ChatBubbles(),
	}
	for _, c := range s.Cards() {
		if c.Column == ColumnTips {
			data.TipCards = append(data.TipCards, c)
		} else {
			data.HelperCards = append(data.HelperCards, c)
		}
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

// RenderDocument writes a saved lesson as a standalone HTML page.
func RenderDocument(w io.Writer, doc *lesson.Document) error {
	s := NewSession(nil, nil)
	s.FromDocument(doc)
	return s.RenderPage(w)
}
