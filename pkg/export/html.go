package export

import (
	"fmt"
	"html/template"
	"io"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"

	"github.com/aretw0/notebook/pkg/core"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif;
            line-height: 1.6;
            max-width: 800px;
            margin: 0 auto;
            padding: 2rem 1rem;
        }
        section { border-top: 1px solid #e0e0e0; }
        .updated { color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <nav>
        <ul>
        {{- range .Notes}}
            <li><a href="#{{.Anchor}}">{{.Title}}</a></li>
        {{- end}}
        </ul>
    </nav>
    {{- range .Notes}}
    <section id="{{.Anchor}}">
        <h2>{{.Title}}</h2>
        {{- if .Updated}}
        <p class="updated">Updated {{.Updated}}</p>
        {{- end}}
        {{.Content}}
    </section>
    {{- end}}
</body>
</html>
`

var page = template.Must(template.New("notebook").Parse(pageTemplate))

type pageData struct {
	Title string
	Notes []noteData
}

type noteData struct {
	Title   string
	Anchor  string
	Updated string
	Content template.HTML
}

// writeHTML renders every body as Markdown, sanitizes the result and places it
// in a single standalone page. Titles go through the template's escaping.
func writeHTML(w io.Writer, notes []core.Note, o *options) error {
	policy := bluemonday.UGCPolicy()

	data := pageData{Title: o.title}
	for i, n := range notes {
		nd := noteData{
			Title:   n.Title,
			Anchor:  fmt.Sprintf("note-%d", i+1),
			Content: template.HTML(policy.SanitizeBytes(renderBody(n.Body))),
		}
		if n.UpdatedAt != nil {
			nd.Updated = formatStamp(n.UpdatedAt, o.location)
		}
		data.Notes = append(data.Notes, nd)
	}

	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}

func renderBody(body string) []byte {
	// Parsers keep state, so one per document.
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(body))

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank,
	})
	return markdown.Render(doc, renderer)
}
