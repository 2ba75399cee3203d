// Package hover shows how a color( ) expression evaluates: its resolved
// text, every applied operation and the final value.
package hover

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/internal/expression"
	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/transform"
	"bennypowers.dev/coloradjust/lsp/types"
)

// view is the data the templates render.
type view struct {
	Text string
	// Resolved is the evaluated text when variables or nested calls were
	// substituted, otherwise empty.
	Resolved string
	Value    string
	Steps    []expression.Step
	Message  string
	Detail   string
}

var markdownTemplate = template.Must(template.New("hover").Parse("```css\n{{.Text}}\n```\n" +
	`{{if .Resolved}}
Resolved: ` + "`{{.Resolved}}`" + `
{{end}}{{if .Message}}
❌ **{{.Message}}**: {{.Detail}}

Falls back to ` + "`{{.Value}}`" + `
{{else}}
**Value**: ` + "`{{.Value}}`" + `
{{end}}{{if .Steps}}
| Operation | Input | Output |
|---|---|---|
{{range .Steps}}| ` + "`{{.Call}}`" + ` | ` + "`{{.Input}}`" + ` | ` + "`{{.Output}}`" + ` |
{{end}}{{end}}`))

var plaintextTemplate = template.Must(template.New("hoverPlaintext").Parse(`{{.Text}}
{{if .Resolved}}Resolved: {{.Resolved}}
{{end}}{{if .Message}}
{{.Message}}: {{.Detail}}
Falls back to {{.Value}}
{{else}}
Value: {{.Value}}
{{end}}{{if .Steps}}
{{range .Steps}}{{.Call}}: {{.Input}} -> {{.Output}}
{{end}}{{end}}`))

func newView(expr transform.Expression) view {
	v := view{
		Text:  expr.Text,
		Value: expr.Replacement(),
		Steps: expr.Outcome.Steps,
	}
	resolved := strings.TrimSpace(expr.Inner)
	if resolved != expression.StripWrapper(expr.Text) {
		v.Resolved = resolved
	}
	if err := expr.Outcome.Err; err != nil {
		v.Message = expression.Message(err)
		v.Detail = err.Error()
	}
	return v
}

func render(expr transform.Expression, format protocol.MarkupKind) (string, error) {
	tmpl := markdownTemplate
	if format == protocol.MarkupKindPlainText {
		tmpl = plaintextTemplate
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newView(expr)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Hover handles the textDocument/hover request
func Hover(req *types.RequestContext, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI
	log.Debug("Hover requested: %s at line %d, char %d", uri, params.Position.Line, params.Position.Character)

	doc := req.Server.Document(uri)
	if doc == nil {
		return nil, nil
	}
	result, err := req.Server.Analyze(uri)
	if err != nil || result == nil {
		return nil, err
	}

	expr, ok := result.Find(doc.OffsetAt(params.Position))
	if !ok {
		return nil, nil
	}

	format := req.Server.PreferredHoverFormat()
	content, err := render(expr, format)
	if err != nil {
		return nil, fmt.Errorf("failed to render hover: %w", err)
	}
	r := doc.RangeOf(expr.Start, expr.End)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  format,
			Value: content,
		},
		Range: &r,
	}, nil
}
