// Package codeaction replaces color( ) expressions with the literal they
// evaluate to.
package codeaction

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/internal/documents"
	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/transform"
	"bennypowers.dev/coloradjust/lsp/helpers"
	"bennypowers.dev/coloradjust/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/coloradjust/lsp/types"
)

// CodeAction offers, for each expression in the requested range, to
// replace it with its value. Failed expressions get a quick fix that
// replaces them with their base color. A source action rewrites the whole
// document.
func CodeAction(req *types.RequestContext, params *protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	uri := params.TextDocument.URI
	log.Debug("CodeAction requested: %s", uri)

	actions := []protocol.CodeAction{}
	doc := req.Server.Document(uri)
	if doc == nil {
		return actions, nil
	}
	result, err := req.Server.Analyze(uri)
	if err != nil || result == nil {
		return actions, err
	}

	for _, expr := range result.Expressions {
		r := doc.RangeOf(expr.Start, expr.End)
		if !helpers.RangesIntersect(r, params.Range) {
			continue
		}
		if expr.Outcome.OK() {
			actions = appendIfWanted(actions, params.Context.Only, inlineAction(uri, r, expr))
		} else if expr.Outcome.Base != "" {
			actions = appendIfWanted(actions, params.Context.Only, fallbackAction(uri, r, expr, params.Context.Diagnostics))
		}
	}

	if result.Changed() {
		actions = appendIfWanted(actions, params.Context.Only, rewriteAction(doc, result))
	}
	return actions, nil
}

func inlineAction(uri string, r protocol.Range, expr transform.Expression) protocol.CodeAction {
	kind := protocol.CodeActionKindRefactorInline
	return protocol.CodeAction{
		Title: fmt.Sprintf("Replace with %s", expr.Outcome.Value),
		Kind:  &kind,
		Edit:  singleEdit(uri, r, expr.Outcome.Value),
	}
}

// fallbackAction attaches the diagnostics the client sent for r.
func fallbackAction(uri string, r protocol.Range, expr transform.Expression, diags []protocol.Diagnostic) protocol.CodeAction {
	kind := protocol.CodeActionKindQuickFix
	var related []protocol.Diagnostic
	for _, d := range diags {
		if d.Source != nil && *d.Source == diagnostic.Source && helpers.RangesIntersect(d.Range, r) {
			related = append(related, d)
		}
	}
	return protocol.CodeAction{
		Title:       fmt.Sprintf("Replace with base color %s", expr.Outcome.Value),
		Kind:        &kind,
		Diagnostics: related,
		Edit:        singleEdit(uri, r, expr.Outcome.Value),
	}
}

func rewriteAction(doc *documents.Document, result *transform.Result) protocol.CodeAction {
	kind := protocol.CodeActionKindSource
	whole := doc.RangeOf(0, uint(len(doc.Content())))
	return protocol.CodeAction{
		Title: fmt.Sprintf("Replace all %d color expressions with their values", len(result.Expressions)),
		Kind:  &kind,
		Edit:  singleEdit(doc.URI(), whole, result.Content),
	}
}

func singleEdit(uri string, r protocol.Range, text string) *protocol.WorkspaceEdit {
	return &protocol.WorkspaceEdit{
		Changes: map[string][]protocol.TextEdit{
			uri: {{Range: r, NewText: text}},
		},
	}
}

// appendIfWanted honours the client's kind filter. A requested kind also
// admits its sub-kinds, so "refactor" matches "refactor.inline".
func appendIfWanted(actions []protocol.CodeAction, only []protocol.CodeActionKind, action protocol.CodeAction) []protocol.CodeAction {
	if len(only) == 0 {
		return append(actions, action)
	}
	for _, want := range only {
		if *action.Kind == want || hasKindPrefix(*action.Kind, want) {
			return append(actions, action)
		}
	}
	return actions
}

func hasKindPrefix(kind, prefix protocol.CodeActionKind) bool {
	return len(kind) > len(prefix) && kind[:len(prefix)] == prefix && kind[len(prefix)] == '.'
}
