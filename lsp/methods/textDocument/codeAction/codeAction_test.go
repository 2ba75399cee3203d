package codeaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	codeaction "bennypowers.dev/coloradjust/lsp/methods/textDocument/codeAction"
	"bennypowers.dev/coloradjust/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/coloradjust/lsp/testutil"
	"bennypowers.dev/coloradjust/lsp/types"
)

const uri = "file:///test.css"

const content = "a { color: color(#f00 darken(20)); }\n" +
	"b { color: color(nope darken(20)); }\n"

func setup(t *testing.T) *types.RequestContext {
	t.Helper()
	ctx := testutil.NewMockServerContext()
	require.NoError(t, ctx.DocumentManager().DidOpen(uri, "css", 1, content))
	return types.NewRequestContext(ctx, &glsp.Context{})
}

func at(line, char protocol.UInteger) protocol.Range {
	p := protocol.Position{Line: line, Character: char}
	return protocol.Range{Start: p, End: p}
}

func titles(actions []protocol.CodeAction) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Title)
	}
	return out
}

func TestInlineAction(t *testing.T) {
	req := setup(t)

	actions, err := codeaction.CodeAction(req, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range:        at(0, 15),
	})
	require.NoError(t, err)
	require.Len(t, actions, 2)

	inline := actions[0]
	assert.Equal(t, "Replace with #990000", inline.Title)
	require.NotNil(t, inline.Kind)
	assert.Equal(t, protocol.CodeActionKindRefactorInline, *inline.Kind)
	require.NotNil(t, inline.Edit)
	edits := inline.Edit.Changes[uri]
	require.Len(t, edits, 1)
	assert.Equal(t, "#990000", edits[0].NewText)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 11},
		End:   protocol.Position{Line: 0, Character: 33},
	}, edits[0].Range)

	source := actions[1]
	assert.Equal(t, "Replace all 2 color expressions with their values", source.Title)
	require.NotNil(t, source.Kind)
	assert.Equal(t, protocol.CodeActionKindSource, *source.Kind)
	whole := source.Edit.Changes[uri]
	require.Len(t, whole, 1)
	assert.Equal(t, "a { color: #990000; }\nb { color: nope; }\n", whole[0].NewText)
	assert.Equal(t, protocol.Position{Line: 0, Character: 0}, whole[0].Range.Start)
	assert.Equal(t, protocol.Position{Line: 2, Character: 0}, whole[0].Range.End)
}

func TestFallbackQuickFix(t *testing.T) {
	req := setup(t)
	diags, err := diagnostic.GetDiagnostics(req.Server, uri)
	require.NoError(t, err)
	require.Len(t, diags, 1)

	source := "somebody-else"
	foreign := protocol.Diagnostic{Range: diags[0].Range, Source: &source, Message: "unrelated"}

	actions, err := codeaction.CodeAction(req, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range:        diags[0].Range,
		Context: protocol.CodeActionContext{
			Diagnostics: []protocol.Diagnostic{diags[0], foreign},
			Only:        []protocol.CodeActionKind{protocol.CodeActionKindQuickFix},
		},
	})
	require.NoError(t, err)
	require.Len(t, actions, 1)

	fix := actions[0]
	assert.Equal(t, "Replace with base color nope", fix.Title)
	assert.Equal(t, protocol.CodeActionKindQuickFix, *fix.Kind)
	require.Len(t, fix.Diagnostics, 1)
	assert.Equal(t, diags[0].Message, fix.Diagnostics[0].Message)
	assert.Equal(t, "nope", fix.Edit.Changes[uri][0].NewText)
}

func TestEmptyExpressionHasNoFallback(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	require.NoError(t, ctx.DocumentManager().DidOpen(uri, "css", 1, "a { color: color(); }"))
	req := types.NewRequestContext(ctx, &glsp.Context{})

	actions, err := codeaction.CodeAction(req, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range:        at(0, 13),
	})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "Replace all 1 color expressions with their values", actions[0].Title)
	assert.Equal(t, "a { color: color(); }", actions[0].Edit.Changes[uri][0].NewText)
}

func TestOnlyFilter(t *testing.T) {
	req := setup(t)

	tests := []struct {
		name string
		only []protocol.CodeActionKind
		want []string
	}{
		{
			name: "no filter",
			want: []string{"Replace with #990000", "Replace all 2 color expressions with their values"},
		},
		{
			name: "parent kind admits sub-kind",
			only: []protocol.CodeActionKind{protocol.CodeActionKindRefactor},
			want: []string{"Replace with #990000"},
		},
		{
			name: "source only",
			only: []protocol.CodeActionKind{protocol.CodeActionKindSource},
			want: []string{"Replace all 2 color expressions with their values"},
		},
		{
			name: "unrelated kind",
			only: []protocol.CodeActionKind{protocol.CodeActionKindRefactorExtract},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions, err := codeaction.CodeAction(req, &protocol.CodeActionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: uri},
				Range:        at(0, 15),
				Context:      protocol.CodeActionContext{Only: tt.only},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(actions))
		})
	}
}

func TestOutsideExpressions(t *testing.T) {
	req := setup(t)

	actions, err := codeaction.CodeAction(req, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range:        at(0, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Replace all 2 color expressions with their values"}, titles(actions))
}

func TestNoExpressions(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	require.NoError(t, ctx.DocumentManager().DidOpen(uri, "css", 1, "a { color: red; }"))
	req := types.NewRequestContext(ctx, &glsp.Context{})

	actions, err := codeaction.CodeAction(req, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range:        at(0, 12),
	})
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestUnknownDocument(t *testing.T) {
	req := types.NewRequestContext(testutil.NewMockServerContext(), &glsp.Context{})

	actions, err := codeaction.CodeAction(req, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///missing.css"},
	})
	require.NoError(t, err)
	assert.Empty(t, actions)
}
