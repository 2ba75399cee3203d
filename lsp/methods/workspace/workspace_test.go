package workspace_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/lsp/methods/workspace"
	"bennypowers.dev/coloradjust/lsp/testutil"
	"bennypowers.dev/coloradjust/lsp/types"
)

const docURI = "file:///project/site.css"

func newServer(t *testing.T) *testutil.MockServerContext {
	t.Helper()
	ctx := testutil.NewMockServerContext()
	ctx.SetGLSPContext(&glsp.Context{})
	ctx.IsConfigFileFunc = func(path string) bool {
		return strings.HasSuffix(path, "color-adjust.yaml")
	}
	ctx.IsTokenFileFunc = func(path string) bool {
		return strings.HasSuffix(path, "tokens.json")
	}
	require.NoError(t, ctx.DocumentManager().DidOpen(docURI, "css", 1, "a {}"))
	return ctx
}

func changed(uris ...string) *protocol.DidChangeWatchedFilesParams {
	params := &protocol.DidChangeWatchedFilesParams{}
	for _, uri := range uris {
		params.Changes = append(params.Changes, protocol.FileEvent{URI: uri, Type: protocol.FileChangeTypeChanged})
	}
	return params
}

func TestConfigFileChange(t *testing.T) {
	ctx := newServer(t)
	req := types.NewRequestContext(ctx, ctx.GLSPContext())

	require.NoError(t, workspace.DidChangeWatchedFiles(req, changed(
		"file:///project/tokens.json",
		"file:///project/.config/color-adjust.yaml",
	)))
	assert.True(t, ctx.LoadProjectCalled)
	assert.False(t, ctx.ReloadTokensCalled, "a project reload also reloads tokens")
	assert.Equal(t, []string{docURI}, ctx.PublishedURIs())
}

func TestTokenFileChange(t *testing.T) {
	ctx := newServer(t)
	req := types.NewRequestContext(ctx, ctx.GLSPContext())

	require.NoError(t, workspace.DidChangeWatchedFiles(req, changed("file:///project/tokens.json")))
	assert.False(t, ctx.LoadProjectCalled)
	assert.True(t, ctx.ReloadTokensCalled)
	assert.Equal(t, []string{docURI}, ctx.PublishedURIs())
}

func TestUnrelatedFileChange(t *testing.T) {
	ctx := newServer(t)
	req := types.NewRequestContext(ctx, ctx.GLSPContext())

	require.NoError(t, workspace.DidChangeWatchedFiles(req, changed("file:///project/readme.md")))
	assert.False(t, ctx.LoadProjectCalled)
	assert.False(t, ctx.ReloadTokensCalled)
	assert.Empty(t, ctx.PublishedURIs())
}

func TestReloadFailureIsAWarning(t *testing.T) {
	ctx := newServer(t)
	ctx.ReloadTokensFunc = func() error { return errors.New("broken tokens") }
	req := types.NewRequestContext(ctx, ctx.GLSPContext())

	require.NoError(t, workspace.DidChangeWatchedFiles(req, changed("file:///project/tokens.json")))
	require.Len(t, req.Warnings(), 1)
	assert.EqualError(t, req.Warnings()[0], "broken tokens")
	assert.Equal(t, []string{docURI}, ctx.PublishedURIs(), "diagnostics refresh even after a failed reload")
}

func TestDidChangeConfiguration(t *testing.T) {
	ctx := newServer(t)
	req := types.NewRequestContext(ctx, ctx.GLSPContext())

	require.NoError(t, workspace.DidChangeConfiguration(req, &protocol.DidChangeConfigurationParams{
		Settings: map[string]any{
			workspace.SettingsKey: map[string]any{
				"prefix":   "ds",
				"readable": map[string]any{"light": "white"},
			},
		},
	}))
	require.NotNil(t, ctx.Settings())
	assert.Equal(t, "ds", ctx.Settings().Prefix)
	assert.Equal(t, "white", ctx.Settings().Readable.Light)
	assert.True(t, ctx.LoadProjectCalled)
	assert.Equal(t, []string{docURI}, ctx.PublishedURIs())
	assert.False(t, req.HasWarnings())
}

func TestDidChangeConfigurationWithoutSection(t *testing.T) {
	ctx := newServer(t)
	req := types.NewRequestContext(ctx, ctx.GLSPContext())

	require.NoError(t, workspace.DidChangeConfiguration(req, &protocol.DidChangeConfigurationParams{
		Settings: map[string]any{"editor": map[string]any{"tabSize": 2}},
	}))
	assert.Nil(t, ctx.Settings())
	assert.True(t, ctx.LoadProjectCalled)
}

func TestDidChangeConfigurationInvalid(t *testing.T) {
	tests := []struct {
		name     string
		settings any
	}{
		{"settings not an object", "nope"},
		{"section not an object", map[string]any{workspace.SettingsKey: 42}},
		{"bad field", map[string]any{workspace.SettingsKey: map[string]any{"readable": "white"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newServer(t)
			req := types.NewRequestContext(ctx, ctx.GLSPContext())

			require.NoError(t, workspace.DidChangeConfiguration(req, &protocol.DidChangeConfigurationParams{
				Settings: tt.settings,
			}))
			assert.True(t, req.HasWarnings())
			assert.False(t, ctx.LoadProjectCalled, "invalid settings keep the current project")
		})
	}
}

func TestLogWithoutClient(t *testing.T) {
	assert.NotPanics(t, func() {
		workspace.LogError(nil, "failed: %s", "boom")
		workspace.LogWarning(&glsp.Context{}, "careful: %d", 1)
		workspace.ShowMessage(nil, protocol.MessageTypeInfo, "hello")
	})
}

func TestLogToClient(t *testing.T) {
	got := make(chan *protocol.LogMessageParams, 1)
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerWindowLogMessage {
				got <- params.(*protocol.LogMessageParams)
			}
		},
	}

	workspace.LogWarning(ctx, "careful: %d", 1)
	msg := <-got
	assert.Equal(t, protocol.MessageTypeWarning, msg.Type)
	assert.Equal(t, "careful: 1", msg.Message)
}
