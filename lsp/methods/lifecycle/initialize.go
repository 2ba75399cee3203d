package lifecycle

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/uriutil"
	"bennypowers.dev/coloradjust/internal/version"
	"bennypowers.dev/coloradjust/lsp/methods/textDocument/completion"
	"bennypowers.dev/coloradjust/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/coloradjust/lsp/types"
)

// ServerName is reported to clients in serverInfo.
const ServerName = "color-adjust"

// Initialize handles the LSP initialize request
func Initialize(req *types.RequestContext, params *protocol.InitializeParams) (any, error) {
	clientName := "unknown"
	if params.ClientInfo != nil {
		clientName = params.ClientInfo.Name
	}
	log.Info("Initializing for client: %s", clientName)

	// The pull capability is only visible in the raw params, which the
	// custom handler inspected before this handler ran.
	supportsPull := false
	if detected := req.Server.ClientDiagnosticCapability(); detected != nil {
		supportsPull = *detected
	}
	req.Server.SetUsePullDiagnostics(supportsPull)
	if supportsPull {
		log.Info("Using pull diagnostics")
	} else {
		log.Info("Using push diagnostics")
	}

	req.Server.SetPreferredHoverFormat(hoverFormat(params.Capabilities.TextDocument))

	// A root fixed on the command line wins over the client's.
	if req.Server.RootPath() == "" {
		switch {
		case params.RootURI != nil && *params.RootURI != "":
			req.Server.SetRootPath(uriutil.URIToPath(*params.RootURI))
		case params.RootPath != nil && *params.RootPath != "":
			req.Server.SetRootPath(*params.RootPath)
		}
	}
	log.Info("Workspace root: %s", req.Server.RootPath())

	// A map carries the 3.17 diagnosticProvider, which
	// protocol.ServerCapabilities lacks.
	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities := map[string]any{
		"textDocumentSync": protocol.TextDocumentSyncOptions{
			OpenClose: boolPtr(true),
			Change:    &syncKind,
		},
		"hoverProvider": true,
		"completionProvider": protocol.CompletionOptions{
			TriggerCharacters: completion.TriggerCharacters,
		},
		"codeActionProvider": protocol.CodeActionOptions{
			CodeActionKinds: []protocol.CodeActionKind{
				protocol.CodeActionKindQuickFix,
				protocol.CodeActionKindRefactorInline,
				protocol.CodeActionKindSource,
			},
		},
		"colorProvider": true,
	}
	if supportsPull {
		capabilities["diagnosticProvider"] = diagnostic.DiagnosticOptions{
			Identifier:            ServerName,
			InterFileDependencies: true,
			WorkspaceDiagnostics:  false,
		}
	}

	return struct {
		Capabilities any                                  `json:"capabilities"`
		ServerInfo   *protocol.InitializeResultServerInfo `json:"serverInfo,omitempty"`
	}{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: strPtr(version.Get()),
		},
	}, nil
}

// hoverFormat picks the first content format the client lists that is
// markdown or plaintext.
func hoverFormat(caps *protocol.TextDocumentClientCapabilities) protocol.MarkupKind {
	if caps == nil || caps.Hover == nil {
		return protocol.MarkupKindMarkdown
	}
	for _, kind := range caps.Hover.ContentFormat {
		if kind == protocol.MarkupKindMarkdown || kind == protocol.MarkupKindPlainText {
			return kind
		}
	}
	return protocol.MarkupKindMarkdown
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}
