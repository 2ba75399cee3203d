package workspace

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/uriutil"
	"bennypowers.dev/coloradjust/lsp/types"
)

// DidChangeWatchedFiles reloads the project when a configuration file
// changes and the tokens when a token file changes, then refreshes the
// diagnostics of open documents.
func DidChangeWatchedFiles(req *types.RequestContext, params *protocol.DidChangeWatchedFilesParams) error {
	configChanged := false
	tokensChanged := false
	for _, change := range params.Changes {
		path := uriutil.URIToPath(change.URI)
		switch {
		case req.Server.IsConfigFile(path):
			log.Debug("Configuration file changed: %s (type: %d)", path, change.Type)
			configChanged = true
		case req.Server.IsTokenFile(path):
			log.Debug("Token file changed: %s (type: %d)", path, change.Type)
			tokensChanged = true
		}
	}

	switch {
	case configChanged:
		log.Info("Configuration changed, reloading project")
		req.AddWarning(req.Server.LoadProject())
	case tokensChanged:
		log.Info("Token files changed, reloading tokens")
		req.AddWarning(req.Server.ReloadTokens())
	default:
		return nil
	}

	refreshDiagnostics(req)
	return nil
}

// refreshDiagnostics republishes push diagnostics for every open document.
func refreshDiagnostics(req *types.RequestContext) {
	glspCtx := req.Server.GLSPContext()
	if glspCtx == nil {
		return
	}
	for _, doc := range req.Server.AllDocuments() {
		if err := req.Server.PublishDiagnostics(glspCtx, doc.URI()); err != nil {
			log.Warn("Failed to publish diagnostics for %s: %v", doc.URI(), err)
		}
	}
}
