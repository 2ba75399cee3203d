package lifecycle

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/lsp/methods/workspace"
	"bennypowers.dev/coloradjust/lsp/types"
)

// Initialized loads the workspace project and registers file watchers.
// Neither failure stops the server; both are reported as warnings.
func Initialized(req *types.RequestContext, _ *protocol.InitializedParams) error {
	log.Info("Server initialized")
	req.Server.SetGLSPContext(req.GLSP)

	if err := req.Server.LoadProject(); err != nil {
		req.AddWarning(err)
		workspace.ShowMessage(req.GLSP, protocol.MessageTypeWarning, "color-adjust could not load the project: "+err.Error())
	}
	if err := req.Server.RegisterFileWatchers(req.GLSP); err != nil {
		req.AddWarning(err)
	}
	return nil
}
