package lsp

import (
	"encoding/json"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/lsp/methods/textDocument/diagnostic"
)

// CustomHandler adds the LSP 3.17 pieces glsp's 3.16 protocol.Handler
// cannot express: pull diagnostics detection during initialize and the
// textDocument/diagnostic request.
type CustomHandler struct {
	*protocol.Handler
	server *Server
}

// Handle implements glsp.Handler.
func (h *CustomHandler) Handle(context *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	switch context.Method {
	case "initialize":
		// protocol.InitializeParams drops the 3.17 capability, so it is read
		// from the raw params before the regular handler runs.
		h.server.SetClientDiagnosticCapability(DetectPullDiagnosticsSupport(context.Params))

	case diagnostic.MethodDocumentDiagnostic:
		var params diagnostic.DocumentDiagnosticParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}
		handler := method(h.server, diagnostic.MethodDocumentDiagnostic, diagnostic.DocumentDiagnostic)
		result, err := handler(context, &params)
		if err != nil {
			return nil, true, true, err
		}
		return result, true, true, nil
	}

	return h.Handler.Handle(context)
}
