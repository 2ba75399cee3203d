package lifecycle

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/lsp/types"
)

// SetTrace turns on debug logging when the client asks for verbose
// tracing. Other values leave the configured level alone.
func SetTrace(_ *types.RequestContext, params *protocol.SetTraceParams) error {
	if params.Value == protocol.TraceValueVerbose {
		log.SetLevel(log.LevelDebug)
	}
	log.Debug("Trace level set to: %s", params.Value)
	return nil
}
