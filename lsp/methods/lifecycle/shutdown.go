package lifecycle

import (
	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/parser"
	"bennypowers.dev/coloradjust/lsp/types"
)

// Shutdown handles the LSP shutdown request
func Shutdown(_ *types.RequestContext) error {
	log.Info("Server shutting down")
	parser.ClosePools()
	return nil
}
