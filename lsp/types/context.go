package types

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/internal/config"
	"bennypowers.dev/coloradjust/internal/documents"
	"bennypowers.dev/coloradjust/internal/operation"
	"bennypowers.dev/coloradjust/internal/tokens"
	"bennypowers.dev/coloradjust/internal/transform"
)

// ServerContext provides all dependencies needed for LSP handlers.
// Handlers depend on this interface so tests can substitute a mock.
type ServerContext interface {
	// Document operations
	Document(uri string) *documents.Document
	DocumentManager() *documents.Manager
	AllDocuments() []*documents.Document

	// Analyze evaluates every color( ) expression in an open document.
	// It returns nil for unknown documents.
	Analyze(uri string) (*transform.Result, error)
	Registry() *operation.Registry
	TokenManager() *tokens.Manager

	// Workspace operations
	RootPath() string
	SetRootPath(path string)
	// LoadProject (re)reads the configuration and token files under the
	// root path.
	LoadProject() error
	ReloadTokens() error
	// SetSettings stores editor settings applied over the configuration
	// files on the next LoadProject.
	SetSettings(settings *config.Config)
	IsConfigFile(path string) bool
	IsTokenFile(path string) bool
	RegisterFileWatchers(ctx *glsp.Context) error

	// LSP context (for publishing diagnostics, etc.)
	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)

	// PreferredHoverFormat is the first hover content format the client
	// accepts that the server can render.
	PreferredHoverFormat() protocol.MarkupKind
	SetPreferredHoverFormat(format protocol.MarkupKind)

	// Diagnostics
	ClientDiagnosticCapability() *bool
	UsePullDiagnostics() bool
	SetUsePullDiagnostics(use bool)
	PublishDiagnostics(ctx *glsp.Context, uri string) error
}
