package lsp

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"bennypowers.dev/coloradjust/internal/config"
	"bennypowers.dev/coloradjust/internal/documents"
	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/operation"
	"bennypowers.dev/coloradjust/internal/parser"
	"bennypowers.dev/coloradjust/internal/project"
	"bennypowers.dev/coloradjust/internal/tokens"
	"bennypowers.dev/coloradjust/internal/transform"
	"bennypowers.dev/coloradjust/lsp/methods/lifecycle"
	"bennypowers.dev/coloradjust/lsp/methods/textDocument"
	codeaction "bennypowers.dev/coloradjust/lsp/methods/textDocument/codeAction"
	"bennypowers.dev/coloradjust/lsp/methods/textDocument/completion"
	"bennypowers.dev/coloradjust/lsp/methods/textDocument/diagnostic"
	documentcolor "bennypowers.dev/coloradjust/lsp/methods/textDocument/documentColor"
	"bennypowers.dev/coloradjust/lsp/methods/textDocument/hover"
	"bennypowers.dev/coloradjust/lsp/methods/workspace"
	"bennypowers.dev/coloradjust/lsp/types"
)

var _ types.ServerContext = (*Server)(nil)

// Server is the color-adjust language server.
type Server struct {
	documents  *documents.Manager
	glspServer *server.Server
	configFile string
	fixedLevel bool

	// fallback serves documents until a project is loaded, and when the
	// client opened no workspace.
	fallback       *transform.Transformer
	fallbackTokens *tokens.Manager

	// stateMu protects the client-facing state below.
	stateMu                    sync.RWMutex
	context                    *glsp.Context
	rootPath                   string
	settings                   *config.Config
	hoverFormat                protocol.MarkupKind
	clientDiagnosticCapability *bool
	usePullDiagnostics         bool

	// projectMu protects project. Analysis holds the read lock for the
	// whole rewrite so a reload never swaps tokens underneath it.
	projectMu sync.RWMutex
	project   *project.Project
}

// Option configures a Server.
type Option func(*Server)

// WithConfigFile replaces the .config/color-adjust.* lookup.
func WithConfigFile(path string) Option {
	return func(s *Server) {
		if path == "" {
			return
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		s.configFile = path
	}
}

// WithRoot fixes the project root. The root the client sends in
// initialize is then ignored.
func WithRoot(path string) Option {
	return func(s *Server) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		s.rootPath = path
	}
}

// WithFixedLogLevel keeps the current log level when the configuration
// names another.
func WithFixedLogLevel() Option {
	return func(s *Server) {
		s.fixedLevel = true
	}
}

// NewServer creates a new color-adjust language server.
func NewServer(opts ...Option) (*Server, error) {
	s := &Server{
		documents:      documents.NewManager(),
		fallback:       transform.New(nil),
		fallbackTokens: tokens.NewManager(),
	}
	for _, opt := range opts {
		opt(s)
	}

	protocolHandler := protocol.Handler{
		Initialize:                      method(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                        notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", workspace.DidChangeConfiguration),
		WorkspaceDidChangeWatchedFiles:  notify(s, "workspace/didChangeWatchedFiles", workspace.DidChangeWatchedFiles),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", textDocument.DidClose),
		TextDocumentHover:               method(s, "textDocument/hover", hover.Hover),
		TextDocumentCompletion:          method(s, "textDocument/completion", completion.Completion),
		TextDocumentColor:               method(s, "textDocument/documentColor", documentcolor.DocumentColor),
		TextDocumentColorPresentation:   method(s, "textDocument/colorPresentation", documentcolor.ColorPresentation),
		TextDocumentCodeAction:          method(s, "textDocument/codeAction", codeaction.CodeAction),
	}

	// glsp only knows LSP 3.16, so the 3.17 pull diagnostics request is
	// routed by CustomHandler before protocol.Handler sees it.
	customHandler := &CustomHandler{
		Handler: &protocolHandler,
		server:  s,
	}

	s.glspServer = server.NewServer(customHandler, lifecycle.ServerName, log.GetLevel() == log.LevelDebug)
	return s, nil
}

// RunStdio starts the LSP server using stdio transport
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Close releases the pooled parsers. It is safe to call Close multiple
// times.
func (s *Server) Close() error {
	parser.ClosePools()
	return nil
}

// Document returns the document with the given URI
func (s *Server) Document(uri string) *documents.Document {
	return s.documents.Get(uri)
}

// DocumentManager returns the document manager
func (s *Server) DocumentManager() *documents.Manager {
	return s.documents
}

// AllDocuments returns all tracked documents
func (s *Server) AllDocuments() []*documents.Document {
	return s.documents.GetAll()
}

// Analyze rewrites the current content of an open document and returns
// the evaluated expressions. It returns nil for unknown documents.
func (s *Server) Analyze(uri string) (*transform.Result, error) {
	doc := s.Document(uri)
	if doc == nil {
		return nil, nil
	}

	s.projectMu.RLock()
	defer s.projectMu.RUnlock()
	t := s.fallback
	if s.project != nil {
		t = s.project.Transformer
	}
	return t.Transform(doc.Content(), doc.LanguageID())
}

// Registry returns the operation registry of the loaded project.
func (s *Server) Registry() *operation.Registry {
	s.projectMu.RLock()
	defer s.projectMu.RUnlock()
	if s.project == nil {
		return operation.Default()
	}
	return s.project.Registry
}

// TokenManager returns the design tokens of the loaded project.
func (s *Server) TokenManager() *tokens.Manager {
	s.projectMu.RLock()
	defer s.projectMu.RUnlock()
	if s.project == nil {
		return s.fallbackTokens
	}
	return s.project.Tokens
}

// RootPath returns the workspace root path
func (s *Server) RootPath() string {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.rootPath
}

// SetRootPath sets the workspace root path
func (s *Server) SetRootPath(path string) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.rootPath = path
}

// SetSettings stores editor settings for the next LoadProject.
func (s *Server) SetSettings(settings *config.Config) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.settings = settings
}

func (s *Server) currentSettings() *config.Config {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.settings
}

// LoadProject reads the configuration and token files of the workspace
// and swaps in the new project. Without a workspace root the built-in
// configuration stays in effect.
func (s *Server) LoadProject() error {
	root := s.RootPath()
	if root == "" {
		log.Info("No workspace root, using the default configuration")
		return nil
	}

	p, err := project.Load(root, s.configFile, project.WithOverrides(s.currentSettings()))
	if p == nil {
		return err
	}

	if !s.fixedLevel {
		if level, lerr := log.ParseLevel(p.Config.LogLevel); lerr == nil {
			log.SetLevel(level)
		} else {
			log.Warn("Ignoring configuration: %v", lerr)
		}
	}

	s.projectMu.Lock()
	s.project = p
	s.projectMu.Unlock()

	log.Info("Loaded project %s (%d tokens from %d files)", p.Root, p.Tokens.Count(), len(p.Tokens.SourceFiles()))
	return err
}

// ReloadTokens re-reads the token files of the loaded project.
func (s *Server) ReloadTokens() error {
	s.projectMu.Lock()
	defer s.projectMu.Unlock()
	if s.project == nil {
		return errors.New("no project loaded")
	}
	return s.project.ReloadTokens()
}

// IsConfigFile reports whether path is read by the configuration loader.
func (s *Server) IsConfigFile(path string) bool {
	s.projectMu.RLock()
	defer s.projectMu.RUnlock()
	return s.project != nil && s.project.IsConfigFile(filepath.Clean(path))
}

// IsTokenFile reports whether path is one of the configured token files.
func (s *Server) IsTokenFile(path string) bool {
	s.projectMu.RLock()
	defer s.projectMu.RUnlock()
	return s.project != nil && s.project.IsTokenFile(filepath.Clean(path))
}

// GLSPContext returns the GLSP context.
func (s *Server) GLSPContext() *glsp.Context {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.context
}

// SetGLSPContext sets the GLSP context.
func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.context = ctx
}

// PreferredHoverFormat defaults to markdown.
func (s *Server) PreferredHoverFormat() protocol.MarkupKind {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.hoverFormat == "" {
		return protocol.MarkupKindMarkdown
	}
	return s.hoverFormat
}

func (s *Server) SetPreferredHoverFormat(format protocol.MarkupKind) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.hoverFormat = format
}

// ClientDiagnosticCapability returns whether the client declared pull
// diagnostics support, or nil before initialize.
func (s *Server) ClientDiagnosticCapability() *bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.clientDiagnosticCapability
}

// SetClientDiagnosticCapability records the capability CustomHandler
// detected in the raw initialize params.
func (s *Server) SetClientDiagnosticCapability(hasCapability bool) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.clientDiagnosticCapability = &hasCapability
}

// UsePullDiagnostics reports whether the client requests diagnostics
// itself. The server then never publishes them.
func (s *Server) UsePullDiagnostics() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.usePullDiagnostics
}

// SetUsePullDiagnostics sets whether to use pull diagnostics based on client capabilities
func (s *Server) SetUsePullDiagnostics(use bool) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.usePullDiagnostics = use
}

// PublishDiagnostics publishes diagnostics for a document
func (s *Server) PublishDiagnostics(context *glsp.Context, uri string) error {
	if s.UsePullDiagnostics() {
		return nil
	}

	workingContext := context
	if workingContext == nil {
		workingContext = s.GLSPContext()
	}
	if workingContext == nil {
		return fmt.Errorf("cannot publish diagnostics: no client context available")
	}

	diagnostics, err := diagnostic.GetDiagnostics(s, uri)
	if err != nil {
		return err
	}
	log.Debug("Publishing %d diagnostics for %s", len(diagnostics), uri)

	workingContext.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}

// RegisterFileWatchers asks the client to watch the configuration and
// token files.
func (s *Server) RegisterFileWatchers(context *glsp.Context) error {
	// &glsp.Context{} in tests has no connection.
	if context == nil || context.Call == nil {
		log.Debug("Skipping file watcher registration (no client context)")
		return nil
	}

	watchers := []protocol.FileSystemWatcher{
		{GlobPattern: "**/package.json"},
		{GlobPattern: "**/.config/color-adjust.{yaml,yml,json}"},
	}
	if s.configFile != "" {
		watchers = append(watchers, protocol.FileSystemWatcher{GlobPattern: filepath.ToSlash(s.configFile)})
	}

	s.projectMu.RLock()
	if s.project != nil {
		for _, tf := range s.project.TokenFiles() {
			watchers = append(watchers, protocol.FileSystemWatcher{GlobPattern: filepath.ToSlash(tf.Path)})
		}
	}
	s.projectMu.RUnlock()

	params := protocol.RegistrationParams{
		Registrations: []protocol.Registration{
			{
				ID:     "color-adjust-file-watcher",
				Method: "workspace/didChangeWatchedFiles",
				RegisterOptions: protocol.DidChangeWatchedFilesRegistrationOptions{
					Watchers: watchers,
				},
			},
		},
	}

	// client/registerCapability is a request. Waiting for the reply on the
	// handler goroutine would block the reader that delivers it.
	go func(ctx *glsp.Context) {
		var result any
		ctx.Call("client/registerCapability", params, &result)
		log.Debug("File watcher registration completed")
	}(context)

	log.Info("Registering %d file watchers", len(watchers))
	return nil
}
