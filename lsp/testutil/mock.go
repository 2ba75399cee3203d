// Package testutil provides a ServerContext for handler tests.
package testutil

import (
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/internal/config"
	"bennypowers.dev/coloradjust/internal/documents"
	"bennypowers.dev/coloradjust/internal/expression"
	"bennypowers.dev/coloradjust/internal/operation"
	"bennypowers.dev/coloradjust/internal/tokens"
	"bennypowers.dev/coloradjust/internal/transform"
	"bennypowers.dev/coloradjust/internal/variables"
	"bennypowers.dev/coloradjust/lsp/types"
)

var _ types.ServerContext = (*MockServerContext)(nil)

// MockServerContext implements types.ServerContext in memory. Documents
// are analyzed with the default registry and the mock's token manager, so
// tokens added in a test resolve in var() references.
type MockServerContext struct {
	docs        *documents.Manager
	tokens      *tokens.Manager
	registry    *operation.Registry
	transformer *transform.Transformer

	mu                 sync.Mutex
	rootPath           string
	settings           *config.Config
	glspContext        *glsp.Context
	hoverFormat        protocol.MarkupKind
	diagnosticSupport  *bool
	usePullDiagnostics bool
	publishedURIs      []string

	// Optional callbacks for custom behavior in tests
	LoadProjectFunc        func() error
	ReloadTokensFunc       func() error
	RegisterWatchersFunc   func(*glsp.Context) error
	IsTokenFileFunc        func(string) bool
	IsConfigFileFunc       func(string) bool
	PublishDiagnosticsFunc func(*glsp.Context, string) error

	// Tracking flags for tests that need to verify methods were called
	LoadProjectCalled      bool
	ReloadTokensCalled     bool
	RegisterWatchersCalled bool
}

// NewMockServerContext creates a new mock server context with default behavior
func NewMockServerContext() *MockServerContext {
	tm := tokens.NewManager()
	reg := operation.Default()
	return &MockServerContext{
		docs:     documents.NewManager(),
		tokens:   tm,
		registry: reg,
		transformer: transform.New(
			expression.New(reg),
			transform.WithSources(variables.Tokens(tm)),
		),
	}
}

func (m *MockServerContext) Document(uri string) *documents.Document {
	return m.docs.Get(uri)
}

func (m *MockServerContext) DocumentManager() *documents.Manager {
	return m.docs
}

func (m *MockServerContext) AllDocuments() []*documents.Document {
	return m.docs.GetAll()
}

func (m *MockServerContext) Analyze(uri string) (*transform.Result, error) {
	doc := m.docs.Get(uri)
	if doc == nil {
		return nil, nil
	}
	return m.transformer.Transform(doc.Content(), doc.LanguageID())
}

func (m *MockServerContext) Registry() *operation.Registry {
	return m.registry
}

func (m *MockServerContext) TokenManager() *tokens.Manager {
	return m.tokens
}

func (m *MockServerContext) RootPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rootPath
}

func (m *MockServerContext) SetRootPath(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rootPath = path
}

func (m *MockServerContext) LoadProject() error {
	m.LoadProjectCalled = true
	if m.LoadProjectFunc != nil {
		return m.LoadProjectFunc()
	}
	return nil
}

func (m *MockServerContext) ReloadTokens() error {
	m.ReloadTokensCalled = true
	if m.ReloadTokensFunc != nil {
		return m.ReloadTokensFunc()
	}
	return nil
}

func (m *MockServerContext) SetSettings(settings *config.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings
}

// Settings returns what SetSettings stored.
func (m *MockServerContext) Settings() *config.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

func (m *MockServerContext) IsConfigFile(path string) bool {
	if m.IsConfigFileFunc != nil {
		return m.IsConfigFileFunc(path)
	}
	return false
}

func (m *MockServerContext) IsTokenFile(path string) bool {
	if m.IsTokenFileFunc != nil {
		return m.IsTokenFileFunc(path)
	}
	return false
}

func (m *MockServerContext) RegisterFileWatchers(ctx *glsp.Context) error {
	m.RegisterWatchersCalled = true
	if m.RegisterWatchersFunc != nil {
		return m.RegisterWatchersFunc(ctx)
	}
	return nil
}

func (m *MockServerContext) GLSPContext() *glsp.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.glspContext
}

func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.glspContext = ctx
}

func (m *MockServerContext) PreferredHoverFormat() protocol.MarkupKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hoverFormat == "" {
		return protocol.MarkupKindMarkdown
	}
	return m.hoverFormat
}

func (m *MockServerContext) SetPreferredHoverFormat(format protocol.MarkupKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hoverFormat = format
}

func (m *MockServerContext) ClientDiagnosticCapability() *bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.diagnosticSupport
}

// SetClientDiagnosticCapability simulates the detection the custom
// handler performs on initialize.
func (m *MockServerContext) SetClientDiagnosticCapability(supported bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diagnosticSupport = &supported
}

func (m *MockServerContext) UsePullDiagnostics() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usePullDiagnostics
}

func (m *MockServerContext) SetUsePullDiagnostics(use bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usePullDiagnostics = use
}

// PublishDiagnostics records uri; see PublishedURIs.
func (m *MockServerContext) PublishDiagnostics(ctx *glsp.Context, uri string) error {
	m.mu.Lock()
	m.publishedURIs = append(m.publishedURIs, uri)
	m.mu.Unlock()
	if m.PublishDiagnosticsFunc != nil {
		return m.PublishDiagnosticsFunc(ctx, uri)
	}
	return nil
}

// PublishedURIs returns the documents PublishDiagnostics was called for,
// in call order.
func (m *MockServerContext) PublishedURIs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.publishedURIs...)
}
