package types

import (
	"github.com/tliron/glsp"
)

// RequestContext carries the server and the protocol context of one LSP
// call, plus the non-fatal warnings the handler collected.
type RequestContext struct {
	Server   ServerContext
	GLSP     *glsp.Context
	warnings []error
}

// NewRequestContext creates a new request context
func NewRequestContext(server ServerContext, glsp *glsp.Context) *RequestContext {
	return &RequestContext{
		Server: server,
		GLSP:   glsp,
	}
}

// AddWarning records a non-fatal problem. The middleware logs warnings
// once the handler returns successfully.
func (r *RequestContext) AddWarning(err error) {
	if err != nil {
		r.warnings = append(r.warnings, err)
	}
}

// Warnings returns the collected warnings, or nil.
func (r *RequestContext) Warnings() []error {
	return r.warnings
}

func (r *RequestContext) HasWarnings() bool {
	return len(r.warnings) > 0
}
