// Package diagnostic reports color( ) expressions that fail to evaluate.
package diagnostic

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/operation"
	"bennypowers.dev/coloradjust/lsp/types"
)

// Source names this server in every diagnostic.
const Source = "color-adjust"

// Diagnostic codes.
const (
	CodeInvalid    = "invalid-color"
	CodeOutOfRange = "out-of-range"
)

// DocumentDiagnostic answers a pull diagnostics request. The result id is
// a hash of the diagnostics, so an unchanged document yields an unchanged
// report.
func DocumentDiagnostic(req *types.RequestContext, params *DocumentDiagnosticParams) (any, error) {
	uri := params.TextDocument.URI
	log.Debug("Pull diagnostics requested for: %s", uri)

	diagnostics, err := GetDiagnostics(req.Server, uri)
	if err != nil {
		return nil, err
	}

	resultID := resultIDFor(diagnostics)
	if params.PreviousResultID != "" && params.PreviousResultID == resultID {
		return UnchangedDocumentDiagnosticReport{
			Kind:     DiagnosticUnchanged,
			ResultID: resultID,
		}, nil
	}
	return FullDocumentDiagnosticReport{
		Kind:     DiagnosticFull,
		ResultID: resultID,
		Items:    diagnostics,
	}, nil
}

// GetDiagnostics returns an error diagnostic for every expression in the
// document that is invalid or out of range. The slice is never nil: a nil
// slice would serialize to null.
func GetDiagnostics(server types.ServerContext, uri string) ([]protocol.Diagnostic, error) {
	diagnostics := []protocol.Diagnostic{}

	doc := server.Document(uri)
	if doc == nil {
		return diagnostics, nil
	}
	result, err := server.Analyze(uri)
	if err != nil || result == nil {
		return diagnostics, err
	}

	severity := protocol.DiagnosticSeverityError
	source := Source
	for _, d := range result.Diagnostics {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    doc.RangeOf(d.Start, d.End),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: codeFor(d.Err)},
			Source:   &source,
			Message:  d.Message() + ": " + d.Expression,
		})
	}
	return diagnostics, nil
}

func codeFor(err error) string {
	if errors.Is(err, operation.ErrOutOfRange) {
		return CodeOutOfRange
	}
	return CodeInvalid
}

func resultIDFor(diagnostics []protocol.Diagnostic) string {
	data, err := json.Marshal(diagnostics)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
