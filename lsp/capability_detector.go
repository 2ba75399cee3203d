package lsp

import (
	"encoding/json"
)

// DetectPullDiagnosticsSupport reports whether raw initialize params
// declare capabilities.textDocument.diagnostic. Unparsable params count as
// no support, which selects push diagnostics.
func DetectPullDiagnosticsSupport(rawParams json.RawMessage) bool {
	var initParams struct {
		Capabilities struct {
			TextDocument *struct {
				Diagnostic *json.RawMessage `json:"diagnostic"`
			} `json:"textDocument"`
		} `json:"capabilities"`
	}
	if err := json.Unmarshal(rawParams, &initParams); err != nil {
		return false
	}
	td := initParams.Capabilities.TextDocument
	return td != nil && td.Diagnostic != nil
}
