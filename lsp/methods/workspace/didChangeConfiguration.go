package workspace

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/coloradjust/internal/config"
	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/lsp/types"
)

// SettingsKey is the section of the editor settings holding color-adjust
// configuration, the same key package.json uses.
const SettingsKey = config.PackageJSONKey

// DidChangeConfiguration applies editor settings over the configuration
// files and reloads the project.
func DidChangeConfiguration(req *types.RequestContext, params *protocol.DidChangeConfigurationParams) error {
	settings, err := parseSettings(params.Settings)
	if err != nil {
		// Keep the previous settings.
		req.AddWarning(err)
		return nil
	}
	req.Server.SetSettings(settings)
	log.Info("Editor settings changed, reloading project")

	req.AddWarning(req.Server.LoadProject())
	refreshDiagnostics(req)
	return nil
}

// parseSettings reads the colorAdjust section of the settings. A missing
// section yields nil, which clears previous editor settings.
func parseSettings(settings any) (*config.Config, error) {
	if settings == nil {
		return nil, nil
	}
	m, ok := settings.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("settings must be an object, got %T", settings)
	}
	section, ok := m[SettingsKey]
	if !ok || section == nil {
		return nil, nil
	}
	sectionMap, ok := section.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s settings must be an object, got %T", SettingsKey, section)
	}
	cfg, err := config.FromMap(sectionMap)
	if err != nil {
		return nil, fmt.Errorf("invalid %s settings: %w", SettingsKey, err)
	}
	return cfg, nil
}
