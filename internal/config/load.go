package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	asimonimConfig "bennypowers.dev/asimonim/config"
	"bennypowers.dev/asimonim/fs"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/coloradjust/internal/log"
)

// FileNames are the config files looked up under <root>/.config, in order.
var FileNames = []string{
	"color-adjust.yaml",
	"color-adjust.yml",
	"color-adjust.json",
}

// Load reads configuration for the project at root. Later sources win:
// defaults, package.json "colorAdjust", then the config file. explicit,
// when set, replaces the .config lookup.
func Load(root, explicit string) (*Config, error) {
	cfg := Default()

	pkg, err := readPackageJSON(root)
	if err != nil {
		return nil, err
	}
	cfg.Merge(pkg)

	file, err := readConfigFile(root, explicit)
	if err != nil {
		return nil, err
	}
	cfg.Merge(file)

	if len(cfg.TokensFiles) == 0 {
		cfg.TokensFiles = readAsimonimConfig(root)
	}

	return cfg, nil
}

// readPackageJSON reads the colorAdjust field of package.json. Returns nil
// if the file or the field doesn't exist (not an error).
func readPackageJSON(root string) (*Config, error) {
	if root == "" {
		return nil, nil
	}
	path := filepath.Join(root, "package.json")

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}

	var pkg map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}

	raw, ok := pkg[PackageJSONKey]
	if !ok {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object", PackageJSONKey)
	}

	cfg, err := FromMap(m)
	if err != nil {
		return nil, fmt.Errorf("package.json %s: %w", PackageJSONKey, err)
	}
	cfg.Sources = []string{path}
	return cfg, nil
}

func readConfigFile(root, explicit string) (*Config, error) {
	if explicit != "" {
		return ReadFile(explicit)
	}
	if root == "" {
		return nil, nil
	}
	for _, name := range FileNames {
		path := filepath.Join(root, ".config", name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return ReadFile(path)
	}
	return nil, nil
}

// ReadFile reads one YAML or JSON config file.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var m map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	case ".json":
		err = json.Unmarshal(jsonc.ToJSON(data), &m)
	default:
		return nil, fmt.Errorf("unsupported config file type: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if m == nil {
		return &Config{Sources: []string{path}}, nil
	}

	cfg, err := FromMap(m)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Sources = []string{path}
	return cfg, nil
}

// readAsimonimConfig reads token files from the design tokens workspace
// config (.config/design-tokens.{yaml,json}). The prefix and group markers
// set there apply to its files only. Failures are logged, since that file
// belongs to other tools.
func readAsimonimConfig(root string) []TokenFile {
	if root == "" {
		return nil
	}

	filesystem := fs.NewOSFileSystem()
	ac, err := asimonimConfig.Load(filesystem, root)
	if err != nil {
		log.Warn("Failed to read design tokens config: %v", err)
		return nil
	}
	if ac == nil {
		return nil
	}

	var files []TokenFile
	expanded, err := ac.ExpandFiles(filesystem, root)
	if err != nil {
		log.Warn("Failed to expand file globs: %v", err)
		for _, spec := range ac.Files {
			tf := TokenFile{Path: spec.Path, Prefix: spec.Prefix, GroupMarkers: spec.GroupMarkers}
			if tf.Prefix == "" {
				tf.Prefix = ac.Prefix
			}
			if len(tf.GroupMarkers) == 0 {
				tf.GroupMarkers = ac.GroupMarkers
			}
			files = append(files, tf)
		}
		return files
	}

	for _, path := range expanded {
		files = append(files, TokenFile{Path: path, Prefix: ac.Prefix, GroupMarkers: ac.GroupMarkers})
	}
	return files
}
