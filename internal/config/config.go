// Package config loads color-adjust settings from package.json, from
// .config/color-adjust.{yaml,yml,json} and from command line flags.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/coloradjust/internal/operation"
)

// PackageJSONKey is the package.json field holding color-adjust settings.
const PackageJSONKey = "colorAdjust"

// TokenFile names a design token file and its per-file overrides.
type TokenFile struct {
	Path         string   `json:"path" yaml:"path"`
	Prefix       string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	GroupMarkers []string `json:"groupMarkers,omitempty" yaml:"groupMarkers,omitempty"`
}

// Readable holds the replacement text readable() emits.
type Readable struct {
	Light string `json:"light" yaml:"light"`
	Dark  string `json:"dark" yaml:"dark"`
}

// Config is the merged configuration.
type Config struct {
	// Include and Exclude are doublestar globs relative to the root.
	Include []string `json:"include" yaml:"include"`
	Exclude []string `json:"exclude" yaml:"exclude"`

	// TokensFiles lists design token files. When empty the asimonim
	// workspace config is consulted.
	TokensFiles []TokenFile `json:"tokensFiles" yaml:"tokensFiles"`

	// Prefix is the global CSS variable prefix for tokens (can be
	// overridden per file).
	Prefix string `json:"prefix" yaml:"prefix"`

	// GroupMarkers are token names which are also group names.
	GroupMarkers []string `json:"groupMarkers" yaml:"groupMarkers"`

	Readable Readable `json:"readable" yaml:"readable"`
	LogLevel string   `json:"logLevel" yaml:"logLevel"`

	// Sources lists the files the configuration was read from, in order.
	Sources []string `json:"-" yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Include:      []string{"**/*.css"},
		Exclude:      []string{"**/node_modules/**"},
		GroupMarkers: []string{"_", "@", "DEFAULT"},
		Readable: Readable{
			Light: operation.DefaultLightToken,
			Dark:  operation.DefaultDarkToken,
		},
		LogLevel: "info",
	}
}

// Merge overlays the fields set in other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if len(other.Include) > 0 {
		c.Include = other.Include
	}
	if len(other.Exclude) > 0 {
		c.Exclude = other.Exclude
	}
	if len(other.TokensFiles) > 0 {
		c.TokensFiles = other.TokensFiles
	}
	if other.Prefix != "" {
		c.Prefix = other.Prefix
	}
	if len(other.GroupMarkers) > 0 {
		c.GroupMarkers = other.GroupMarkers
	}
	if other.Readable.Light != "" {
		c.Readable.Light = other.Readable.Light
	}
	if other.Readable.Dark != "" {
		c.Readable.Dark = other.Readable.Dark
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	c.Sources = append(c.Sources, other.Sources...)
}

// ResolveTokenFiles returns the token files with paths made absolute
// against root and global prefix and group markers filled in.
func (c *Config) ResolveTokenFiles(root string) []TokenFile {
	files := make([]TokenFile, 0, len(c.TokensFiles))
	for _, tf := range c.TokensFiles {
		if tf.Path == "" {
			continue
		}
		path := tf.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		resolved := TokenFile{Path: path, Prefix: tf.Prefix, GroupMarkers: tf.GroupMarkers}
		if resolved.Prefix == "" {
			resolved.Prefix = c.Prefix
		}
		if len(resolved.GroupMarkers) == 0 {
			resolved.GroupMarkers = c.GroupMarkers
		}
		files = append(files, resolved)
	}
	return files
}

// FromMap builds a Config from a decoded JSON or YAML object, such as
// editor settings. Unset fields stay zero.
func FromMap(m map[string]any) (*Config, error) {
	c := &Config{}
	var err error

	if c.Include, err = stringList(m, "include"); err != nil {
		return nil, err
	}
	if c.Exclude, err = stringList(m, "exclude"); err != nil {
		return nil, err
	}
	if c.GroupMarkers, err = stringList(m, "groupMarkers"); err != nil {
		return nil, err
	}
	if c.TokensFiles, err = tokenFiles(m); err != nil {
		return nil, err
	}
	if c.Prefix, err = stringField(m, "prefix"); err != nil {
		return nil, err
	}
	if c.LogLevel, err = stringField(m, "logLevel"); err != nil {
		return nil, err
	}

	if r, ok := m["readable"]; ok {
		rm, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("readable must be an object")
		}
		if c.Readable.Light, err = stringField(rm, "light"); err != nil {
			return nil, fmt.Errorf("readable: %w", err)
		}
		if c.Readable.Dark, err = stringField(rm, "dark"); err != nil {
			return nil, fmt.Errorf("readable: %w", err)
		}
	}
	return c, nil
}

func stringField(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return strings.TrimSpace(s), nil
}

// stringList accepts a single string or an array of strings.
func stringList(m map[string]any, key string) ([]string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch v := v.(type) {
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must contain only strings", key)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s must be a string or an array of strings", key)
}

// tokenFiles parses tokensFiles, whose entries are either paths or
// {path, prefix, groupMarkers} objects.
func tokenFiles(m map[string]any) ([]TokenFile, error) {
	v, ok := m["tokensFiles"]
	if !ok || v == nil {
		return nil, nil
	}

	var items []any
	switch v := v.(type) {
	case string:
		items = []any{v}
	case []any:
		items = v
	default:
		return nil, fmt.Errorf("tokensFiles must be a string or an array")
	}

	files := make([]TokenFile, 0, len(items))
	for i, item := range items {
		switch item := item.(type) {
		case string:
			files = append(files, TokenFile{Path: item})
		case map[string]any:
			path, err := stringField(item, "path")
			if err != nil {
				return nil, fmt.Errorf("tokensFiles[%d]: %w", i, err)
			}
			if path == "" {
				return nil, fmt.Errorf("tokensFiles[%d]: path must not be empty", i)
			}
			prefix, err := stringField(item, "prefix")
			if err != nil {
				return nil, fmt.Errorf("tokensFiles[%d]: %w", i, err)
			}
			markers, err := stringList(item, "groupMarkers")
			if err != nil {
				return nil, fmt.Errorf("tokensFiles[%d]: %w", i, err)
			}
			files = append(files, TokenFile{Path: path, Prefix: prefix, GroupMarkers: markers})
		default:
			return nil, fmt.Errorf("tokensFiles[%d] must be a string or an object", i)
		}
	}
	return files, nil
}
