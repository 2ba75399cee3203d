// Package project ties a workspace's configuration, design tokens and
// transformer together. The CLI and the language server both work on a
// Project.
package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"bennypowers.dev/coloradjust/internal/config"
	"bennypowers.dev/coloradjust/internal/expression"
	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/operation"
	"bennypowers.dev/coloradjust/internal/tokens"
	"bennypowers.dev/coloradjust/internal/transform"
	"bennypowers.dev/coloradjust/internal/variables"
)

// Project is a loaded workspace.
type Project struct {
	Root        string
	ConfigFile  string
	// Overrides are applied over the configuration files on every load.
	// The language server fills them from editor settings.
	Overrides   *config.Config
	Config      *config.Config
	Registry    *operation.Registry
	Tokens      *tokens.Manager
	Transformer *transform.Transformer
}

// Option configures a Project before its first load.
type Option func(*Project)

// WithOverrides sets configuration applied over the configuration files.
func WithOverrides(cfg *config.Config) Option {
	return func(p *Project) {
		p.Overrides = cfg
	}
}

// Load reads the configuration for root, loads its token files and builds
// a transformer. configFile overrides the .config lookup when set. Token
// files that fail to load are reported in the returned error; the project
// is still usable.
func Load(root, configFile string, opts ...Option) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	p := &Project{
		Root:       abs,
		ConfigFile: configFile,
		Tokens:     tokens.NewManager(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.Reload(); err != nil {
		if p.Config == nil {
			return nil, err
		}
		return p, err
	}
	return p, nil
}

// Reload re-reads the configuration and every token file.
func (p *Project) Reload() error {
	cfg, err := config.Load(p.Root, p.ConfigFile)
	if err != nil {
		return err
	}
	cfg.Merge(p.Overrides)

	reg, err := operation.NewRegistry(
		operation.DefaultAliases,
		operation.WithReadableTokens(cfg.Readable.Light, cfg.Readable.Dark),
	)
	if err != nil {
		return fmt.Errorf("failed to build operation registry: %w", err)
	}

	p.Config = cfg
	p.Registry = reg
	p.Transformer = transform.New(
		expression.New(reg),
		transform.WithSources(variables.Tokens(p.Tokens)),
	)
	return p.ReloadTokens()
}

// ReloadTokens clears and reloads the configured token files.
func (p *Project) ReloadTokens() error {
	p.Tokens.Clear()

	var errs []error
	for _, tf := range p.TokenFiles() {
		opts := tokens.FileOptions{Prefix: tf.Prefix, GroupMarkers: tf.GroupMarkers}
		if _, err := p.Tokens.LoadFile(tf.Path, opts); err != nil {
			errs = append(errs, fmt.Errorf("failed to load %s: %w", tf.Path, err))
		}
	}
	if err := p.Tokens.Resolve(); err != nil {
		errs = append(errs, err)
	}

	log.Debug("Total tokens loaded: %d", p.Tokens.Count())
	return errors.Join(errs...)
}

// TokenFiles returns the configured token files with absolute paths.
func (p *Project) TokenFiles() []config.TokenFile {
	if p.Config == nil {
		return nil
	}
	return p.Config.ResolveTokenFiles(p.Root)
}

// IsTokenFile reports whether path is one of the configured token files.
func (p *Project) IsTokenFile(path string) bool {
	return slices.ContainsFunc(p.TokenFiles(), func(tf config.TokenFile) bool {
		return tf.Path == path
	})
}

// IsConfigFile reports whether path is a file the configuration was read
// from, or one that would be read if it were created.
func (p *Project) IsConfigFile(path string) bool {
	if p.ConfigFile != "" && path == p.ConfigFile {
		return true
	}
	if path == filepath.Join(p.Root, "package.json") {
		return true
	}
	for _, name := range config.FileNames {
		if path == filepath.Join(p.Root, ".config", name) {
			return true
		}
	}
	return p.Config != nil && slices.Contains(p.Config.Sources, path)
}

// Rel returns path relative to the project root, with forward slashes.
func (p *Project) Rel(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Matches reports whether path is included by the configured globs.
func (p *Project) Matches(path string) bool {
	return p.Config.Matches(p.Rel(path))
}
