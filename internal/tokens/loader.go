package tokens

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	asimonimParser "bennypowers.dev/asimonim/parser"
	"bennypowers.dev/asimonim/resolver"
	"bennypowers.dev/asimonim/schema"
	"bennypowers.dev/asimonim/validator"

	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/uriutil"
)

// ErrUnsupportedFile is returned when a token file is neither JSON nor YAML.
var ErrUnsupportedFile = errors.New("unsupported token file type")

// IsTokenFile reports whether path has a token file extension.
func IsTokenFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// LoadFile reads a DTCG token file and adds its tokens to the manager.
// Tokens previously loaded from the same path are replaced.
// Schema consistency problems are logged as warnings and do not fail the load.
func (m *Manager) LoadFile(filePath string, opts FileOptions) (int, error) {
	if !IsTokenFile(filePath) {
		return 0, fmt.Errorf("%w %s: %s", ErrUnsupportedFile, filepath.Ext(filePath), filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return m.LoadData(data, filePath, opts)
}

// LoadData parses token file content as if it were read from filePath.
func (m *Manager) LoadData(data []byte, filePath string, opts FileOptions) (int, error) {
	parser := asimonimParser.NewJSONParser()
	parsed, err := parser.Parse(data, asimonimParser.Options{
		Prefix:       opts.Prefix,
		GroupMarkers: opts.GroupMarkers,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to parse tokens from %s: %w", filePath, err)
	}

	version := detectVersion(parsed)
	for _, ve := range validator.ValidateConsistencyWithPath(data, version, filePath) {
		log.Warn("Schema validation: %s", ve.Error())
	}

	m.RemoveBySourceFile(filePath)

	fileURI := uriutil.PathToURI(filePath)
	var errs []error
	loaded := 0
	for _, tok := range parsed {
		tok.FilePath = filePath
		tok.DefinitionURI = fileURI
		if err := m.Add(tok); err != nil {
			errs = append(errs, fmt.Errorf("failed to add token %s: %w", tok.Name, err))
			continue
		}
		loaded++
	}

	if len(errs) > 0 {
		return loaded, fmt.Errorf("failed to add %d/%d tokens: %w", len(errs), len(parsed), errors.Join(errs...))
	}

	log.Info("Loaded %d tokens from %s", loaded, filePath)
	return loaded, nil
}

// Resolve resolves alias references across every loaded token.
// Call it after all token files are loaded.
func (m *Manager) Resolve() error {
	all := m.GetAll()
	if len(all) == 0 {
		return nil
	}
	if err := resolver.ResolveAliases(all, detectVersion(all)); err != nil {
		return fmt.Errorf("failed to resolve token aliases: %w", err)
	}
	return nil
}

// The first token with a known schema version decides for the whole set.
func detectVersion(toks []*Token) schema.Version {
	for _, t := range toks {
		if t.SchemaVersion != schema.Unknown {
			return t.SchemaVersion
		}
	}
	return schema.Draft
}
