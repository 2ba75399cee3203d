package tokens

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Manager holds design tokens loaded from one or more files.
//
// Tokens are keyed by "filePath:tokenName" so two files may define the same
// token name. Lookups by CSS variable name return the first match in file
// load order.
type Manager struct {
	tokens map[string]*Token
	order  []string
	mu     sync.RWMutex
}

// NewManager creates a new token manager with an empty token registry.
func NewManager() *Manager {
	return &Manager{
		tokens: make(map[string]*Token),
	}
}

func makeKey(filePath, tokenName string) string {
	if filePath == "" {
		return tokenName
	}
	return filePath + ":" + tokenName
}

// Add adds or updates a token in the manager
func (m *Manager) Add(token *Token) error {
	if token == nil {
		return fmt.Errorf("token cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := makeKey(token.FilePath, token.Name)
	if _, exists := m.tokens[key]; !exists {
		m.order = append(m.order, key)
	}
	m.tokens[key] = token
	return nil
}

// Get retrieves a token by name or CSS variable name. Supported forms:
// "color-primary", "color.primary", "--color-primary" and
// "--prefix-color-primary".
func (m *Manager) Get(nameOrVar string) *Token {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if token, exists := m.tokens[nameOrVar]; exists {
		return token
	}

	searchName := strings.TrimPrefix(strings.ReplaceAll(nameOrVar, ".", "-"), "--")
	for _, key := range m.order {
		token := m.tokens[key]
		if token.CSSVariableName() == nameOrVar {
			return token
		}
		if strings.ReplaceAll(token.Name, ".", "-") == searchName {
			return token
		}
	}
	return nil
}

// Lookup returns the resolved CSS value for a custom property name such as
// "--brand-primary".
func (m *Manager) Lookup(cssVar string) (string, bool) {
	token := m.Get(cssVar)
	if token == nil {
		return "", false
	}
	return ValueOf(token), true
}

// GetAll returns all tokens in load order
func (m *Manager) GetAll() []*Token {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tokens := make([]*Token, 0, len(m.order))
	for _, key := range m.order {
		tokens = append(tokens, m.tokens[key])
	}
	return tokens
}

// Clear removes all tokens
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens = make(map[string]*Token)
	m.order = nil
}

// Count returns the number of tokens
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.tokens)
}

// RemoveBySourceFile removes all tokens from a specific source file
// Returns the number of tokens removed
func (m *Manager) RemoveBySourceFile(filePath string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	kept := m.order[:0]
	for _, key := range m.order {
		if m.tokens[key].FilePath == filePath {
			delete(m.tokens, key)
			removed++
			continue
		}
		kept = append(kept, key)
	}
	m.order = kept
	return removed
}

// SourceFiles returns the sorted paths of the files tokens came from.
func (m *Manager) SourceFiles() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make(map[string]struct{})
	for _, token := range m.tokens {
		if token.FilePath != "" {
			files[token.FilePath] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(files))
}
