// Package registry maps format names and file extensions to import
// parsers. Registration goes through importer.NewParser, so a format
// registered for a read mode it cannot serve is rejected up front.
package registry

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/logflow/gridflow/pkg/errors"
	"github.com/logflow/gridflow/pkg/importer"
)

// Registry holds the registered import parsers.
type Registry struct {
	mu sync.RWMutex

	parsers map[string]*importer.Parser

	// Extension to format name mapping
	extensions map[string]string
}

// Global default registry
var defaultRegistry = NewRegistry()

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		parsers:    make(map[string]*importer.Parser),
		extensions: make(map[string]string),
	}
}

// Register builds a parser for the format and records it. impl must
// carry the capability matching mode; the mismatch surfaces here, not
// at first use.
func (r *Registry) Register(format string, mode importer.ReadMode, impl interface{},
	opts []importer.ParserOption, extensions ...string) error {

	parser, err := importer.NewParser(mode, impl, opts...)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.parsers[format] = parser
	for _, ext := range extensions {
		r.extensions[strings.ToLower(ext)] = format
	}
	return nil
}

// Get returns the parser registered for a format.
func (r *Registry) Get(format string) (*importer.Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if parser, ok := r.parsers[format]; ok {
		return parser, nil
	}
	return nil, errors.New(errors.CodeUnknownFormat, "no parser for format").
		WithContext("format", format)
}

// GetByPath returns the parser whose registered extension matches the
// path, after stripping a trailing .gz.
func (r *Registry) GetByPath(path string) (*importer.Parser, error) {
	lower := strings.ToLower(path)
	lower = strings.TrimSuffix(lower, ".gz")
	ext := filepath.Ext(lower)

	r.mu.RLock()
	format, ok := r.extensions[ext]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.New(errors.CodeUnknownFormat, "no parser for file extension").
			WithContext("path", path)
	}
	return r.Get(format)
}

// Formats returns all registered format names.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.parsers))
	for f := range r.parsers {
		formats = append(formats, f)
	}
	return formats
}

// Register registers a format with the default registry.
func Register(format string, mode importer.ReadMode, impl interface{},
	opts []importer.ParserOption, extensions ...string) error {
	return defaultRegistry.Register(format, mode, impl, opts, extensions...)
}

// Get retrieves a parser from the default registry.
func Get(format string) (*importer.Parser, error) {
	return defaultRegistry.Get(format)
}

// GetByPath retrieves a parser from the default registry by file path.
func GetByPath(path string) (*importer.Parser, error) {
	return defaultRegistry.GetByPath(path)
}

// Default returns the default registry.
func Default() *Registry {
	return defaultRegistry
}
