package extractors

import (
	"strings"
	"sync"

	"github.com/goliatone/go-cms-indexer/documents"
)

// Registry maps MIME content types to extractor capabilities. It is populated
// at process startup and queried by exact match; an absent key means "no
// extraction available" rather than an error.
type Registry struct {
	mu     sync.RWMutex
	byType map[string]documents.Extractor
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string]documents.Extractor)}
}

// Default returns a registry with the in-tree text capabilities registered:
// plain text, HTML and Markdown. Binary formats such as PDF are expected to
// be registered by the host.
func Default() *Registry {
	registry := NewRegistry()
	registry.Register("text/plain", PlainText{})
	registry.Register("text/html", HTML{})
	registry.Register("text/markdown", Markdown{})
	return registry
}

// Register binds an extractor to a content type, replacing any previous
// binding. Content types are matched case-insensitively.
func (r *Registry) Register(contentType string, extractor documents.Extractor) {
	if extractor == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType[normalizeContentType(contentType)] = extractor
}

// Lookup returns the extractor registered for a content type.
func (r *Registry) Lookup(contentType string) (documents.Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	extractor, ok := r.byType[normalizeContentType(contentType)]
	return extractor, ok
}

// ContentTypes returns the registered content types.
func (r *Registry) ContentTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byType))
	for contentType := range r.byType {
		out = append(out, contentType)
	}
	return out
}

// normalizeContentType drops any media type parameters ("; charset=...") and
// lowercases the remainder so declared attribute types match registrations.
func normalizeContentType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

var _ documents.ExtractorRegistry = (*Registry)(nil)
