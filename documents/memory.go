package documents

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-memory document store for scaffolding/tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	documents map[int]*Document
	portlets  map[int]*Portlet
	published map[int][]int
	types     []string
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		documents: make(map[int]*Document),
		portlets:  make(map[int]*Portlet),
		published: make(map[int][]int),
	}
}

// PutDocument inserts the supplied document.
func (m *MemoryRepository) PutDocument(record *Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *record
	copied.Attributes = cloneAttributes(record.Attributes)
	m.documents[copied.ID] = &copied
}

// PutPortlet inserts the supplied portlet.
func (m *MemoryRepository) PutPortlet(record *Portlet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *record
	m.portlets[copied.ID] = &copied
}

// Publish records a document as distributed through a portlet.
func (m *MemoryRepository) Publish(portletID, documentID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published[portletID] = append(m.published[portletID], documentID)
}

// SetTypeNames configures the registered document type names.
func (m *MemoryRepository) SetTypeNames(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types = append([]string(nil), names...)
}

// GetByID retrieves a document with its attributes.
func (m *MemoryRepository) GetByID(_ context.Context, id int) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.documents[id]
	if !ok {
		return nil, &DocumentNotFoundError{ID: id}
	}
	copied := *record
	copied.Attributes = cloneAttributes(record.Attributes)
	return &copied, nil
}

// PortletsByType returns every portlet with the given type.
func (m *MemoryRepository) PortletsByType(_ context.Context, portletType string) ([]*Portlet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int, 0, len(m.portlets))
	for id, record := range m.portlets {
		if record.Type == portletType {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	out := make([]*Portlet, 0, len(ids))
	for _, id := range ids {
		copied := *m.portlets[id]
		out = append(out, &copied)
	}
	return out, nil
}

// PortletsByDocument returns the portlets publishing a document.
func (m *MemoryRepository) PortletsByDocument(_ context.Context, documentID int) ([]*Portlet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int, 0)
	for portletID, docIDs := range m.published {
		for _, id := range docIDs {
			if id == documentID {
				ids = append(ids, portletID)
				break
			}
		}
	}
	sort.Ints(ids)
	out := make([]*Portlet, 0, len(ids))
	for _, id := range ids {
		if record, ok := m.portlets[id]; ok {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

// PublishedDocuments returns the documents published through a portlet.
func (m *MemoryRepository) PublishedDocuments(_ context.Context, portletID int) ([]*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Document, 0, len(m.published[portletID]))
	for _, id := range m.published[portletID] {
		if record, ok := m.documents[id]; ok {
			copied := *record
			copied.Attributes = cloneAttributes(record.Attributes)
			out = append(out, &copied)
		}
	}
	return out, nil
}

// TypeNames lists the registered document type names.
func (m *MemoryRepository) TypeNames(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.types...), nil
}

func cloneAttributes(attributes []*Attribute) []*Attribute {
	if attributes == nil {
		return nil
	}
	out := make([]*Attribute, 0, len(attributes))
	for _, attribute := range attributes {
		copied := *attribute
		out = append(out, &copied)
	}
	return out
}
