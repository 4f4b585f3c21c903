package pages

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-memory page store for scaffolding/tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	rootID   int
	hasRoot  bool
	pages    map[int]*Page
	children map[int][]int
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		pages:    make(map[int]*Page),
		children: make(map[int][]int),
	}
}

// SetRoot configures the root page id returned by RootPageID.
func (m *MemoryRepository) SetRoot(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rootID = id
	m.hasRoot = true
}

// Put inserts the supplied page and links it under its parent.
func (m *MemoryRepository) Put(record *Page) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *record
	m.pages[copied.ID] = &copied
	if copied.ParentID != nil {
		m.children[*copied.ParentID] = append(m.children[*copied.ParentID], copied.ID)
	}
}

// Link attaches a child id under a parent without touching page records.
// Tests use it to fabricate malformed hierarchies.
func (m *MemoryRepository) Link(parentID, childID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.children[parentID] = append(m.children[parentID], childID)
}

// RootPageID returns the configured root id.
func (m *MemoryRepository) RootPageID(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.hasRoot {
		return 0, ErrRootUnavailable
	}
	return m.rootID, nil
}

// GetByID retrieves a page by identifier.
func (m *MemoryRepository) GetByID(_ context.Context, id int) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	page, ok := m.pages[id]
	if !ok {
		return nil, &PageNotFoundError{ID: id}
	}
	copied := *page
	return &copied, nil
}

// ChildPages returns the immediate children of a page.
func (m *MemoryRepository) ChildPages(_ context.Context, id int) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := append([]int(nil), m.children[id]...)
	sort.Ints(ids)
	out := make([]*Page, 0, len(ids))
	for _, childID := range ids {
		if page, ok := m.pages[childID]; ok {
			copied := *page
			out = append(out, &copied)
		}
	}
	return out, nil
}

// ChildPageIDs returns the immediate children of a page as ids.
func (m *MemoryRepository) ChildPageIDs(_ context.Context, id int) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := append([]int(nil), m.children[id]...)
	sort.Ints(ids)
	return ids, nil
}
