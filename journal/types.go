package journal

import "context"

// Task codes describe the pending index mutation recorded for a document.
const (
	TaskCreate = 1
	TaskModify = 2
	TaskDelete = 3
)

// Projection selects one of the two physical stores backing the journal.
type Projection string

const (
	// ProjectionDefault is the default-locale store.
	ProjectionDefault Projection = "default"
	// ProjectionAlternate is the alternate-locale store.
	ProjectionAlternate Projection = "alternate"
)

// AlternateLanguage is the language tag that routes reads and deletes to the
// alternate projection. Every other value selects the default projection.
const AlternateLanguage = "en"

// IndexerAction records one pending index mutation. Actions are immutable
// once written: the only allowed mutations are delete and bulk-clear.
type IndexerAction struct {
	ID          int    `json:"id"`
	DocumentID  string `json:"document_id"`
	Task        int    `json:"task"`
	IndexerName string `json:"indexer_name"`
	PortletID   int    `json:"portlet_id"`
}

// ActionFilter restricts List results. Active predicates are ANDed.
type ActionFilter struct {
	Task *int
}

// WithTask returns a filter restricted to one task code.
func WithTask(task int) ActionFilter {
	return ActionFilter{Task: &task}
}

// Repository is the pending-action log. Inserts are paired across both
// projections; reads, deletes and bulk-clears affect only the active
// projection selected by the repository's language tag.
type Repository interface {
	// NextID returns max(id)+1 for the given projection, or 1 when empty.
	NextID(ctx context.Context, projection Projection) (int, error)
	// Insert writes the same logical action into both projections, each with
	// its own freshly computed id. The paired write is atomic.
	Insert(ctx context.Context, action *IndexerAction) error
	// Load returns the action with the given id from the selected projection.
	Load(ctx context.Context, id int, projection Projection) (*IndexerAction, error)
	// Delete removes the action from the active projection only.
	Delete(ctx context.Context, id int) error
	// DeleteAll clears the active projection only.
	DeleteAll(ctx context.Context) error
	// List returns actions from the active projection in insertion order.
	List(ctx context.Context, filter ActionFilter) ([]*IndexerAction, error)
	// Store is unsupported: actions are immutable once written.
	Store(ctx context.Context, action *IndexerAction) error
}
