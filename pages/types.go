package pages

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Page is a node in the site hierarchy. The node graph is a rooted tree:
// every non-root page has exactly one parent.
type Page struct {
	bun.BaseModel `bun:"table:core_page,alias:p"`

	ID          int       `bun:"id_page,pk"            json:"id"`
	ParentID    *int      `bun:"id_parent"             json:"parent_id,omitempty"`
	Name        string    `bun:"name,notnull"          json:"name"`
	Description string    `bun:"description"           json:"description,omitempty"`
	Role        string    `bun:"page_role"             json:"role,omitempty"`
	DateUpdate  time.Time `bun:"date_update,nullzero"  json:"date_update"`
}

// Repository exposes the read-only page lookups needed by the indexers.
type Repository interface {
	// RootPageID returns the configured root of the indexable sub-tree.
	RootPageID(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int) (*Page, error)
	// ChildPages returns the immediate children of a page, fully hydrated.
	ChildPages(ctx context.Context, id int) ([]*Page, error)
	// ChildPageIDs returns the immediate children of a page as bare ids.
	ChildPageIDs(ctx context.Context, id int) ([]int, error)
}
