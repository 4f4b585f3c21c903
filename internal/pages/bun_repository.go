package pages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-indexer/internal/logging"
	"github.com/goliatone/go-cms-indexer/pages"
	"github.com/goliatone/go-cms-indexer/pkg/interfaces"
)

// RootPagePropertyKey is the site property holding the id of the page the
// indexers treat as the root of the indexable tree.
const RootPagePropertyKey = "indexing.root_page_id"

// Page mirrors the public page type so callers can stay on one import.
type Page = pages.Page

type siteProperty struct {
	bun.BaseModel `bun:"table:core_site_properties,alias:sp"`

	Key   string `bun:"property_key,pk"`
	Value string `bun:"property_value"`
}

// BunRepository reads the page hierarchy and the root-page site property.
type BunRepository struct {
	db  *bun.DB
	log interfaces.Logger
}

// NewBunRepository constructs a page repository backed by bun.
func NewBunRepository(db *bun.DB, log interfaces.Logger) *BunRepository {
	if log == nil {
		log = logging.NoOp()
	}
	return &BunRepository{db: db, log: log}
}

var _ pages.Repository = (*BunRepository)(nil)

// Migrate creates the page and site property tables when missing.
func Migrate(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*Page)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create page table: %w", err)
	}
	if _, err := db.NewCreateTable().
		Model((*siteProperty)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create site properties table: %w", err)
	}
	return nil
}

// SetRootPageID stores the root page id property, replacing any previous
// value.
func SetRootPageID(ctx context.Context, db *bun.DB, id int) error {
	record := &siteProperty{Key: RootPagePropertyKey, Value: strconv.Itoa(id)}
	if _, err := db.NewInsert().
		Model(record).
		On("CONFLICT (property_key) DO UPDATE").
		Set("property_value = EXCLUDED.property_value").
		Exec(ctx); err != nil {
		return fmt.Errorf("store root page id: %w", err)
	}
	return nil
}

// RootPageID resolves the configured root of the indexable tree.
func (r *BunRepository) RootPageID(ctx context.Context) (int, error) {
	record := new(siteProperty)
	err := r.db.NewSelect().
		Model(record).
		Where("sp.property_key = ?", RootPagePropertyKey).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, pages.ErrRootUnavailable
		}
		return 0, fmt.Errorf("load root page property: %w", err)
	}

	id, err := strconv.Atoi(record.Value)
	if err != nil {
		return 0, fmt.Errorf("root page property %q is not a page id: %w", record.Value, err)
	}
	return id, nil
}

// GetByID retrieves a page by identifier.
func (r *BunRepository) GetByID(ctx context.Context, id int) (*Page, error) {
	record := new(Page)
	err := r.db.NewSelect().
		Model(record).
		Where("p.id_page = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &pages.PageNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("load page %d: %w", id, err)
	}
	return record, nil
}

// ChildPages returns the immediate children of a page ordered by id.
func (r *BunRepository) ChildPages(ctx context.Context, id int) ([]*Page, error) {
	var records []*Page
	if err := r.db.NewSelect().
		Model(&records).
		Where("p.id_parent = ?", id).
		OrderExpr("p.id_page ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("load children of page %d: %w", id, err)
	}
	return records, nil
}

// ChildPageIDs returns the immediate children of a page as bare ids.
func (r *BunRepository) ChildPageIDs(ctx context.Context, id int) ([]int, error) {
	var ids []int
	if err := r.db.NewSelect().
		Model((*Page)(nil)).
		Column("id_page").
		Where("p.id_parent = ?", id).
		OrderExpr("p.id_page ASC").
		Scan(ctx, &ids); err != nil {
		return nil, fmt.Errorf("load child ids of page %d: %w", id, err)
	}
	return ids, nil
}
