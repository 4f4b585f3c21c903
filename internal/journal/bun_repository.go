package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-indexer/internal/logging"
	"github.com/goliatone/go-cms-indexer/journal"
	"github.com/goliatone/go-cms-indexer/pkg/interfaces"
)

const (
	defaultTable   = "core_indexer_action"
	alternateTable = "core_indexer_action_en"

	pairedInsertFailed = "JOURNAL_PAIRED_INSERT_FAILED"
	actionInvalid      = "JOURNAL_ACTION_INVALID"
)

// IndexerAction mirrors the public journal action type so callers can stay on
// one import.
type IndexerAction = journal.IndexerAction

const (
	TaskCreate = journal.TaskCreate
	TaskModify = journal.TaskModify
	TaskDelete = journal.TaskDelete
)

type actionRecord struct {
	bun.BaseModel `bun:"table:core_indexer_action,alias:ia"`

	ID          int    `bun:"id_action,pk"`
	DocumentID  string `bun:"id_document,notnull"`
	Task        int    `bun:"id_task,notnull"`
	IndexerName string `bun:"indexer_name,notnull"`
	PortletID   int    `bun:"id_portlet,notnull"`
}

// BunRepository keeps the pending-action log across two physical tables.
// Inserts write both tables inside one transaction; reads, deletes and
// bulk-clears touch only the active projection selected by the language tag,
// matching the behaviour downstream consumers depend on.
type BunRepository struct {
	db       *bun.DB
	language string
	log      interfaces.Logger
}

// Option configures the repository.
type Option func(*BunRepository)

// WithLanguage sets the language tag that selects the active projection.
// journal.AlternateLanguage routes to the alternate table; any other value
// (including empty) routes to the default table.
func WithLanguage(language string) Option {
	return func(r *BunRepository) {
		r.language = language
	}
}

// WithLogger attaches a logger to the repository.
func WithLogger(log interfaces.Logger) Option {
	return func(r *BunRepository) {
		if log != nil {
			r.log = log
		}
	}
}

// NewBunRepository constructs an action journal backed by bun.
func NewBunRepository(db *bun.DB, opts ...Option) *BunRepository {
	repo := &BunRepository{
		db:  db,
		log: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

var _ journal.Repository = (*BunRepository)(nil)

// Migrate creates both projection tables when they do not exist yet.
func Migrate(ctx context.Context, db *bun.DB) error {
	for _, table := range []string{defaultTable, alternateTable} {
		if _, err := db.NewCreateTable().
			Model((*actionRecord)(nil)).
			ModelTableExpr(table).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("create journal table %s: %w", table, err)
		}
	}
	return nil
}

// ActiveProjection reports which projection reads and deletes operate on.
func (r *BunRepository) ActiveProjection() journal.Projection {
	if r.language == journal.AlternateLanguage {
		return journal.ProjectionAlternate
	}
	return journal.ProjectionDefault
}

func tableName(projection journal.Projection) string {
	if projection == journal.ProjectionAlternate {
		return alternateTable
	}
	return defaultTable
}

func tableExpr(projection journal.Projection) string {
	return tableName(projection) + " AS ia"
}

// NextID returns max(id)+1 for the projection, or 1 when it is empty. The two
// projections keep independent id sequences even though paired inserts leave
// them value-equal.
func (r *BunRepository) NextID(ctx context.Context, projection journal.Projection) (int, error) {
	return nextID(ctx, r.db, projection)
}

func nextID(ctx context.Context, db bun.IDB, projection journal.Projection) (int, error) {
	var max sql.NullInt64
	if err := db.NewSelect().
		Model((*actionRecord)(nil)).
		ModelTableExpr(tableExpr(projection)).
		ColumnExpr("MAX(ia.id_action)").
		Scan(ctx, &max); err != nil {
		return 0, fmt.Errorf("journal next id (%s): %w", projection, err)
	}
	return int(max.Int64) + 1, nil
}

// Insert writes the same logical action into both projections, each row with
// the projection's own freshly computed id. Both writes share one transaction
// so a half-written pair cannot be observed.
func (r *BunRepository) Insert(ctx context.Context, action *IndexerAction) error {
	if err := validateAction(action); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "journal action rejected").
			WithTextCode(actionInvalid)
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, projection := range []journal.Projection{journal.ProjectionAlternate, journal.ProjectionDefault} {
			id, err := nextID(ctx, tx, projection)
			if err != nil {
				return err
			}
			record := &actionRecord{
				ID:          id,
				DocumentID:  action.DocumentID,
				Task:        action.Task,
				IndexerName: action.IndexerName,
				PortletID:   action.PortletID,
			}
			if _, err := tx.NewInsert().
				Model(record).
				ModelTableExpr(tableName(projection)).
				Exec(ctx); err != nil {
				return fmt.Errorf("journal insert (%s): %w", projection, err)
			}
			if projection == journal.ProjectionDefault {
				action.ID = id
			}
		}
		return nil
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "journal paired insert failed").
			WithTextCode(pairedInsertFailed)
	}

	r.log.Debug("journal action recorded",
		"action_id", action.ID,
		"document_id", action.DocumentID,
		"task", action.Task,
		"indexer", action.IndexerName,
	)
	return nil
}

// Load returns the action with the given id from the selected projection.
func (r *BunRepository) Load(ctx context.Context, id int, projection journal.Projection) (*IndexerAction, error) {
	record := new(actionRecord)
	err := r.db.NewSelect().
		Model(record).
		ModelTableExpr(tableExpr(projection)).
		Where("ia.id_action = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &journal.ActionNotFoundError{ID: id, Projection: projection}
		}
		return nil, fmt.Errorf("journal load (%s): %w", projection, err)
	}
	return record.toAction(), nil
}

// Delete removes the action from the active projection. The other
// projection's row is deliberately left in place.
func (r *BunRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.NewDelete().
		Model((*actionRecord)(nil)).
		ModelTableExpr(tableName(r.ActiveProjection())).
		Where("id_action = ?", id).
		Exec(ctx); err != nil {
		return fmt.Errorf("journal delete: %w", err)
	}
	return nil
}

// DeleteAll clears the active projection. The other projection is untouched.
func (r *BunRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.NewDelete().
		Model((*actionRecord)(nil)).
		ModelTableExpr(tableName(r.ActiveProjection())).
		Where("1 = 1").
		Exec(ctx); err != nil {
		return fmt.Errorf("journal delete all: %w", err)
	}
	return nil
}

// List returns actions from the active projection ordered by insertion.
func (r *BunRepository) List(ctx context.Context, filter journal.ActionFilter) ([]*IndexerAction, error) {
	var records []actionRecord
	q := r.db.NewSelect().
		Model(&records).
		ModelTableExpr(tableExpr(r.ActiveProjection())).
		OrderExpr("ia.id_action ASC")
	if filter.Task != nil {
		q = q.Where("ia.id_task = ?", *filter.Task)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("journal list: %w", err)
	}

	out := make([]*IndexerAction, 0, len(records))
	for i := range records {
		out = append(out, records[i].toAction())
	}
	return out, nil
}

// Store always fails: journal actions are immutable once written.
func (r *BunRepository) Store(context.Context, *IndexerAction) error {
	return journal.ErrStoreUnsupported
}

func (rec *actionRecord) toAction() *IndexerAction {
	return &IndexerAction{
		ID:          rec.ID,
		DocumentID:  rec.DocumentID,
		Task:        rec.Task,
		IndexerName: rec.IndexerName,
		PortletID:   rec.PortletID,
	}
}

func validateAction(action *IndexerAction) error {
	if action == nil {
		return validation.Errors{
			"action": validation.NewError("indexer.journal.action_required", "action is required"),
		}
	}
	errs := validation.Errors{}
	if action.DocumentID == "" {
		errs["document_id"] = validation.NewError("indexer.journal.document_id_required", "document id is required")
	}
	if action.Task < TaskCreate || action.Task > TaskDelete {
		errs["task"] = validation.NewError("indexer.journal.task_invalid", "task code is unknown")
	}
	if action.IndexerName == "" {
		errs["indexer_name"] = validation.NewError("indexer.journal.indexer_name_required", "indexer name is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
