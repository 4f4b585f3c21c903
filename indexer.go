// Package indexer assembles the tree-scoped indexing runtime: the page and
// document drivers, the pending-action journal, and the sink they write into.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-cms-indexer/documents"
	"github.com/goliatone/go-cms-indexer/extractors"
	"github.com/goliatone/go-cms-indexer/internal/logging"
	"github.com/goliatone/go-cms-indexer/journal"
	"github.com/goliatone/go-cms-indexer/pages"
	"github.com/goliatone/go-cms-indexer/pkg/interfaces"
	"github.com/goliatone/go-cms-indexer/search"
)

// Re-exported contracts so most consumers only import this package.
type (
	Indexer       = search.Indexer
	Record        = search.Record
	Sink          = search.Sink
	IndexerAction = journal.IndexerAction
	ActionFilter  = journal.ActionFilter
)

// Journal task codes.
const (
	TaskCreate = journal.TaskCreate
	TaskModify = journal.TaskModify
	TaskDelete = journal.TaskDelete
)

const runFailed = "INDEXER_RUN_FAILED"

// Dependencies are the collaborators the module is wired with. Pages,
// Documents and Sink are required; Journal, Extractors and Logger fall back
// to a no-op journal-less setup, the default registry, and silent logging.
type Dependencies struct {
	Pages      pages.Repository
	Documents  documents.Repository
	Journal    journal.Repository
	Sink       search.Sink
	Extractors documents.ExtractorRegistry
	Logger     interfaces.LoggerProvider
}

func (d Dependencies) validate() error {
	errs := validation.Errors{}
	if d.Pages == nil {
		errs["pages"] = validation.NewError("indexer.deps.pages_required", "pages repository is required")
	}
	if d.Documents == nil {
		errs["documents"] = validation.NewError("indexer.deps.documents_required", "documents repository is required")
	}
	if d.Sink == nil {
		errs["sink"] = validation.NewError("indexer.deps.sink_required", "sink is required")
	}
	if len(errs) > 0 {
		return goerrors.Wrap(errs, goerrors.CategoryValidation, "indexer dependencies rejected").
			WithTextCode(configInvalid)
	}
	return nil
}

// uidDeleter is the optional sink capability incremental deletes need.
type uidDeleter interface {
	DeleteByUID(ctx context.Context, uid string) error
}

// Module is the top level indexing runtime facade.
type Module struct {
	cfg     Config
	deps    Dependencies
	log     interfaces.Logger
	pageIx  *search.PageIndexer
	docIx   *search.DocumentIndexer
	journal journal.Repository
}

// New constructs the module from a validated configuration and its wired
// dependencies.
func New(cfg Config, deps Dependencies) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}

	if deps.Extractors == nil {
		deps.Extractors = extractors.Default()
	}

	searchCfg, err := cfg.searchConfig()
	if err != nil {
		return nil, err
	}

	log := logging.SearchLogger(deps.Logger)
	builder := search.NewBuilder(searchCfg, deps.Extractors, logging.ExtractLogger(deps.Logger))

	return &Module{
		cfg:     cfg,
		deps:    deps,
		log:     log,
		pageIx:  search.NewPageIndexer(searchCfg, deps.Pages, builder, deps.Sink, log),
		docIx:   search.NewDocumentIndexer(searchCfg, deps.Pages, deps.Documents, builder, deps.Sink, log),
		journal: deps.Journal,
	}, nil
}

// Indexers returns every registered driver, enabled or not.
func (m *Module) Indexers() []search.Indexer {
	return []search.Indexer{m.pageIx, m.docIx}
}

// PageIndexer returns the page driver.
func (m *Module) PageIndexer() *search.PageIndexer { return m.pageIx }

// DocumentIndexer returns the document driver.
func (m *Module) DocumentIndexer() *search.DocumentIndexer { return m.docIx }

// Journal returns the pending-action journal, nil when none was wired.
func (m *Module) Journal() journal.Repository { return m.journal }

// RunAll executes one full pass of every enabled driver. Drivers that fail to
// enumerate their scope contribute to the returned error; the remaining
// drivers still run.
func (m *Module) RunAll(ctx context.Context) error {
	runID := uuid.NewString()
	var failures []error

	for _, ix := range m.Indexers() {
		if !ix.IsEnabled() {
			m.log.Debug("indexer disabled, skipping", "run_id", runID, "indexer", ix.Name())
			continue
		}

		m.log.Info("full indexing pass started", "run_id", runID, "indexer", ix.Name())
		if err := ix.IndexDocuments(ctx); err != nil {
			m.log.Error("full indexing pass failed", "run_id", runID, "indexer", ix.Name(), "error", err)
			failures = append(failures, fmt.Errorf("%s: %w", ix.Name(), err))
			continue
		}
		m.log.Info("full indexing pass finished", "run_id", runID, "indexer", ix.Name())
	}

	if len(failures) > 0 {
		return goerrors.Wrap(errors.Join(failures...), goerrors.CategoryCommand, "indexing run failed").
			WithTextCode(runFailed)
	}
	return nil
}

// Notify records a pending document action in the journal. It is a no-op when
// no journal was wired.
func (m *Module) Notify(ctx context.Context, task, documentID, portletID int) error {
	if m.journal == nil {
		return nil
	}
	return m.journal.Insert(ctx, &journal.IndexerAction{
		DocumentID:  search.UID(documentID, search.DocumentShortName),
		Task:        task,
		IndexerName: search.DocumentIndexerName,
		PortletID:   portletID,
	})
}

// PendingActions lists the journaled actions of the active projection.
func (m *Module) PendingActions(ctx context.Context, filter journal.ActionFilter) ([]*journal.IndexerAction, error) {
	if m.journal == nil {
		return nil, nil
	}
	return m.journal.List(ctx, filter)
}

// ProcessPending drains the journal: deletions are removed from the sink by
// uid, creations and modifications are rebuilt through the document driver.
// Each action is deleted from the journal once applied; a failing action is
// reported and kept for the next drain.
func (m *Module) ProcessPending(ctx context.Context) error {
	if m.journal == nil {
		return nil
	}

	actions, err := m.journal.List(ctx, journal.ActionFilter{})
	if err != nil {
		return fmt.Errorf("list pending actions: %w", err)
	}

	for _, action := range actions {
		if err := m.applyAction(ctx, action); err != nil {
			m.log.Error("pending action failed",
				"action_id", action.ID,
				"document_id", action.DocumentID,
				"task", action.Task,
				"error", err,
			)
			m.deps.Sink.Report(action.IndexerName, err, fmt.Sprintf("document ID : %s", action.DocumentID))
			continue
		}
		if err := m.journal.Delete(ctx, action.ID); err != nil {
			return fmt.Errorf("clear action %d: %w", action.ID, err)
		}
	}
	return nil
}

func (m *Module) applyAction(ctx context.Context, action *journal.IndexerAction) error {
	if action.Task == journal.TaskDelete {
		deleter, ok := m.deps.Sink.(uidDeleter)
		if !ok {
			return fmt.Errorf("sink does not support deletion by uid")
		}
		return deleter.DeleteByUID(ctx, action.DocumentID)
	}

	id, err := documentIDFromUID(action.DocumentID)
	if err != nil {
		return err
	}
	records, err := m.docIx.Documents(ctx, id)
	if err != nil {
		return err
	}
	for _, record := range records {
		if err := m.deps.Sink.Write(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// documentIDFromUID recovers the numeric document id from a journaled uid
// such as "42_dcm".
func documentIDFromUID(uid string) (int, error) {
	raw, _, ok := strings.Cut(uid, "_")
	if !ok {
		return 0, fmt.Errorf("malformed document uid %q", uid)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("malformed document uid %q: %w", uid, err)
	}
	return id, nil
}
