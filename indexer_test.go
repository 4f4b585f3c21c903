package indexer

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-indexer/documents"
	"github.com/goliatone/go-cms-indexer/journal"
	"github.com/goliatone/go-cms-indexer/pages"
	"github.com/goliatone/go-cms-indexer/search"
)

type fakeSink struct {
	records []*search.Record
	deleted []string
	reports []string
}

func (s *fakeSink) Write(_ context.Context, record *search.Record) error {
	s.records = append(s.records, record)
	return nil
}

func (s *fakeSink) Report(indexerName string, _ error, message string) {
	s.reports = append(s.reports, indexerName+": "+message)
}

func (s *fakeSink) DeleteByUID(_ context.Context, uid string) error {
	s.deleted = append(s.deleted, uid)
	return nil
}

type fakeJournal struct {
	actions []*journal.IndexerAction
	nextID  int
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{nextID: 1}
}

func (j *fakeJournal) NextID(context.Context, journal.Projection) (int, error) {
	return j.nextID, nil
}

func (j *fakeJournal) Insert(_ context.Context, action *journal.IndexerAction) error {
	action.ID = j.nextID
	j.nextID++
	j.actions = append(j.actions, action)
	return nil
}

func (j *fakeJournal) Load(_ context.Context, id int, projection journal.Projection) (*journal.IndexerAction, error) {
	for _, action := range j.actions {
		if action.ID == id {
			return action, nil
		}
	}
	return nil, &journal.ActionNotFoundError{ID: id, Projection: projection}
}

func (j *fakeJournal) Delete(_ context.Context, id int) error {
	kept := j.actions[:0]
	for _, action := range j.actions {
		if action.ID != id {
			kept = append(kept, action)
		}
	}
	j.actions = kept
	return nil
}

func (j *fakeJournal) DeleteAll(context.Context) error {
	j.actions = nil
	return nil
}

func (j *fakeJournal) List(_ context.Context, filter journal.ActionFilter) ([]*journal.IndexerAction, error) {
	out := make([]*journal.IndexerAction, 0, len(j.actions))
	for _, action := range j.actions {
		if filter.Task != nil && action.Task != *filter.Task {
			continue
		}
		out = append(out, action)
	}
	return out, nil
}

func (j *fakeJournal) Store(context.Context, *journal.IndexerAction) error {
	return journal.ErrStoreUnsupported
}

var _ journal.Repository = (*fakeJournal)(nil)

func intPtr(v int) *int { return &v }

func newModuleFixture(t *testing.T) (*Module, *fakeSink, *fakeJournal) {
	t.Helper()

	pageRepo := pages.NewMemoryRepository()
	pageRepo.SetRoot(1)
	pageRepo.Put(&pages.Page{ID: 1, Name: "Home", DateUpdate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	pageRepo.Put(&pages.Page{ID: 2, ParentID: intPtr(1), Name: "News", Role: "press", DateUpdate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)})

	docRepo := documents.NewMemoryRepository()
	docRepo.PutDocument(&documents.Document{
		ID:               7,
		Title:            "Annual report",
		Type:             "report",
		DateModification: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		Attributes: []*documents.Attribute{
			{Code: "body", Searchable: true, TextValue: "full text"},
		},
	})
	docRepo.PutPortlet(&documents.Portlet{ID: 10, PageID: 2, Type: documents.PortletTypeDocumentList})
	docRepo.Publish(10, 7)

	sink := &fakeSink{}
	jrnl := newFakeJournal()

	mod, err := New(DefaultConfig(), Dependencies{
		Pages:     pageRepo,
		Documents: docRepo,
		Journal:   jrnl,
		Sink:      sink,
	})
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	return mod, sink, jrnl
}

func TestNewRejectsMissingDependencies(t *testing.T) {
	_, err := New(DefaultConfig(), Dependencies{})
	if err == nil {
		t.Fatal("expected dependency validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestModuleRunAll(t *testing.T) {
	mod, sink, _ := newModuleFixture(t)

	if err := mod.RunAll(context.Background()); err != nil {
		t.Fatalf("RunAll error = %v", err)
	}

	// Two pages and one published document.
	if len(sink.records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(sink.records))
	}

	keys := map[string]bool{}
	for _, record := range sink.records {
		keys[record.Key()] = true
	}
	for _, want := range []string{"1_page", "2_page", "7_dcm&10"} {
		if !keys[want] {
			t.Fatalf("missing record %q, have %v", want, keys)
		}
	}
}

func TestModuleRunAllSkipsDisabledDrivers(t *testing.T) {
	mod, sink, _ := newModuleFixture(t)
	cfg := DefaultConfig()
	cfg.PageIndexerEnabled = false

	pageless, err := New(cfg, mod.deps)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	if err := pageless.RunAll(context.Background()); err != nil {
		t.Fatalf("RunAll error = %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected only the document record, got %d", len(sink.records))
	}
	if sink.records[0].Type == search.PageTypeName {
		t.Fatalf("disabled page driver still produced %q", sink.records[0].Key())
	}
}

func TestModuleRunAllReportsScopeFailure(t *testing.T) {
	mod, _, _ := newModuleFixture(t)
	deps := mod.deps
	deps.Pages = pages.NewMemoryRepository() // no root configured

	broken, err := New(DefaultConfig(), deps)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}

	err = broken.RunAll(context.Background())
	if err == nil {
		t.Fatal("expected scope failure to surface")
	}
	if !errors.Is(err, search.ErrScopeUnavailable) {
		t.Fatalf("expected ErrScopeUnavailable in the chain, got %v", err)
	}
}

func TestModuleNotifyJournalsAction(t *testing.T) {
	mod, _, jrnl := newModuleFixture(t)
	ctx := context.Background()

	if err := mod.Notify(ctx, TaskModify, 7, 10); err != nil {
		t.Fatalf("Notify error = %v", err)
	}

	actions, err := mod.PendingActions(ctx, ActionFilter{})
	if err != nil {
		t.Fatalf("PendingActions error = %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("expected one action, got %d", len(actions))
	}
	if actions[0].DocumentID != "7_dcm" || actions[0].Task != TaskModify || actions[0].PortletID != 10 {
		t.Fatalf("unexpected action: %+v", actions[0])
	}
	if len(jrnl.actions) != 1 {
		t.Fatalf("expected journal to hold the action, got %d", len(jrnl.actions))
	}
}

func TestModuleProcessPending(t *testing.T) {
	mod, sink, jrnl := newModuleFixture(t)
	ctx := context.Background()

	if err := mod.Notify(ctx, TaskModify, 7, 10); err != nil {
		t.Fatalf("Notify error = %v", err)
	}
	if err := jrnl.Insert(ctx, &journal.IndexerAction{
		DocumentID:  "99_dcm",
		Task:        TaskDelete,
		IndexerName: search.DocumentIndexerName,
	}); err != nil {
		t.Fatalf("Insert error = %v", err)
	}

	if err := mod.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending error = %v", err)
	}

	if len(sink.records) != 1 || sink.records[0].Key() != "7_dcm&10" {
		t.Fatalf("expected the modify action to re-index 7_dcm&10, got %+v", sink.records)
	}
	if len(sink.deleted) != 1 || sink.deleted[0] != "99_dcm" {
		t.Fatalf("expected delete action to remove 99_dcm, got %v", sink.deleted)
	}
	if len(jrnl.actions) != 0 {
		t.Fatalf("expected the journal to be drained, got %d actions", len(jrnl.actions))
	}
}

func TestModuleProcessPendingKeepsFailedActions(t *testing.T) {
	mod, sink, jrnl := newModuleFixture(t)
	ctx := context.Background()

	// Action referencing a document that no longer exists.
	if err := jrnl.Insert(ctx, &journal.IndexerAction{
		DocumentID:  "404_dcm",
		Task:        TaskModify,
		IndexerName: search.DocumentIndexerName,
	}); err != nil {
		t.Fatalf("Insert error = %v", err)
	}

	if err := mod.ProcessPending(ctx); err != nil {
		t.Fatalf("failed actions must not abort the drain: %v", err)
	}
	if len(jrnl.actions) != 1 {
		t.Fatalf("expected the failed action to stay journaled, got %d", len(jrnl.actions))
	}
	if len(sink.reports) != 1 {
		t.Fatalf("expected one failure report, got %d", len(sink.reports))
	}
}
