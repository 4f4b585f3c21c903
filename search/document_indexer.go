package search

import (
	"context"
	"fmt"

	"github.com/goliatone/go-cms-indexer/documents"
	"github.com/goliatone/go-cms-indexer/pages"
	"github.com/goliatone/go-cms-indexer/pkg/interfaces"
)

// DocumentIndexer emits one record per (document, portlet) publication pair,
// restricted to document-list portlets on pages inside the indexable tree.
type DocumentIndexer struct {
	cfg       Config
	pages     pages.Repository
	resolver  *pages.Resolver
	documents documents.Repository
	builder   *Builder
	sink      Sink
	log       interfaces.Logger
}

func NewDocumentIndexer(cfg Config, pageRepo pages.Repository, docRepo documents.Repository, builder *Builder, sink Sink, log interfaces.Logger) *DocumentIndexer {
	return &DocumentIndexer{
		cfg:       cfg,
		pages:     pageRepo,
		resolver:  pages.NewResolver(pageRepo),
		documents: docRepo,
		builder:   builder,
		sink:      sink,
		log:       log,
	}
}

func (ix *DocumentIndexer) Name() string        { return DocumentIndexerName }
func (ix *DocumentIndexer) Version() string     { return indexerVersion }
func (ix *DocumentIndexer) Description() string { return documentIndexerDescription }
func (ix *DocumentIndexer) IsEnabled() bool     { return ix.cfg.DocumentIndexerEnabled }

func (ix *DocumentIndexer) ListType(ctx context.Context) ([]string, error) {
	return ix.documents.TypeNames(ctx)
}

func (ix *DocumentIndexer) SearchAppURL() string { return AdvancedSearchPath }

// IndexDocuments walks every document-list portlet whose page belongs to the
// indexable tree and emits a record per published document. Item-level
// failures are logged and reported, then the pass continues; only scope
// enumeration failures abort it.
func (ix *DocumentIndexer) IndexDocuments(ctx context.Context) error {
	inScope, err := ix.resolver.PageIDsFromRoot(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScopeUnavailable, err)
	}

	portlets, err := ix.documents.PortletsByType(ctx, documents.PortletTypeDocumentList)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScopeUnavailable, err)
	}

	for _, portlet := range portlets {
		if _, ok := inScope[portlet.PageID]; !ok {
			continue
		}

		page, err := ix.pages.GetByID(ctx, portlet.PageID)
		if err != nil {
			ix.reportItem(0, portlet.ID, err)
			continue
		}

		published, err := ix.documents.PublishedDocuments(ctx, portlet.ID)
		if err != nil {
			ix.reportItem(0, portlet.ID, err)
			continue
		}

		for _, doc := range published {
			if err := ix.indexOne(ctx, doc.ID, portlet, page.Role); err != nil {
				ix.reportItem(doc.ID, portlet.ID, err)
			}
		}
	}
	return nil
}

// Documents returns the records for one document, one per portlet currently
// publishing it.
func (ix *DocumentIndexer) Documents(ctx context.Context, id int) ([]*Record, error) {
	doc, err := ix.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	portlets, err := ix.documents.PortletsByDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(portlets))
	for _, portlet := range portlets {
		page, err := ix.pages.GetByID(ctx, portlet.PageID)
		if err != nil {
			return nil, err
		}
		record, err := ix.build(doc, portlet, page.Role)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// indexOne reloads the full document and writes its record for one portlet.
func (ix *DocumentIndexer) indexOne(ctx context.Context, documentID int, portlet *documents.Portlet, role string) error {
	doc, err := ix.documents.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	record, err := ix.build(doc, portlet, role)
	if err != nil {
		return err
	}
	return ix.sink.Write(ctx, record)
}

func (ix *DocumentIndexer) build(doc *documents.Document, portlet *documents.Portlet, role string) (*Record, error) {
	url := buildURL(ix.cfg.DocumentBaseURL,
		urlParam{ParameterDocumentID, doc.ID},
		urlParam{ParameterPortletID, portlet.ID},
	)
	return ix.builder.Build(doc, url, role, PortletDocumentID(doc.ID, portlet.ID))
}

func (ix *DocumentIndexer) reportItem(documentID, portletID int, err error) {
	item := &ItemError{IndexerName: ix.Name(), DocumentID: documentID, PortletID: portletID, Err: err}
	ix.log.Error("document indexing failed", "document_id", documentID, "portlet_id", portletID, "error", err)
	ix.sink.Report(ix.Name(), item, fmt.Sprintf("document ID : %d - portlet ID : %d", documentID, portletID))
}

var _ Indexer = (*DocumentIndexer)(nil)
