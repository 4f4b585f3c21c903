package search

import (
	"context"
	"fmt"

	"github.com/goliatone/go-cms-indexer/pages"
	"github.com/goliatone/go-cms-indexer/pkg/interfaces"
)

// PageIndexer walks the page tree below the configured root and emits one
// record per page.
type PageIndexer struct {
	cfg      Config
	repo     pages.Repository
	resolver *pages.Resolver
	builder  *Builder
	sink     Sink
	log      interfaces.Logger
}

func NewPageIndexer(cfg Config, repo pages.Repository, builder *Builder, sink Sink, log interfaces.Logger) *PageIndexer {
	return &PageIndexer{
		cfg:      cfg,
		repo:     repo,
		resolver: pages.NewResolver(repo),
		builder:  builder,
		sink:     sink,
		log:      log,
	}
}

func (ix *PageIndexer) Name() string        { return PageIndexerName }
func (ix *PageIndexer) Version() string     { return indexerVersion }
func (ix *PageIndexer) Description() string { return pageIndexerDescription }
func (ix *PageIndexer) IsEnabled() bool     { return ix.cfg.PageIndexerEnabled }

func (ix *PageIndexer) ListType(context.Context) ([]string, error) {
	return []string{PageTypeName}, nil
}

func (ix *PageIndexer) SearchAppURL() string { return AdvancedSearchPath }

// IndexDocuments emits a record for every page reachable from the root. A
// failure on one page is reported and does not stop the pass; a failure to
// resolve the tree itself does.
func (ix *PageIndexer) IndexDocuments(ctx context.Context) error {
	tree, err := ix.resolver.PagesFromRoot(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScopeUnavailable, err)
	}

	for _, page := range tree {
		record := ix.builder.BuildPage(page, ix.pageURL(page.ID))
		if err := ix.sink.Write(ctx, record); err != nil {
			ix.log.Error("page indexing failed", "page_id", page.ID, "error", err)
			ix.sink.Report(ix.Name(), err, fmt.Sprintf("page ID : %d", page.ID))
		}
	}
	return nil
}

// Documents returns the single record for one page id.
func (ix *PageIndexer) Documents(ctx context.Context, id int) ([]*Record, error) {
	page, err := ix.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return []*Record{ix.builder.BuildPage(page, ix.pageURL(page.ID))}, nil
}

func (ix *PageIndexer) pageURL(id int) string {
	return buildURL(ix.cfg.PageBaseURL, urlParam{ParameterPageID, id})
}

var _ Indexer = (*PageIndexer)(nil)
