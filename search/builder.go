package search

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-indexer/documents"
	"github.com/goliatone/go-cms-indexer/extractors"
	"github.com/goliatone/go-cms-indexer/pages"
	"github.com/goliatone/go-cms-indexer/pkg/interfaces"
)

// Builder assembles index records from documents. It owns content assembly,
// tag stripping, title resolution, and the field formatting rules; the drivers
// own scope and URLs.
type Builder struct {
	cfg      Config
	registry documents.ExtractorRegistry
	log      interfaces.Logger
}

func NewBuilder(cfg Config, registry documents.ExtractorRegistry, log interfaces.Logger) *Builder {
	return &Builder{cfg: cfg, registry: registry, log: log}
}

// Build produces the record for one document published at the given URL.
// portletDocumentID may be empty when the document is indexed outside any
// portlet context.
func (b *Builder) Build(doc *documents.Document, rawURL, role, portletDocumentID string) (*Record, error) {
	raw := documents.ContentToIndex(doc, b.registry, b.cfg.NotIndexed, b.log)

	contents, err := extractors.Text(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: document %d: %v", ErrParse, doc.ID, err)
	}

	return &Record{
		URL:               b.displayURL(rawURL),
		PortletDocumentID: portletDocumentID,
		Date:              doc.DateModification.Format(dateResolutionDay),
		UID:               UID(doc.ID, DocumentShortName),
		Contents:          contents,
		Title:             b.title(doc),
		Type:              doc.Type,
		Role:              role,
		Metadata:          doc.Summary,
	}, nil
}

// BuildPage produces the record for one page of the hierarchy. Page bodies are
// plain name plus description, so no tag stripping is involved.
func (b *Builder) BuildPage(page *pages.Page, rawURL string) *Record {
	contents := page.Name
	if page.Description != "" {
		contents += " " + page.Description
	}
	return &Record{
		URL:      b.displayURL(rawURL),
		Date:     page.DateUpdate.Format(dateResolutionDay),
		UID:      UID(page.ID, PageShortName),
		Contents: contents,
		Title:    page.Name,
		Type:     PageTypeName,
		Role:     page.Role,
		Metadata: page.Description,
	}
}

func (b *Builder) displayURL(rawURL string) string {
	if b.cfg.URLSuffix == "" {
		return rawURL
	}
	return rawURL + b.cfg.URLSuffix
}

// title returns the text of the last attribute whose code matches the title
// pattern, falling back to the document title when none matches. A matching
// attribute overwrites even when its value is empty.
func (b *Builder) title(doc *documents.Document) string {
	title := doc.Title
	if b.cfg.TitlePattern == nil {
		return title
	}
	for _, attr := range doc.Attributes {
		if b.cfg.TitlePattern.MatchString(attr.Code) {
			title = attr.TextValue
		}
	}
	return title
}
