package search

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Indexer identities and URL parameters shared with the front office.
const (
	DocumentIndexerName        = "DocumentIndexer"
	DocumentShortName          = "dcm"
	documentIndexerDescription = "Indexer service for documents"

	PageIndexerName        = "PageIndexer"
	PageShortName          = "page"
	pageIndexerDescription = "Indexer service for pages"

	indexerVersion = "1.0.0"

	ParameterDocumentID = "document_id"
	ParameterPortletID  = "portlet_id"
	ParameterPageID     = "page_id"

	// AdvancedSearchPath is the front-office entry point for driver-specific
	// advanced search.
	AdvancedSearchPath = "jsp/site/Portal.jsp?page=advanced_search"

	// PageTypeName is the single type label produced by the page indexer.
	PageTypeName = "PAGE"

	// dateResolutionDay formats modification dates at day resolution so two
	// documents modified the same calendar day index identically.
	dateResolutionDay = "20060102"
)

// Record is the normalized unit handed to the index sink. Field semantics
// (stored/tokenized) are owned by the sink mapping; this struct carries the
// already-resolved values.
type Record struct {
	// URL is stored verbatim (with the configured suffix) and not searchable.
	URL string `json:"url"`
	// PortletDocumentID is the composite key for records published through a
	// portlet; empty for page records.
	PortletDocumentID string `json:"portlet_document_id,omitempty"`
	// Date is the modification date at day resolution.
	Date string `json:"date"`
	// UID keys incremental delete-then-reinsert in the index.
	UID string `json:"uid"`
	// Contents is the tag-stripped full text; tokenized, never stored.
	Contents string `json:"contents"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Role     string `json:"role"`
	// Metadata carries the document summary; tokenized, never stored.
	Metadata string `json:"metadata"`
}

// Key returns the identifier the sink uses for replace-by-id writes.
func (r *Record) Key() string {
	if r.PortletDocumentID != "" {
		return r.PortletDocumentID
	}
	return r.UID
}

// Sink accepts assembled records one at a time and structured error reports.
// Append/replace-by-uid semantics belong to the sink, not to the drivers.
type Sink interface {
	Write(ctx context.Context, record *Record) error
	Report(indexerName string, err error, message string)
}

// Indexer is one indexing driver: it enumerates its scope, builds records and
// hands them to the sink, tolerating per-item failures.
type Indexer interface {
	Name() string
	Version() string
	Description() string
	IsEnabled() bool
	// ListType returns the distinct type labels the driver can produce.
	ListType(ctx context.Context) ([]string, error)
	// SearchAppURL returns the driver-specific advanced-search entry point.
	SearchAppURL() string
	// IndexDocuments runs one full pass over the driver's scope.
	IndexDocuments(ctx context.Context) error
	// Documents returns every record for a single content id, one per
	// distributing portlet, for incremental re-indexing.
	Documents(ctx context.Context, id int) ([]*Record, error)
}

// Config carries the per-invocation settings the drivers and builder need.
// It is resolved once by the caller and passed explicitly.
type Config struct {
	PageBaseURL     string
	DocumentBaseURL string
	// URLSuffix, when set, is appended to every stored URL.
	URLSuffix string

	PageIndexerEnabled     bool
	DocumentIndexerEnabled bool

	// NotIndexed skips attributes whose code it matches.
	NotIndexed *regexp.Regexp
	// TitlePattern promotes the last matching attribute's text to the title.
	TitlePattern *regexp.Regexp
}

// UID builds the per-indexer unique id for a content id.
func UID(id int, shortName string) string {
	return fmt.Sprintf("%d_%s", id, shortName)
}

// PortletDocumentID builds the composite id of a (document, portlet) pair.
func PortletDocumentID(documentID, portletID int) string {
	return fmt.Sprintf("%d_%s&%d", documentID, DocumentShortName, portletID)
}

type urlParam struct {
	key   string
	value int
}

// buildURL appends query parameters to a base URL in the given order.
func buildURL(base string, params ...urlParam) string {
	var sb strings.Builder
	sb.WriteString(base)
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	for _, p := range params {
		fmt.Fprintf(&sb, "%s%s=%d", sep, p.key, p.value)
		sep = "&"
	}
	return sb.String()
}
