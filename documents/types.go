package documents

import (
	"context"
	"io"
	"time"

	"github.com/uptrace/bun"
)

// PortletTypeDocumentList identifies the portlet type that distributes
// structured documents into the page hierarchy.
const PortletTypeDocumentList = "DOCUMENT_LIST_PORTLET"

// Document is a structured content record with typed, ordered attributes. It
// lives outside the page hierarchy and is published into it through portlets.
type Document struct {
	bun.BaseModel `bun:"table:document,alias:d"`

	ID               int       `bun:"id_document,pk"             json:"id"`
	Title            string    `bun:"title,notnull"              json:"title"`
	Type             string    `bun:"document_type,notnull"      json:"type"`
	Summary          string    `bun:"summary"                    json:"summary,omitempty"`
	XMLMetadata      string    `bun:"xml_metadata"               json:"xml_metadata,omitempty"`
	DateModification time.Time `bun:"date_modification,nullzero" json:"date_modification"`

	Attributes []*Attribute `bun:"rel:has-many,join:id_document=id_document" json:"attributes,omitempty"`
}

// Attribute is one typed value of a document. Binary attributes carry a raw
// payload plus its declared content type; text attributes carry a plain value.
type Attribute struct {
	bun.BaseModel `bun:"table:document_attribute,alias:da"`

	ID          int    `bun:"id_attribute,pk"      json:"id"`
	DocumentID  int    `bun:"id_document,notnull"  json:"document_id"`
	Code        string `bun:"code,notnull"         json:"code"`
	Order       int    `bun:"attribute_order"      json:"order"`
	Searchable  bool   `bun:"searchable"           json:"searchable"`
	Binary      bool   `bun:"binary"               json:"binary"`
	TextValue   string `bun:"text_value"           json:"text_value,omitempty"`
	BinaryValue []byte `bun:"binary_value"         json:"-"`
	ContentType string `bun:"value_content_type"   json:"content_type,omitempty"`
}

// Portlet associates published documents with a specific page.
type Portlet struct {
	bun.BaseModel `bun:"table:portlet,alias:pt"`

	ID     int    `bun:"id_portlet,pk"       json:"id"`
	PageID int    `bun:"id_page,notnull"     json:"page_id"`
	Type   string `bun:"portlet_type,notnull" json:"type"`
}

// Repository exposes the read-only document and publication lookups needed by
// the indexers.
type Repository interface {
	// GetByID returns the full document with its attributes in declared order.
	GetByID(ctx context.Context, id int) (*Document, error)
	// PortletsByType returns every portlet of the given portlet type.
	PortletsByType(ctx context.Context, portletType string) ([]*Portlet, error)
	// PortletsByDocument returns the portlets currently publishing a document.
	PortletsByDocument(ctx context.Context, documentID int) ([]*Portlet, error)
	// PublishedDocuments returns the documents published through a portlet.
	PublishedDocuments(ctx context.Context, portletID int) ([]*Document, error)
	// TypeNames lists the registered document type names.
	TypeNames(ctx context.Context) ([]string, error)
}

// Extractor turns a binary payload into searchable text.
type Extractor interface {
	Extract(r io.Reader) (string, error)
}

// ExtractorRegistry looks up a type-specific extractor capability by MIME
// type. An absent key means "no extraction available", not an error.
type ExtractorRegistry interface {
	Lookup(contentType string) (Extractor, bool)
}
