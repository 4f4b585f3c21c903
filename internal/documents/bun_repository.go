package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-indexer/documents"
	"github.com/goliatone/go-cms-indexer/internal/logging"
	"github.com/goliatone/go-cms-indexer/pkg/interfaces"
)

// Document and its companions mirror the public types so callers can stay on
// one import.
type (
	Document  = documents.Document
	Attribute = documents.Attribute
	Portlet   = documents.Portlet
)

// Published links a document to a portlet distributing it.
type Published struct {
	bun.BaseModel `bun:"table:document_published,alias:dp"`

	PortletID  int `bun:"id_portlet,pk"`
	DocumentID int `bun:"id_document,pk"`
}

// DocumentType is one registered document type.
type DocumentType struct {
	bun.BaseModel `bun:"table:document_type,alias:dt"`

	Code string `bun:"code,pk"`
	Name string `bun:"name,notnull"`
}

// BunRepository reads documents, their attributes and publication state.
type BunRepository struct {
	db  *bun.DB
	log interfaces.Logger
}

// NewBunRepository constructs a document repository backed by bun.
func NewBunRepository(db *bun.DB, log interfaces.Logger) *BunRepository {
	if log == nil {
		log = logging.NoOp()
	}
	return &BunRepository{db: db, log: log}
}

var _ documents.Repository = (*BunRepository)(nil)

// Migrate creates the document, attribute, portlet, publication and type
// tables when missing.
func Migrate(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*Document)(nil),
		(*Attribute)(nil),
		(*Portlet)(nil),
		(*Published)(nil),
		(*DocumentType)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("create document tables: %w", err)
		}
	}
	return nil
}

// GetByID retrieves a document with its attributes in declared order.
func (r *BunRepository) GetByID(ctx context.Context, id int) (*Document, error) {
	record := new(Document)
	err := r.db.NewSelect().
		Model(record).
		Where("d.id_document = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &documents.DocumentNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("load document %d: %w", id, err)
	}

	if err := r.db.NewSelect().
		Model(&record.Attributes).
		Where("da.id_document = ?", id).
		OrderExpr("da.attribute_order ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("load attributes of document %d: %w", id, err)
	}
	return record, nil
}

// PortletsByType returns every portlet of the given portlet type.
func (r *BunRepository) PortletsByType(ctx context.Context, portletType string) ([]*Portlet, error) {
	var records []*Portlet
	if err := r.db.NewSelect().
		Model(&records).
		Where("pt.portlet_type = ?", portletType).
		OrderExpr("pt.id_portlet ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("load portlets of type %s: %w", portletType, err)
	}
	return records, nil
}

// PortletsByDocument returns the portlets currently publishing a document.
func (r *BunRepository) PortletsByDocument(ctx context.Context, documentID int) ([]*Portlet, error) {
	var records []*Portlet
	if err := r.db.NewSelect().
		Model(&records).
		Join("JOIN document_published AS dp ON dp.id_portlet = pt.id_portlet").
		Where("dp.id_document = ?", documentID).
		OrderExpr("pt.id_portlet ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("load portlets publishing document %d: %w", documentID, err)
	}
	return records, nil
}

// PublishedDocuments returns the documents published through a portlet,
// without attributes. Callers reload the full document before indexing.
func (r *BunRepository) PublishedDocuments(ctx context.Context, portletID int) ([]*Document, error) {
	var records []*Document
	if err := r.db.NewSelect().
		Model(&records).
		Join("JOIN document_published AS dp ON dp.id_document = d.id_document").
		Where("dp.id_portlet = ?", portletID).
		OrderExpr("d.id_document ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("load documents of portlet %d: %w", portletID, err)
	}
	return records, nil
}

// TypeNames lists the registered document type names.
func (r *BunRepository) TypeNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.NewSelect().
		Model((*DocumentType)(nil)).
		Column("name").
		OrderExpr("dt.name ASC").
		Scan(ctx, &names); err != nil {
		return nil, fmt.Errorf("load document type names: %w", err)
	}
	return names, nil
}
