package search

import (
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/goliatone/go-cms-indexer/documents"
	"github.com/goliatone/go-cms-indexer/extractors"
	"github.com/goliatone/go-cms-indexer/internal/logging"
	"github.com/goliatone/go-cms-indexer/pages"
)

type failingExtractor struct{}

func (failingExtractor) Extract(io.Reader) (string, error) {
	return "", errors.New("corrupt payload")
}

func TestBuilderBuildRecordFields(t *testing.T) {
	cfg := Config{
		URLSuffix:    "&mode=view",
		TitlePattern: regexp.MustCompile(`^.*_title$`),
	}
	builder := NewBuilder(cfg, extractors.Default(), logging.NoOp())

	doc := &documents.Document{
		ID:               42,
		Title:            "Quarterly report",
		Type:             "article",
		Summary:          "Figures for Q1",
		XMLMetadata:      "<meta>finance</meta>",
		DateModification: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		Attributes: []*documents.Attribute{
			{Code: "body", Searchable: true, TextValue: "<p>Revenue grew &amp; costs fell.</p>"},
			{Code: "display_title", Searchable: true, TextValue: "Q1 in numbers"},
		},
	}

	record, err := builder.Build(doc, "jsp/site/Portal.jsp?document_id=42&portlet_id=7", "finance_role", PortletDocumentID(42, 7))
	if err != nil {
		t.Fatalf("expected record, got error: %v", err)
	}

	if record.URL != "jsp/site/Portal.jsp?document_id=42&portlet_id=7&mode=view" {
		t.Fatalf("unexpected url: %q", record.URL)
	}
	if record.UID != "42_dcm" {
		t.Fatalf("unexpected uid: %q", record.UID)
	}
	if record.PortletDocumentID != "42_dcm&7" {
		t.Fatalf("unexpected portlet document id: %q", record.PortletDocumentID)
	}
	if record.Date != "20240315" {
		t.Fatalf("expected day-resolution date, got %q", record.Date)
	}
	if record.Title != "Q1 in numbers" {
		t.Fatalf("expected title from matching attribute, got %q", record.Title)
	}
	if record.Type != "article" {
		t.Fatalf("unexpected type: %q", record.Type)
	}
	if record.Role != "finance_role" {
		t.Fatalf("unexpected role: %q", record.Role)
	}
	if record.Metadata != "Figures for Q1" {
		t.Fatalf("expected summary as metadata, got %q", record.Metadata)
	}

	want := "Quarterly report Revenue grew & costs fell. Q1 in numbers finance"
	if record.Contents != want {
		t.Fatalf("unexpected contents:\n got: %q\nwant: %q", record.Contents, want)
	}
}

func TestBuilderTitleFallsBackToDocumentTitle(t *testing.T) {
	cfg := Config{TitlePattern: regexp.MustCompile(`^.*_title$`)}
	builder := NewBuilder(cfg, extractors.Default(), logging.NoOp())

	doc := &documents.Document{
		ID:    7,
		Title: "Plain title",
		Attributes: []*documents.Attribute{
			{Code: "body", Searchable: true, TextValue: "text"},
		},
	}

	record, err := builder.Build(doc, "jsp/site/Portal.jsp", "", "")
	if err != nil {
		t.Fatalf("expected record, got error: %v", err)
	}
	if record.Title != "Plain title" {
		t.Fatalf("expected fallback title, got %q", record.Title)
	}
}

func TestBuilderTitleLastMatchWins(t *testing.T) {
	cfg := Config{TitlePattern: regexp.MustCompile(`^.*_title$`)}
	builder := NewBuilder(cfg, extractors.Default(), logging.NoOp())

	doc := &documents.Document{
		ID:    7,
		Title: "fallback",
		Attributes: []*documents.Attribute{
			{Code: "short_title", TextValue: "first"},
			{Code: "long_title", TextValue: "second"},
		},
	}

	record, err := builder.Build(doc, "jsp/site/Portal.jsp", "", "")
	if err != nil {
		t.Fatalf("expected record, got error: %v", err)
	}
	if record.Title != "second" {
		t.Fatalf("expected last matching title, got %q", record.Title)
	}
}

func TestBuilderTitleEmptyMatchOverwrites(t *testing.T) {
	cfg := Config{TitlePattern: regexp.MustCompile(`^.*_title$`)}
	builder := NewBuilder(cfg, extractors.Default(), logging.NoOp())

	doc := &documents.Document{
		ID:    7,
		Title: "fallback",
		Attributes: []*documents.Attribute{
			{Code: "short_title", TextValue: "first"},
			{Code: "long_title", TextValue: ""},
		},
	}

	record, err := builder.Build(doc, "jsp/site/Portal.jsp", "", "")
	if err != nil {
		t.Fatalf("expected record, got error: %v", err)
	}
	if record.Title != "" {
		t.Fatalf("matching attribute with empty value must overwrite, got %q", record.Title)
	}
}

func TestBuilderSkipsUnavailableBinaryExtraction(t *testing.T) {
	registry := extractors.NewRegistry()
	registry.Register("application/pdf", failingExtractor{})
	builder := NewBuilder(Config{}, registry, logging.NoOp())

	doc := &documents.Document{
		ID:    9,
		Title: "Attachments",
		Attributes: []*documents.Attribute{
			{Code: "file", Searchable: true, Binary: true, BinaryValue: []byte{0x01}, ContentType: "application/pdf"},
			{Code: "body", Searchable: true, TextValue: "readable"},
		},
	}

	record, err := builder.Build(doc, "jsp/site/Portal.jsp", "", "")
	if err != nil {
		t.Fatalf("expected extraction failure to be skipped, got error: %v", err)
	}
	if record.Contents != "Attachments readable" {
		t.Fatalf("unexpected contents: %q", record.Contents)
	}
}

func TestBuilderBuildPage(t *testing.T) {
	builder := NewBuilder(Config{URLSuffix: "&site=main"}, extractors.Default(), logging.NoOp())

	page := &pages.Page{
		ID:          3,
		Name:        "News",
		Description: "Latest announcements",
		Role:        "none",
		DateUpdate:  time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC),
	}

	record := builder.BuildPage(page, "jsp/site/Portal.jsp?page_id=3")

	if record.UID != "3_page" {
		t.Fatalf("unexpected uid: %q", record.UID)
	}
	if record.PortletDocumentID != "" {
		t.Fatalf("page records must not carry a portlet document id, got %q", record.PortletDocumentID)
	}
	if record.URL != "jsp/site/Portal.jsp?page_id=3&site=main" {
		t.Fatalf("unexpected url: %q", record.URL)
	}
	if record.Date != "20240601" {
		t.Fatalf("unexpected date: %q", record.Date)
	}
	if record.Contents != "News Latest announcements" {
		t.Fatalf("unexpected contents: %q", record.Contents)
	}
	if record.Type != PageTypeName {
		t.Fatalf("unexpected type: %q", record.Type)
	}
	if record.Metadata != "Latest announcements" {
		t.Fatalf("unexpected metadata: %q", record.Metadata)
	}
	if record.Key() != "3_page" {
		t.Fatalf("page record key must fall back to uid, got %q", record.Key())
	}
}
