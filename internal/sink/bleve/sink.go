// Package bleve persists index records into a Bleve full-text index. It is
// the default Sink implementation; alternative engines only need to satisfy
// the same contract.
package bleve

import (
	"context"
	"fmt"
	"sync"
	"time"

	bleveidx "github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/goliatone/go-cms-indexer/internal/logging"
	"github.com/goliatone/go-cms-indexer/pkg/interfaces"
	"github.com/goliatone/go-cms-indexer/search"
)

// Report is one captured indexing failure, kept for the status surface.
type Report struct {
	IndexerName string
	Message     string
	Err         error
	At          time.Time
}

// Sink writes search records into a Bleve index. Records are keyed by their
// portlet-scoped id when present, so re-indexing the same publication replaces
// the previous entry instead of appending a duplicate.
type Sink struct {
	index bleveidx.Index
	log   interfaces.Logger

	mu      sync.Mutex
	reports []Report
}

// Open opens the index at path, creating it with the record mapping when it
// does not exist yet.
func Open(path string, log interfaces.Logger) (*Sink, error) {
	idx, err := bleveidx.Open(path)
	if err == bleveidx.ErrorIndexPathDoesNotExist {
		idx, err = bleveidx.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return newSink(idx, log), nil
}

// OpenInMemory creates a throwaway in-memory index. Tests use it.
func OpenInMemory(log interfaces.Logger) (*Sink, error) {
	idx, err := bleveidx.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create in-memory index: %w", err)
	}
	return newSink(idx, log), nil
}

func newSink(idx bleveidx.Index, log interfaces.Logger) *Sink {
	if log == nil {
		log = logging.NoOp()
	}
	return &Sink{index: idx, log: log}
}

// buildIndexMapping encodes the per-field policy: identifiers, URL, date,
// type and role are exact-match keyword fields; contents and metadata are
// tokenized but never stored.
func buildIndexMapping() mapping.IndexMapping {
	keywordField := bleveidx.NewKeywordFieldMapping()

	unstoredText := bleveidx.NewTextFieldMapping()
	unstoredText.Store = false

	doc := bleveidx.NewDocumentMapping()
	doc.AddFieldMappingsAt("uid", keywordField)
	doc.AddFieldMappingsAt("portlet_document_id", keywordField)
	doc.AddFieldMappingsAt("url", keywordField)
	doc.AddFieldMappingsAt("date", keywordField)
	doc.AddFieldMappingsAt("type", keywordField)
	doc.AddFieldMappingsAt("role", keywordField)
	doc.AddFieldMappingsAt("title", bleveidx.NewTextFieldMapping())
	doc.AddFieldMappingsAt("contents", unstoredText)
	doc.AddFieldMappingsAt("metadata", unstoredText)

	m := bleveidx.NewIndexMapping()
	m.AddDocumentMapping("_default", doc)
	return m
}

// Write stores one record, replacing any previous entry under the same key.
func (s *Sink) Write(ctx context.Context, record *search.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.index.Index(record.Key(), record); err != nil {
		return fmt.Errorf("index record %s: %w", record.Key(), err)
	}
	s.log.Debug("record indexed", "key", record.Key(), "type", record.Type)
	return nil
}

// Report captures a driver failure without interrupting the pass.
func (s *Sink) Report(indexerName string, err error, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, Report{
		IndexerName: indexerName,
		Message:     message,
		Err:         err,
		At:          time.Now(),
	})
}

// Reports returns the failures captured since the sink was opened.
func (s *Sink) Reports() []Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Report(nil), s.reports...)
}

// Delete removes the record stored under key.
func (s *Sink) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.index.Delete(key)
}

// DeleteByUID removes every record carrying the given uid, covering all the
// portlet-scoped entries of one document.
func (s *Sink) DeleteByUID(ctx context.Context, uid string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	term := bleveidx.NewTermQuery(uid)
	term.SetField("uid")

	req := bleveidx.NewSearchRequestOptions(term, 1000, 0, false)
	result, err := s.index.Search(req)
	if err != nil {
		return fmt.Errorf("lookup uid %s: %w", uid, err)
	}

	batch := s.index.NewBatch()
	for _, hit := range result.Hits {
		batch.Delete(hit.ID)
	}
	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("delete uid %s: %w", uid, err)
	}
	return nil
}

// Count returns the number of indexed records.
func (s *Sink) Count() (uint64, error) {
	return s.index.DocCount()
}

// Query runs a query-string search and returns the matching record keys in
// score order.
func (s *Sink) Query(ctx context.Context, queryStr string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := bleveidx.NewSearchRequestOptions(bleveidx.NewQueryStringQuery(queryStr), limit, 0, false)
	result, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	keys := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		keys = append(keys, hit.ID)
	}
	return keys, nil
}

// Close releases the underlying index.
func (s *Sink) Close() error {
	return s.index.Close()
}

var _ search.Sink = (*Sink)(nil)
