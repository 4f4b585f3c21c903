package search

import (
	"errors"
	"fmt"
)

var (
	// ErrParse indicates the assembled content could not be tag-stripped.
	ErrParse = errors.New("search: content parse error")
	// ErrScopeUnavailable indicates the driver could not enumerate its scope.
	ErrScopeUnavailable = errors.New("search: indexing scope unavailable")
)

// ItemError wraps a failure confined to a single content item during a run.
type ItemError struct {
	IndexerName string
	DocumentID  int
	PortletID   int
	Err         error
}

func (e *ItemError) Error() string {
	if e.PortletID != 0 {
		return fmt.Sprintf("search: indexer %q failed on document %d portlet %d: %v", e.IndexerName, e.DocumentID, e.PortletID, e.Err)
	}
	return fmt.Sprintf("search: indexer %q failed on document %d: %v", e.IndexerName, e.DocumentID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
