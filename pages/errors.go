package pages

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedTree   = errors.New("pages: malformed page tree")
	ErrRootUnavailable = errors.New("pages: root page not configured")
	ErrPageNotFound    = errors.New("pages: page not found")
)

// PageNotFoundError captures lookups for pages that do not exist.
type PageNotFoundError struct {
	ID int
}

func (e *PageNotFoundError) Error() string {
	if e == nil {
		return ErrPageNotFound.Error()
	}
	return fmt.Sprintf("%s: id=%d", ErrPageNotFound.Error(), e.ID)
}

func (e *PageNotFoundError) Unwrap() error {
	return ErrPageNotFound
}

// MalformedTreeError captures a repeated page id discovered during traversal,
// which indicates a cycle or a multi-parent node in the stored hierarchy.
type MalformedTreeError struct {
	PageID int
}

func (e *MalformedTreeError) Error() string {
	if e == nil {
		return ErrMalformedTree.Error()
	}
	return fmt.Sprintf("%s: page %d visited twice", ErrMalformedTree.Error(), e.PageID)
}

func (e *MalformedTreeError) Unwrap() error {
	return ErrMalformedTree
}
