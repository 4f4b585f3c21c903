package documents

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("documents: document not found")
	ErrPortletNotFound  = errors.New("documents: portlet not found")
)

// DocumentNotFoundError captures lookups for documents that do not exist.
type DocumentNotFoundError struct {
	ID int
}

func (e *DocumentNotFoundError) Error() string {
	if e == nil {
		return ErrDocumentNotFound.Error()
	}
	return fmt.Sprintf("%s: id=%d", ErrDocumentNotFound.Error(), e.ID)
}

func (e *DocumentNotFoundError) Unwrap() error {
	return ErrDocumentNotFound
}
