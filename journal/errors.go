package journal

import (
	"errors"
	"fmt"
)

var (
	ErrStoreUnsupported = errors.New("journal: store operation is not supported")
	ErrActionNotFound   = errors.New("journal: action not found")
	ErrInconsistent     = errors.New("journal: projections out of sync")
)

// ActionNotFoundError captures lookups for actions missing from a projection.
type ActionNotFoundError struct {
	ID         int
	Projection Projection
}

func (e *ActionNotFoundError) Error() string {
	if e == nil {
		return ErrActionNotFound.Error()
	}
	return fmt.Sprintf("%s: id=%d projection=%s", ErrActionNotFound.Error(), e.ID, e.Projection)
}

func (e *ActionNotFoundError) Unwrap() error {
	return ErrActionNotFound
}
