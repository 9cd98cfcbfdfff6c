package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned when an operation receives an index outside its valid bound.
	// The operation is rejected and the board is left unchanged.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrDuplicateID indicates the id generator returned a value already in use.
	// It is an integrity violation, not a recoverable input error.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrIntegrityFault is returned by every mutation after a duplicate id was observed.
	ErrIntegrityFault = errors.New("board integrity fault")

	// ErrListNotFound is returned when a drop event names a list that is not on the board.
	ErrListNotFound = errors.New("list not found")

	// ErrBoardNotFound is returned when a board ID cannot be found in the store.
	ErrBoardNotFound = errors.New("board not found")

	// ErrCatalogDrop is returned when a drop event targets the catalog.
	ErrCatalogDrop = errors.New("catalog does not accept drops")

	// ErrSameList is returned when Move is asked to move within a single list.
	ErrSameList = errors.New("source and destination are the same list")

	// ErrInvalidCatalog is returned when catalog items are missing ids or repeat one.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// IndexError describes a rejected index. It matches ErrIndexOutOfRange with errors.Is.
type IndexError struct {
	Op    string // "reorder", "copy", "move"
	Role  string // "source" or "destination"
	Index int
	Max   int // inclusive upper bound; -1 when no index is valid
}

func (e *IndexError) Error() string {
	if e.Max < 0 {
		return fmt.Sprintf("%s: %s index %d: %v (list is empty)", e.Op, e.Role, e.Index, ErrIndexOutOfRange)
	}
	return fmt.Sprintf("%s: %s index %d: %v [0, %d]", e.Op, e.Role, e.Index, ErrIndexOutOfRange, e.Max)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// IsRejection reports whether err is an input error that leaves the board unchanged
// and should be reported back to the drag coordinator.
func IsRejection(err error) bool {
	return errors.Is(err, ErrIndexOutOfRange) ||
		errors.Is(err, ErrListNotFound) ||
		errors.Is(err, ErrCatalogDrop) ||
		errors.Is(err, ErrSameList)
}

// IsFault reports whether err signals a broken id generator contract.
func IsFault(err error) bool {
	return errors.Is(err, ErrDuplicateID) || errors.Is(err, ErrIntegrityFault)
}
