package ledger

import (
	"errors"
	"fmt"

	"github.com/mantisos/aios/internal/hash"
)

var (
	// ErrNotFound reports that a module file is absent from the modules
	// directory.
	ErrNotFound = errors.New("module file not found")

	// ErrNotRegistered reports a verification attempt for a name the ledger
	// has no record of.
	ErrNotRegistered = errors.New("module not registered")

	// ErrBadName reports a module name that is not a bare filename. Ledger
	// keys must match files directly inside the modules directory.
	ErrBadName = errors.New("invalid module name")
)

// IntegrityError reports a digest mismatch between the registered content
// and the current on-disk content of a module. It is a reported, non-fatal
// condition: the caller decides what to do with a tampered module, but it is
// never silently admitted.
type IntegrityError struct {
	Module   string
	Expected hash.Digest
	Actual   hash.Digest
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("module %s integrity check failed: expected %s, got %s",
		e.Module, e.Expected, e.Actual)
}

// StorageError reports that the ledger file itself could not be read,
// parsed, or written.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ledger %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
