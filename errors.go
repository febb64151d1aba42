package gaia2read

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/jkim117/gaia2read/blobstore"
	"github.com/jkim117/gaia2read/idindex"
	"github.com/jkim117/gaia2read/model"
	"github.com/jkim117/gaia2read/query"
	"github.com/jkim117/gaia2read/zone"
)

var (
	// ErrFileUnavailable is returned when a catalog file is missing or
	// cannot be opened. The query that needed it is abandoned.
	ErrFileUnavailable = errors.New("catalog file unavailable")

	// ErrIdentifierNotFound is returned when an identifier is not in the
	// catalog.
	ErrIdentifierNotFound = errors.New("identifier not found")

	// ErrShortRead is returned when a catalog file ends before a read
	// that should have fit in it.
	ErrShortRead = errors.New("short read from catalog file")

	// ErrInvalidQuery is returned for a query whose center is not a number.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidIdentifier is returned when an identifier's text does not
	// match its scheme.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrCorruptZone is returned when a zone file's header does not match
	// its contents.
	ErrCorruptZone = errors.New("corrupt zone file")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if errors.Is(err, idindex.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrIdentifierNotFound, err)
	}
	if errors.Is(err, model.ErrInvalidID) || errors.Is(err, model.ErrUnknownScheme) {
		return fmt.Errorf("%w: %w", ErrInvalidIdentifier, err)
	}
	if errors.Is(err, query.ErrInvalidRequest) {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	if errors.Is(err, zone.ErrCorrupt) {
		return fmt.Errorf("%w: %w", ErrCorruptZone, err)
	}
	if errors.Is(err, blobstore.ErrShortRead) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrShortRead, err)
	}

	// Missing blobs and OS-level open failures.
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrFileUnavailable, err)
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: %w", ErrFileUnavailable, err)
	}

	return err
}
