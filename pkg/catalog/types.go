package catalog

import (
	"fmt"

	"github.com/ssargent/shelf/pkg/codec"
)

// Book is the record type held by a Catalog
type Book = codec.Book

// Config holds configuration for a catalog
type Config struct {
	Path string // Backing store file, fixed for the lifetime of the catalog
}

// LoadResult describes what Load found in the backing store
type LoadResult struct {
	Path          string
	RecordsLoaded int
	LinesSkipped  int
	Warnings      []*LineError
	Created       bool // backing store did not exist; it is written on first save
}

// Stats holds aggregate figures over the whole catalog
type Stats struct {
	DistinctTitles int     `json:"distinct_titles"`
	TotalCopies    int     `json:"total_copies"`
	TotalValue     float64 `json:"total_value"`
	AveragePrice   float64 `json:"average_price"` // TotalValue / TotalCopies, 0 without copies
	MaxPriceTitle  string  `json:"max_price_title"`
	MaxPrice       float64 `json:"max_price"` // -1 on an empty catalog
}

// Errors
var (
	ErrNotFound      = &CatalogError{"book not found"}
	ErrDuplicateKey  = &CatalogError{"book id already exists"}
	ErrInvalidRecord = &CatalogError{"invalid book"}
	ErrLineTooLong   = &CatalogError{"line too long"}
)

// CatalogError represents a rejected catalog operation
type CatalogError struct {
	Message string
}

func (e *CatalogError) Error() string {
	return e.Message
}

// LineError reports a backing store line that was skipped during Load
type LineError struct {
	Line int    // 1-based line number
	Text string // raw line, empty for ErrLineTooLong
	Err  error  // *codec.ParseError, ErrDuplicateKey or ErrLineTooLong
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d skipped: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// PersistenceError is returned when a mutation was applied in memory but the
// backing store could not be rewritten
type PersistenceError struct {
	Op   string // operation that triggered the save
	Key  string // book id involved, empty for clear and explicit saves
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: failed to save %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %q: failed to save %s: %v", e.Op, e.Key, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
