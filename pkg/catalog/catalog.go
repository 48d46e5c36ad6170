// Package catalog provides the in-memory, file-backed book collection.
//
// A Catalog keeps books in insertion order, guarantees that no two books share
// an id and rewrites its whole backing store after every successful mutation.
// It performs no locking; callers that share a Catalog between goroutines must
// serialize access themselves.
package catalog

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/ssargent/shelf/pkg/codec"
)

// maxLineSize caps a single backing store line; longer lines are skipped
const maxLineSize = 1024 * 1024

// filePerm applies to a newly created backing store; an existing file keeps
// its permissions across rewrites
const filePerm = 0o644

// Catalog is an ordered collection of books synchronized to a text file
type Catalog struct {
	path  string
	codec *codec.LineCodec
	books []Book
}

// New creates an empty catalog bound to a backing store. It does not read
// the file; call Load or use Open.
func New(config Config) (*Catalog, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("catalog path is required")
	}

	return &Catalog{
		path:  config.Path,
		codec: codec.NewLineCodec(),
		books: []Book{},
	}, nil
}

// Open creates a catalog and loads its backing store
func Open(config Config) (*Catalog, *LoadResult, error) {
	c, err := New(config)
	if err != nil {
		return nil, nil, err
	}

	result, err := c.Load()
	if err != nil {
		return nil, nil, err
	}

	return c, result, nil
}

// Path returns the backing store location
func (c *Catalog) Path() string {
	return c.path
}

// Len returns the number of books
func (c *Catalog) Len() int {
	return len(c.books)
}

// Load replaces the in-memory books with the contents of the backing store.
// Malformed lines and repeated ids are skipped and reported in the result.
// A missing file yields an empty catalog.
func (c *Catalog) Load() (*LoadResult, error) {
	result := &LoadResult{Path: c.path}

	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.books = []Book{}
			result.Created = true
			return result, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", c.path, err)
	}
	defer f.Close()

	books := []Book{}
	seen := make(map[string]int)

	r := bufio.NewReaderSize(f, 64*1024)

	lineNo := 0
	for {
		text, tooLong, err := readLine(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s at line %d: %w", c.path, lineNo+1, err)
		}
		lineNo++

		if tooLong {
			result.skip(lineNo, "", fmt.Errorf("%w: longer than %d bytes", ErrLineTooLong, maxLineSize))
			continue
		}
		if lineNo == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		book, err := c.codec.Decode(text)
		if err != nil {
			result.skip(lineNo, text, err)
			continue
		}

		if first, dup := seen[book.ID]; dup {
			result.skip(lineNo, text, fmt.Errorf("%w: %q first seen on line %d", ErrDuplicateKey, book.ID, first))
			continue
		}
		seen[book.ID] = lineNo

		books = append(books, book)
	}

	c.books = books
	result.RecordsLoaded = len(books)
	return result, nil
}

// readLine returns the next line without its newline. A line longer than
// maxLineSize is read to its end and discarded, and tooLong is set.
func readLine(r *bufio.Reader) (line string, tooLong bool, err error) {
	var (
		buf  []byte
		read int
	)
	for {
		chunk, err := r.ReadSlice('\n')
		read += len(chunk)
		if !tooLong {
			buf = append(buf, chunk...)
			if len(bytes.TrimSuffix(buf, []byte("\n"))) > maxLineSize {
				tooLong, buf = true, nil
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if read == 0 {
				return "", false, io.EOF
			}
		case err != nil:
			return "", false, err
		}
		return string(bytes.TrimSuffix(buf, []byte("\n"))), tooLong, nil
	}
}

func (r *LoadResult) skip(line int, text string, err error) {
	r.LinesSkipped++
	r.Warnings = append(r.Warnings, &LineError{Line: line, Text: text, Err: err})
}

// Save rewrites the backing store with every book in catalog order
func (c *Catalog) Save() error {
	return c.save("save", "")
}

func (c *Catalog) save(op, key string) error {
	if err := c.writeFile(); err != nil {
		return &PersistenceError{Op: op, Key: key, Path: c.path, Err: err}
	}
	return nil
}

func (c *Catalog) writeFile() error {
	f, err := renameio.NewPendingFile(c.path,
		renameio.WithPermissions(filePerm),
		renameio.WithExistingPermissions())
	if err != nil {
		return err
	}
	// no-op once the file has been renamed into place
	defer func() { _ = f.Cleanup() }()

	w := bufio.NewWriter(f)
	for _, b := range c.books {
		line, err := c.codec.Encode(b)
		if err != nil {
			return fmt.Errorf("encode %q: %w", b.ID, err)
		}
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	return f.CloseAtomicallyReplace()
}

// index returns the position of id, or -1
func (c *Catalog) index(id string) int {
	for i := range c.books {
		if c.books[i].ID == id {
			return i
		}
	}
	return -1
}

// Exists reports whether a book with id is present
func (c *Catalog) Exists(id string) bool {
	return c.index(id) != -1
}

// Add appends a book and saves. It fails with ErrDuplicateKey if the id is
// taken and with ErrInvalidRecord if the book cannot be encoded; in both cases
// nothing changes. A *PersistenceError means the book was added but not saved.
func (c *Catalog) Add(book Book) error {
	if err := c.codec.Validate(book); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidRecord, book.ID, err)
	}
	if c.Exists(book.ID) {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, book.ID)
	}

	c.books = append(c.books, book)
	return c.save("add", book.ID)
}

// Update replaces the book stored under id, keeping its position. The new
// book may carry a different id as long as no other book uses it.
func (c *Catalog) Update(id string, book Book) error {
	i := c.index(id)
	if i == -1 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if book.ID != id && c.Exists(book.ID) {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, book.ID)
	}
	if err := c.codec.Validate(book); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidRecord, book.ID, err)
	}

	c.books[i] = book
	return c.save("update", id)
}

// Delete removes the book stored under id; later books move up one position
func (c *Catalog) Delete(id string) error {
	i := c.index(id)
	if i == -1 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	c.books = append(c.books[:i], c.books[i+1:]...)
	return c.save("delete", id)
}

// Clear removes every book and saves. It asks for no confirmation.
func (c *Catalog) Clear() error {
	c.books = []Book{}
	return c.save("clear", "")
}

// FindByID returns the book stored under id
func (c *Catalog) FindByID(id string) (Book, error) {
	i := c.index(id)
	if i == -1 {
		return Book{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return c.books[i], nil
}

// SearchByTitle returns the books whose title contains text, in catalog order
func (c *Catalog) SearchByTitle(text string) []Book {
	return c.filter(func(b Book) bool { return strings.Contains(b.Title, text) })
}

// SearchByAuthor returns the books whose author contains text, in catalog order
func (c *Catalog) SearchByAuthor(text string) []Book {
	return c.filter(func(b Book) bool { return strings.Contains(b.Author, text) })
}

func (c *Catalog) filter(match func(Book) bool) []Book {
	out := []Book{}
	for _, b := range c.books {
		if match(b) {
			out = append(out, b)
		}
	}
	return out
}

// List returns a copy of every book in catalog order
func (c *Catalog) List() []Book {
	out := make([]Book, len(c.books))
	copy(out, c.books)
	return out
}

// IsPersistenceError reports whether err means a mutation was applied in
// memory but could not be written to the backing store
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
