// Package shell implements the interactive, menu-driven front end of shelf.
//
// The shell only talks to the catalog through the Catalog interface. It owns
// prompting, input validation, confirmation of destructive actions and
// rendering; the catalog owns the data.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ssargent/shelf/pkg/catalog"
	"github.com/ssargent/shelf/pkg/codec"
)

// DefaultMaxAttempts bounds every re-prompt loop
const DefaultMaxAttempts = 3

// errAborted ends the current action after too many invalid answers
var errAborted = errors.New("too many invalid attempts, action cancelled")

// Book is the record type shown by the shell
type Book = codec.Book

// Catalog is the set of catalog operations the shell relies on
type Catalog interface {
	Add(book codec.Book) error
	Update(id string, book codec.Book) error
	Delete(id string) error
	FindByID(id string) (codec.Book, error)
	Exists(id string) bool
	SearchByTitle(text string) []codec.Book
	SearchByAuthor(text string) []codec.Book
	List() []codec.Book
	Len() int
	Clear() error
	Statistics() catalog.Stats
}

// Options configures a Shell
type Options struct {
	MaxAttempts int  // re-prompt limit, DefaultMaxAttempts when zero
	Banner      bool // print a banner naming the data file on start
	DataFile    string
}

// Shell runs the menu loop over a reader and a writer
type Shell struct {
	catalog     Catalog
	in          *bufio.Scanner
	out         io.Writer
	maxAttempts int
	opts        Options
}

// New creates a shell reading answers from in and writing to out
func New(c Catalog, in io.Reader, out io.Writer, opts Options) *Shell {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &Shell{
		catalog:     c,
		in:          bufio.NewScanner(in),
		out:         out,
		maxAttempts: maxAttempts,
		opts:        opts,
	}
}

// Run shows the main menu until the user exits or input ends. It returns an
// error only when reading input fails.
func (s *Shell) Run() error {
	if s.opts.Banner {
		s.printf("================================\n")
		s.printf("      shelf book manager\n")
		if s.opts.DataFile != "" {
			s.printf("      data file: %s\n", s.opts.DataFile)
		}
		s.printf("================================\n")
	}

	for {
		s.mainMenu()
		choice, err := s.readLine("Choose an option (0-7): ")
		if err != nil {
			return s.finish(err)
		}

		switch choice {
		case "1":
			err = s.handleAdd()
		case "2":
			err = s.handleUpdate()
		case "3":
			err = s.handleDelete()
		case "4":
			err = s.handleSearch()
		case "5":
			s.handleList()
		case "6":
			s.handleStatistics()
		case "7":
			err = s.handleClear()
		case "0":
			s.printf("Goodbye!\n")
			return nil
		default:
			s.printf("Invalid choice, please try again.\n")
		}

		if errors.Is(err, errAborted) {
			s.printf("Too many invalid attempts, action cancelled.\n")
			continue
		}
		if err != nil {
			return s.finish(err)
		}
	}
}

// finish maps end of input to a clean exit
func (s *Shell) finish(err error) error {
	if errors.Is(err, io.EOF) {
		s.printf("\n")
		return nil
	}
	return err
}

func (s *Shell) mainMenu() {
	s.printf("\n================================\n")
	s.printf("1. Add book\n")
	s.printf("2. Update book\n")
	s.printf("3. Delete book\n")
	s.printf("4. Search books\n")
	s.printf("5. List all books\n")
	s.printf("6. Statistics\n")
	s.printf("7. Clear all books\n")
	s.printf("0. Exit\n")
	s.printf("================================\n")
}

func (s *Shell) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// report prints the outcome of a mutation. A persistence failure still
// counts as success for the in-memory change.
func (s *Shell) report(err error, success string) {
	switch {
	case err == nil:
		s.printf("%s\n", success)
	case catalog.IsPersistenceError(err):
		s.printf("%s\n", success)
		s.printf("Warning: %v\n", err)
	default:
		s.printf("Error: %v\n", err)
	}
}

// readLine prompts once and returns the trimmed answer
func (s *Shell) readLine(prompt string) (string, error) {
	s.printf("%s", prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// promptUntil re-prompts until check accepts the answer or attempts run out
func (s *Shell) promptUntil(prompt string, check func(string) error) (string, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		answer, err := s.readLine(prompt)
		if err != nil {
			return "", err
		}
		if err := check(answer); err != nil {
			s.printf("Invalid input: %v\n", err)
			continue
		}
		return answer, nil
	}
	return "", errAborted
}

func (s *Shell) promptISBN(prompt string) (string, error) {
	return s.promptUntil(prompt, isbnCheck)
}

func (s *Shell) promptPrice(prompt string) (float64, error) {
	answer, err := s.promptUntil(prompt, checkPrice)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(answer, 64)
}

func (s *Shell) promptQuantity(prompt string) (int, error) {
	answer, err := s.promptUntil(prompt, checkQuantity)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(answer)
}

// promptOptional returns the current value when the answer is blank
func (s *Shell) promptOptional(prompt, current string, check func(string) error) (string, error) {
	answer, err := s.promptUntil(prompt, func(v string) error {
		if v == "" || check == nil {
			return nil
		}
		return check(v)
	})
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

func (s *Shell) confirm(prompt string) (bool, error) {
	answer, err := s.readLine(prompt)
	if err != nil {
		return false, err
	}
	return answer == "y" || answer == "Y", nil
}

func isbnCheck(v string) error {
	if !codec.IsValidISBN(v) {
		return errors.New("ISBN must be 10 to 13 digits or hyphens")
	}
	return nil
}

// checkText rejects answers that would split the stored line
func checkText(v string) error {
	if strings.Contains(v, codec.Delimiter) {
		return fmt.Errorf("must not contain %q", codec.Delimiter)
	}
	return nil
}

func checkPrice(v string) error {
	p, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return errors.New("please enter a valid number")
	}
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return errors.New("please enter a valid number")
	}
	if p < 0 {
		return errors.New("price must not be negative")
	}
	return nil
}

func checkQuantity(v string) error {
	q, err := strconv.Atoi(v)
	if err != nil {
		return errors.New("please enter a valid whole number")
	}
	if q < 0 {
		return errors.New("quantity must not be negative")
	}
	return nil
}
