package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/shelf/pkg/api"
	"github.com/ssargent/shelf/pkg/catalog"
)

// bookFlags are the record fields accepted by add and update
type bookFlags struct {
	id          string
	title       string
	author      string
	publisher   string
	publishDate string
	price       float64
	quantity    int
}

func (f *bookFlags) register(cmd *cobra.Command, idUsage string) {
	cmd.Flags().StringVar(&f.id, "id", "", idUsage)
	cmd.Flags().StringVar(&f.title, "title", "", "book title")
	cmd.Flags().StringVar(&f.author, "author", "", "author")
	cmd.Flags().StringVar(&f.publisher, "publisher", "", "publisher")
	cmd.Flags().StringVar(&f.publishDate, "date", "", "publish date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&f.price, "price", 0, "unit price")
	cmd.Flags().IntVar(&f.quantity, "quantity", 0, "copies in stock")
}

// apply copies the flags the user actually set onto book
func (f *bookFlags) apply(cmd *cobra.Command, book catalog.Book) catalog.Book {
	changed := cmd.Flags().Changed
	if changed("id") {
		book.ID = f.id
	}
	if changed("title") {
		book.Title = f.title
	}
	if changed("author") {
		book.Author = f.author
	}
	if changed("publisher") {
		book.Publisher = f.publisher
	}
	if changed("date") {
		book.PublishDate = f.publishDate
	}
	if changed("price") {
		book.Price = f.price
	}
	if changed("quantity") {
		book.Quantity = f.quantity
	}
	return book
}

// validateBook runs the same field rules as the REST API
func validateBook(book catalog.Book) error {
	req := api.BookRequest{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		Publisher:   book.Publisher,
		PublishDate: book.PublishDate,
		Price:       &book.Price,
		Quantity:    &book.Quantity,
	}
	errs := api.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return fmt.Errorf("invalid book: %s", strings.Join(msgs, "; "))
}

func newAddCmd(a *app) *cobra.Command {
	var flags bookFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Long: `Add a book to the catalog and save the data file.

Example:
  shelf add --id 978-0131103 --title "The C Programming Language" \
    --author Kernighan --publisher "Prentice Hall" --date 1988-04-01 \
    --price 45.50 --quantity 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			book := flags.apply(cmd, catalog.Book{})
			if err := validateBook(book); err != nil {
				return err
			}
			return a.report(cmd, a.store.Add(book), "Added book: %s", book.Title)
		},
	}

	flags.register(cmd, "ISBN (10-13 digits or hyphens)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("quantity")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <isbn>",
		Short: "Show one book",
		Long: `Show the book stored under an ISBN.

Example:
  shelf get 978-0131103`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := a.store.FindByID(args[0])
			if err != nil {
				return err
			}
			return a.outputBook(cmd.OutOrStdout(), book)
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var flags bookFlags

	cmd := &cobra.Command{
		Use:   "update <isbn>",
		Short: "Update a book",
		Long: `Update fields of an existing book. Only the flags you pass change;
--id renames the book in place.

Example:
  shelf update 978-0131103 --price 39.99 --quantity 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			current, err := a.store.FindByID(id)
			if err != nil {
				return err
			}
			book := flags.apply(cmd, current)
			if err := validateBook(book); err != nil {
				return err
			}
			return a.report(cmd, a.store.Update(id, book), "Updated book: %s", book.ID)
		},
	}

	flags.register(cmd, "new ISBN, renames the book")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <isbn>",
		Short: "Delete a book",
		Long: `Delete the book stored under an ISBN. Asks for confirmation unless --yes.

Example:
  shelf delete 978-0131103 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := a.store.FindByID(args[0])
			if err != nil {
				return err
			}
			ok, err := a.confirm(cmd, fmt.Sprintf("Delete %q (%s)? (y/n): ", book.Title, book.ID))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled.")
				return nil
			}
			return a.report(cmd, a.store.Delete(book.ID), "Deleted book: %s", book.ID)
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.outputBooks(cmd.OutOrStdout(), a.store.List())
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var title, author string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search books by title or author",
		Long: `Search for books whose title or author contains the given text.
Matching is case-sensitive.

Examples:
  shelf search --title Go
  shelf search --author Pike`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			byTitle := cmd.Flags().Changed("title")
			byAuthor := cmd.Flags().Changed("author")
			switch {
			case byTitle && byAuthor:
				return errors.New("use either --title or --author, not both")
			case byTitle:
				return a.outputBooks(cmd.OutOrStdout(), a.store.SearchByTitle(title))
			case byAuthor:
				return a.outputBooks(cmd.OutOrStdout(), a.store.SearchByAuthor(author))
			default:
				return errors.New("one of --title or --author is required")
			}
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "title substring")
	cmd.Flags().StringVar(&author, "author", "", "author substring")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.outputStats(cmd.OutOrStdout(), a.store.Statistics())
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every book",
		Long: `Delete every book and save the now empty data file.
Asks for confirmation unless --yes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.store.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "The catalog is already empty.")
				return nil
			}
			ok, err := a.confirm(cmd, fmt.Sprintf("Really delete ALL %d books? (y/n): ", a.store.Len()))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Clear cancelled.")
				return nil
			}
			return a.report(cmd, a.store.Clear(), "All books deleted.")
		},
	}
}
