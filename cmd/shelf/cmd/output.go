package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ssargent/shelf/pkg/catalog"
)

const formatJSON = "json"

// outputBook displays a single book
func (a *app) outputBook(w io.Writer, book catalog.Book) error {
	if a.cfg.Output.Format == formatJSON {
		return outputJSON(w, book)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "ISBN:\t%s\n", book.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", book.Title)
	fmt.Fprintf(tw, "Author:\t%s\n", book.Author)
	fmt.Fprintf(tw, "Publisher:\t%s\n", book.Publisher)
	fmt.Fprintf(tw, "Publish date:\t%s\n", book.PublishDate)
	fmt.Fprintf(tw, "Price:\t%.2f\n", book.Price)
	fmt.Fprintf(tw, "Quantity:\t%d\n", book.Quantity)
	return nil
}

// outputBooks displays multiple books
func (a *app) outputBooks(w io.Writer, books []catalog.Book) error {
	if a.cfg.Output.Format == formatJSON {
		return outputJSON(w, books)
	}

	if len(books) == 0 {
		fmt.Fprintln(w, "No books found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ISBN\tTITLE\tAUTHOR\tPUBLISHER\tDATE\tPRICE\tQTY")
	for _, b := range books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\t%d\n",
			b.ID,
			truncate(b.Title, 40),
			truncate(b.Author, 25),
			truncate(b.Publisher, 25),
			b.PublishDate,
			b.Price,
			b.Quantity)
	}
	return nil
}

// outputStats displays catalog statistics
func (a *app) outputStats(w io.Writer, stats catalog.Stats) error {
	if a.cfg.Output.Format == formatJSON {
		return outputJSON(w, stats)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "Titles:\t%d\n", stats.DistinctTitles)
	fmt.Fprintf(tw, "Total copies:\t%d\n", stats.TotalCopies)
	fmt.Fprintf(tw, "Total value:\t%.2f\n", stats.TotalValue)
	fmt.Fprintf(tw, "Average price:\t%.2f\n", stats.AveragePrice)
	if stats.MaxPrice >= 0 {
		fmt.Fprintf(tw, "Most expensive:\t%s (%.2f)\n", stats.MaxPriceTitle, stats.MaxPrice)
	} else {
		fmt.Fprintf(tw, "Most expensive:\tnone\n")
	}
	return nil
}

func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
