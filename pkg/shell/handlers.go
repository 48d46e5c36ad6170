package shell

import (
	"fmt"
	"strconv"
)

func (s *Shell) handleAdd() error {
	s.printf("\n=== Add book ===\n")

	id, err := s.promptISBN("ISBN: ")
	if err != nil {
		return err
	}
	if s.catalog.Exists(id) {
		s.printf("Error: ISBN %s already exists.\n", id)
		return nil
	}

	book := Book{ID: id}
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Title: ", &book.Title},
		{"Author: ", &book.Author},
		{"Publisher: ", &book.Publisher},
		{"Publish date (YYYY-MM-DD): ", &book.PublishDate},
	} {
		if *f.dst, err = s.promptUntil(f.prompt, checkText); err != nil {
			return err
		}
	}

	if book.Price, err = s.promptPrice("Price: "); err != nil {
		return err
	}
	if book.Quantity, err = s.promptQuantity("Quantity: "); err != nil {
		return err
	}

	s.report(s.catalog.Add(book), fmt.Sprintf("Added book: %s", book.Title))
	return nil
}

func (s *Shell) handleUpdate() error {
	s.printf("\n=== Update book ===\n")

	id, err := s.readLine("ISBN of the book to update: ")
	if err != nil {
		return err
	}
	old, err := s.catalog.FindByID(id)
	if err != nil {
		s.printf("Error: no book with ISBN %s.\n", id)
		return nil
	}

	s.printf("Current record:\n")
	s.printBook(old)
	s.printf("\nEnter new values, or press Enter to keep the current one.\n")

	updated := old
	updated.ID, err = s.promptOptional("New ISBN: ", old.ID, func(v string) error {
		if v == old.ID {
			return nil
		}
		return isbnCheck(v)
	})
	if err != nil {
		return err
	}

	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"New title: ", &updated.Title},
		{"New author: ", &updated.Author},
		{"New publisher: ", &updated.Publisher},
		{"New publish date: ", &updated.PublishDate},
	} {
		if *f.dst, err = s.promptOptional(f.prompt, *f.dst, checkText); err != nil {
			return err
		}
	}

	price, err := s.promptOptional(fmt.Sprintf("New price [%.2f]: ", old.Price), "", checkPrice)
	if err != nil {
		return err
	}
	if price != "" {
		updated.Price, _ = strconv.ParseFloat(price, 64)
	}

	quantity, err := s.promptOptional(fmt.Sprintf("New quantity [%d]: ", old.Quantity), "", checkQuantity)
	if err != nil {
		return err
	}
	if quantity != "" {
		updated.Quantity, _ = strconv.Atoi(quantity)
	}

	s.report(s.catalog.Update(id, updated), "Book updated.")
	return nil
}

func (s *Shell) handleDelete() error {
	s.printf("\n=== Delete book ===\n")

	id, err := s.readLine("ISBN of the book to delete: ")
	if err != nil {
		return err
	}
	b, err := s.catalog.FindByID(id)
	if err != nil {
		s.printf("Error: no book with ISBN %s.\n", id)
		return nil
	}

	ok, err := s.confirm(fmt.Sprintf("Delete the book with ISBN %s? (y/n): ", id))
	if err != nil {
		return err
	}
	if !ok {
		s.printf("Delete cancelled.\n")
		return nil
	}

	s.report(s.catalog.Delete(id), fmt.Sprintf("Deleted book: %s", b.Title))
	return nil
}

func (s *Shell) handleSearch() error {
	for {
		s.printf("\n=== Search books ===\n")
		s.printf("1. By ISBN\n")
		s.printf("2. By title\n")
		s.printf("3. By author\n")
		s.printf("0. Back to main menu\n")

		choice, err := s.readLine("Choose a search (0-3): ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			id, err := s.readLine("ISBN: ")
			if err != nil {
				return err
			}
			b, err := s.catalog.FindByID(id)
			if err != nil {
				s.printf("No book with ISBN %s.\n", id)
				continue
			}
			s.printBook(b)
		case "2":
			text, err := s.readLine("Title keyword: ")
			if err != nil {
				return err
			}
			s.printMatches(s.catalog.SearchByTitle(text), "title", text)
		case "3":
			text, err := s.readLine("Author keyword: ")
			if err != nil {
				return err
			}
			s.printMatches(s.catalog.SearchByAuthor(text), "author", text)
		case "0":
			return nil
		default:
			s.printf("Invalid choice, please try again.\n")
		}
	}
}

func (s *Shell) handleList() {
	books := s.catalog.List()
	if len(books) == 0 {
		s.printf("The catalog is empty.\n")
		return
	}

	s.printf("\n=== All books ===\n")
	s.printf("Total: %d books\n", len(books))
	s.printf("--------------------------------\n")
	for _, b := range books {
		s.printf("ISBN: %s\n", b.ID)
		s.printf("Title: %s\n", b.Title)
		s.printf("Author: %s\n", b.Author)
		s.printf("Price: %.2f\n", b.Price)
		s.printf("Quantity: %d\n", b.Quantity)
		s.printf("--------------------------------\n")
	}
}

func (s *Shell) handleStatistics() {
	if s.catalog.Len() == 0 {
		s.printf("The catalog is empty, no statistics to show.\n")
		return
	}

	st := s.catalog.Statistics()
	s.printf("\n=== Statistics ===\n")
	s.printf("Titles: %d\n", st.DistinctTitles)
	s.printf("Total value: %.2f\n", st.TotalValue)
	s.printf("Average price: %.2f\n", st.AveragePrice)
	if st.MaxPrice >= 0 {
		s.printf("Most expensive: %s (%.2f)\n", st.MaxPriceTitle, st.MaxPrice)
	} else {
		s.printf("Most expensive: none\n")
	}
	s.printf("Total copies: %d\n", st.TotalCopies)
}

func (s *Shell) handleClear() error {
	if s.catalog.Len() == 0 {
		s.printf("The catalog is already empty.\n")
		return nil
	}

	ok, err := s.confirm("Really delete ALL books? (y/n): ")
	if err != nil {
		return err
	}
	if !ok {
		s.printf("Clear cancelled.\n")
		return nil
	}

	s.report(s.catalog.Clear(), "All books removed.")
	return nil
}

func (s *Shell) printBook(b Book) {
	s.printf("================================\n")
	s.printf("ISBN: %s\n", b.ID)
	s.printf("Title: %s\n", b.Title)
	s.printf("Author: %s\n", b.Author)
	s.printf("Publisher: %s\n", b.Publisher)
	s.printf("Publish date: %s\n", b.PublishDate)
	s.printf("Price: %.2f\n", b.Price)
	s.printf("Quantity: %d\n", b.Quantity)
	s.printf("================================\n")
}

func (s *Shell) printMatches(books []Book, field, text string) {
	if len(books) == 0 {
		s.printf("No books with %s containing %q.\n", field, text)
		return
	}
	s.printf("\n=== %d result(s) ===\n", len(books))
	for _, b := range books {
		s.printBook(b)
	}
}
