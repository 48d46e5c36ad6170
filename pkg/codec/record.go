package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Delimiter separates the fields of an encoded book line
const Delimiter = "|"

// FieldCount is the number of fields in an encoded book line
const FieldCount = 7

// Field names in on-disk order
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldAuthor      = "author"
	FieldPublisher   = "publisher"
	FieldPublishDate = "publishDate"
	FieldPrice       = "price"
	FieldQuantity    = "quantity"
)

var fieldOrder = [FieldCount]string{
	FieldID, FieldTitle, FieldAuthor, FieldPublisher, FieldPublishDate, FieldPrice, FieldQuantity,
}

// Book is a single catalog entry
type Book struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Publisher   string  `json:"publisher"`
	PublishDate string  `json:"publish_date"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// Value returns price * quantity
func (b Book) Value() float64 {
	return b.Price * float64(b.Quantity)
}

// LineCodec handles serialization and deserialization of books
// to and from single lines of delimited text
type LineCodec struct{}

// NewLineCodec creates a new line codec instance
func NewLineCodec() *LineCodec {
	return &LineCodec{}
}

// Encode serializes a book into one line without a line terminator
// Format: id|title|author|publisher|publishDate|price|quantity
func (c *LineCodec) Encode(b Book) (string, error) {
	if err := c.Validate(b); err != nil {
		return "", err
	}

	fields := []string{
		b.ID,
		b.Title,
		b.Author,
		b.Publisher,
		b.PublishDate,
		strconv.FormatFloat(b.Price, 'f', 2, 64),
		strconv.Itoa(b.Quantity),
	}
	return strings.Join(fields, Delimiter), nil
}

// Decode deserializes one line into a Book
func (c *LineCodec) Decode(line string) (Book, error) {
	line = strings.TrimSuffix(line, "\r")

	fields := strings.Split(line, Delimiter)
	if len(fields) != FieldCount {
		return Book{}, &ParseError{
			Value: line,
			Err:   fmt.Errorf("expected %d fields, got %d", FieldCount, len(fields)),
		}
	}

	// numbers may be padded with spaces; text fields are kept verbatim
	price, err := strconv.ParseFloat(strings.TrimSpace(fields[5]), 64)
	if err != nil {
		return Book{}, &ParseError{Field: FieldPrice, Value: fields[5], Err: err}
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(fields[6]))
	if err != nil {
		return Book{}, &ParseError{Field: FieldQuantity, Value: fields[6], Err: err}
	}

	b := Book{
		ID:          fields[0],
		Title:       fields[1],
		Author:      fields[2],
		Publisher:   fields[3],
		PublishDate: fields[4],
		Price:       price,
		Quantity:    quantity,
	}

	// a decoded book must be writable again
	if err := c.Validate(b); err != nil {
		var fe *FieldError
		if errors.As(err, &fe) {
			return Book{}, &ParseError{Field: fe.Field, Value: fieldValue(fields, fe.Field), Err: fe.Err}
		}
		return Book{}, &ParseError{Value: line, Err: err}
	}

	return b, nil
}

// Validate reports whether b can be encoded without loss
func (c *LineCodec) Validate(b Book) error {
	if b.ID == "" {
		return &FieldError{Field: FieldID, Err: errEmptyID}
	}

	text := []struct {
		name  string
		value string
	}{
		{FieldID, b.ID},
		{FieldTitle, b.Title},
		{FieldAuthor, b.Author},
		{FieldPublisher, b.Publisher},
		{FieldPublishDate, b.PublishDate},
	}
	for _, f := range text {
		if strings.ContainsAny(f.value, Delimiter+"\r\n") {
			return &FieldError{Field: f.name, Err: errReservedChar}
		}
	}

	if err := checkPrice(b.Price); err != nil {
		return &FieldError{Field: FieldPrice, Err: err}
	}
	if b.Quantity < 0 {
		return &FieldError{Field: FieldQuantity, Err: errNegativeQuantity}
	}

	return nil
}

func checkPrice(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return errNonFinitePrice
	}
	if p < 0 {
		return errNegativePrice
	}
	return nil
}

// fieldValue returns the raw text of the named field from a split line
func fieldValue(fields []string, name string) string {
	for i, n := range fieldOrder {
		if n == name && i < len(fields) {
			return fields[i]
		}
	}
	return ""
}
