// Package codec provides book serialization and deserialization for shelf.
//
// The codec package implements the line format of the shelf backing store:
// one book per line of UTF-8 text, fields joined by a reserved delimiter.
// This is the foundation for the catalog's load and save operations.
//
// # Line Format
//
// Books are serialized as seven fields in a fixed order:
//
//	id|title|author|publisher|publishDate|price|quantity
//
// Fields:
//   - id: non-empty primary key, usually an ISBN
//   - title, author, publisher, publishDate: free-form text
//   - price: non-negative decimal written with exactly two fractional digits
//   - quantity: non-negative base-10 integer
//
// There is no header line and no escaping. The line terminator is not part of
// the encoded form; Decode tolerates a trailing carriage return.
//
// # Reserved Characters
//
// A text field containing the delimiter or a line break cannot be written
// without corrupting the file. Encode and Validate reject such books with a
// FieldError (matching ErrInvalidField) rather than writing a line that would
// decode into different fields.
//
// # Usage
//
//	c := codec.NewLineCodec()
//
//	line, err := c.Encode(codec.Book{ID: "978-0134190440", Title: "The Go Programming Language", Price: 34.99, Quantity: 2})
//	if err != nil {
//	    return err
//	}
//
//	book, err := c.Decode(line)
//	if err != nil {
//	    return err // *ParseError
//	}
//
// # Error Handling
//
// Decode returns a *ParseError when a line has the wrong number of fields,
// an empty id, or a price or quantity that is not a valid non-negative number.
// Decode is pure: it never touches disk and never logs.
//
// # Thread Safety
//
// LineCodec has no state and is safe for concurrent use.
package codec
