package api

import (
	"github.com/ssargent/shelf/pkg/catalog"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	// Warning is set when a mutation was applied but the backing store could
	// not be rewritten
	Warning string            `json:"warning,omitempty"`
	Fields  []ValidationError `json:"fields,omitempty"`
}

// BookRequest is the body accepted by the create and update endpoints
type BookRequest struct {
	ID          string   `json:"id" validate:"required,bookid"`
	Title       string   `json:"title" validate:"max=500,nodelim"`
	Author      string   `json:"author" validate:"max=500,nodelim"`
	Publisher   string   `json:"publisher" validate:"max=500,nodelim"`
	PublishDate string   `json:"publish_date" validate:"max=64,nodelim"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Quantity    *int     `json:"quantity" validate:"required,gte=0"`
}

// Book converts the request into a catalog record
func (r BookRequest) Book() catalog.Book {
	b := catalog.Book{
		ID:          r.ID,
		Title:       r.Title,
		Author:      r.Author,
		Publisher:   r.Publisher,
		PublishDate: r.PublishDate,
	}
	if r.Price != nil {
		b.Price = *r.Price
	}
	if r.Quantity != nil {
		b.Quantity = *r.Quantity
	}
	return b
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string
	Quiet  bool // suppress startup messages
}

// IBookStore defines the catalog operations the API depends on
type IBookStore interface {
	Add(book catalog.Book) error
	Update(id string, book catalog.Book) error
	Delete(id string) error
	Clear() error
	FindByID(id string) (catalog.Book, error)
	Exists(id string) bool
	SearchByTitle(text string) []catalog.Book
	SearchByAuthor(text string) []catalog.Book
	List() []catalog.Book
	Statistics() catalog.Stats
}
