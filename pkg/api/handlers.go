package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ssargent/shelf/pkg/catalog"
)

// Server holds the API server state
type Server struct {
	store   IBookStore
	config  ServerConfig
	metrics *Metrics

	// mu serialises every store call; the catalog itself is not safe for
	// concurrent use
	mu sync.Mutex
}

// NewServer creates a new API server
func NewServer(store IBookStore, config ServerConfig, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}
	s := &Server{
		store:   store,
		config:  config,
		metrics: metrics,
	}
	metrics.UpdateCatalogStats(store.Statistics())
	return s
}

// statusFor maps catalog errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrInvalidRecord):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// mutate runs op under the store lock and writes the response. A persistence
// failure still answers with the success status because the change was
// applied; the failure is reported in the warning field.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, name string, status int,
	data interface{}, op func() error) {
	start := time.Now()

	s.mu.Lock()
	err := op()
	stats := s.store.Statistics()
	s.mu.Unlock()

	s.metrics.UpdateCatalogStats(stats)

	switch {
	case err == nil:
		s.metrics.RecordCatalogOperation(name, true, time.Since(start))
		sendJSON(w, status, APIResponse{Success: true, Data: data})
	case catalog.IsPersistenceError(err):
		s.metrics.RecordCatalogOperation(name, true, time.Since(start))
		s.metrics.RecordPersistenceFailure(name)
		log.Printf("[%s] %s: %v", middleware.GetReqID(r.Context()), name, err)
		sendJSON(w, status, APIResponse{Success: true, Data: data, Warning: err.Error()})
	default:
		s.metrics.RecordCatalogOperation(name, false, time.Since(start))
		sendError(w, err.Error(), statusFor(err))
	}
}

// decodeBook reads and validates a BookRequest body. The id defaults to
// fallbackID when the body leaves it out.
func decodeBook(w http.ResponseWriter, r *http.Request, fallbackID string) (catalog.Book, bool) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return catalog.Book{}, false
	}
	if req.ID == "" {
		req.ID = fallbackID
	}
	if errs := ValidateStruct(req); errs != nil {
		sendValidationError(w, errs)
		return catalog.Book{}, false
	}
	return req.Book(), true
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleListBooks godoc
//
//	@Summary		List or search books
//	@Description	List every book in catalog order, or search by a case-sensitive title or author substring
//	@Tags			books
//	@Produce		json
//	@Param			title	query		string	false	"Title substring"
//	@Param			author	query		string	false	"Author substring"
//	@Success		200		{object}	APIResponse{data=[]catalog.Book}
//	@Security		ApiKeyAuth
//	@Router			/books [get]
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query()

	op := "list"
	s.mu.Lock()
	var books []catalog.Book
	switch {
	case query.Has("title"):
		op = "search_title"
		books = s.store.SearchByTitle(query.Get("title"))
	case query.Has("author"):
		op = "search_author"
		books = s.store.SearchByAuthor(query.Get("author"))
	default:
		books = s.store.List()
	}
	s.mu.Unlock()

	s.metrics.RecordCatalogOperation(op, true, time.Since(start))
	sendSuccess(w, books)
}

// handleGetBook godoc
//
//	@Summary		Get a book
//	@Description	Look a book up by id
//	@Tags			books
//	@Produce		json
//	@Param			id	path		string	true	"Book id"
//	@Success		200	{object}	APIResponse{data=catalog.Book}
//	@Failure		404	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/books/{id} [get]
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	book, err := s.store.FindByID(id)
	s.mu.Unlock()

	if err != nil {
		s.metrics.RecordCatalogOperation("get", false, time.Since(start))
		sendError(w, err.Error(), statusFor(err))
		return
	}
	s.metrics.RecordCatalogOperation("get", true, time.Since(start))
	sendSuccess(w, book)
}

// handleCreateBook godoc
//
//	@Summary		Add a book
//	@Description	Append a book to the catalog and rewrite the backing store
//	@Tags			books
//	@Accept			json
//	@Produce		json
//	@Param			body	body		BookRequest	true	"Book"
//	@Success		201		{object}	APIResponse{data=catalog.Book}
//	@Failure		400		{object}	APIResponse
//	@Failure		409		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/books [post]
func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	book, ok := decodeBook(w, r, "")
	if !ok {
		return
	}
	s.mutate(w, r, "add", http.StatusCreated, book, func() error {
		return s.store.Add(book)
	})
}

// handleUpdateBook godoc
//
//	@Summary		Update a book
//	@Description	Replace the book stored under id. A different id in the body renames the book in place.
//	@Tags			books
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Current book id"
//	@Param			body	body		BookRequest	true	"Replacement book"
//	@Success		200		{object}	APIResponse{data=catalog.Book}
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Failure		409		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/books/{id} [put]
func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	book, ok := decodeBook(w, r, id)
	if !ok {
		return
	}
	s.mutate(w, r, "update", http.StatusOK, book, func() error {
		return s.store.Update(id, book)
	})
}

// handleDeleteBook godoc
//
//	@Summary		Delete a book
//	@Tags			books
//	@Produce		json
//	@Param			id	path		string	true	"Book id"
//	@Success		200	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/books/{id} [delete]
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mutate(w, r, "delete", http.StatusOK, map[string]string{"deleted": id}, func() error {
		return s.store.Delete(id)
	})
}

// handleClearBooks godoc
//
//	@Summary		Delete every book
//	@Description	Empty the catalog. Requires confirm=true.
//	@Tags			books
//	@Produce		json
//	@Param			confirm	query		bool	true	"Must be true"
//	@Success		200		{object}	APIResponse
//	@Failure		400		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/books [delete]
func (s *Server) handleClearBooks(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		sendError(w, "Clearing the catalog requires confirm=true", http.StatusBadRequest)
		return
	}
	s.mutate(w, r, "clear", http.StatusOK, map[string]string{"status": "cleared"}, s.store.Clear)
}

// handleStats godoc
//
//	@Summary		Catalog statistics
//	@Description	Distinct titles, total copies, total and average value, and the most expensive title
//	@Tags			books
//	@Produce		json
//	@Success		200	{object}	APIResponse{data=catalog.Stats}
//	@Security		ApiKeyAuth
//	@Router			/stats [get]
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	s.mu.Lock()
	stats := s.store.Statistics()
	s.mu.Unlock()

	s.metrics.UpdateCatalogStats(stats)
	s.metrics.RecordCatalogOperation("stats", true, time.Since(start))
	sendSuccess(w, stats)
}
