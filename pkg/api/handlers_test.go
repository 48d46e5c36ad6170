package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/shelf/pkg/catalog"
)

const testAPIKey = "test-key"

func setupTestServer(t *testing.T, path string) (*Server, *catalog.Catalog) {
	t.Helper()
	if path == "" {
		path = filepath.Join(t.TempDir(), "book.txt")
	}

	c, _, err := catalog.Open(catalog.Config{Path: path})
	require.NoError(t, err)

	server := NewServer(c, ServerConfig{APIKey: testAPIKey, Quiet: true}, NewMetrics())
	return server, c
}

// do sends a request through the full router and decodes the envelope
func do(t *testing.T, h http.Handler, method, target string, body interface{}) (int, APIResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("X-API-Key", testAPIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp), "body: %s", w.Body.String())
	return w.Code, resp
}

// decodeData re-decodes the envelope's data into out
func decodeData(t *testing.T, resp APIResponse, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func bookBody(id, title, author string, price float64, qty int) BookRequest {
	return BookRequest{
		ID:       id,
		Title:    title,
		Author:   author,
		Price:    &price,
		Quantity: &qty,
	}
}

func TestServer_handleHealth(t *testing.T) {
	server, _ := setupTestServer(t, "")

	code, resp := do(t, server.Router(), "GET", "/api/v1/health", nil)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
	assert.Equal(t, map[string]interface{}{"status": "healthy"}, resp.Data)
}

func TestServer_RequiresAPIKey(t *testing.T) {
	server, _ := setupTestServer(t, "")
	h := server.Router()

	req := httptest.NewRequest("GET", "/api/v1/books", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest("GET", "/api/v1/books", nil)
	req.Header.Set("X-API-Key", "nope")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServer_CreateAndGetBook(t *testing.T) {
	server, c := setupTestServer(t, "")
	h := server.Router()

	code, resp := do(t, h, "POST", "/api/v1/books", bookBody("1234567890", "Go", "Pike", 30, 2))
	require.Equal(t, http.StatusCreated, code, resp.Error)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Warning)
	assert.True(t, c.Exists("1234567890"))

	code, resp = do(t, h, "GET", "/api/v1/books/1234567890", nil)
	require.Equal(t, http.StatusOK, code)

	var got catalog.Book
	decodeData(t, resp, &got)
	assert.Equal(t, catalog.Book{ID: "1234567890", Title: "Go", Author: "Pike", Price: 30, Quantity: 2}, got)

	data, err := os.ReadFile(c.Path())
	require.NoError(t, err)
	assert.Equal(t, "1234567890|Go|Pike|||30.00|2\n", string(data))
}

func TestServer_CreateDuplicate(t *testing.T) {
	server, c := setupTestServer(t, "")
	h := server.Router()

	code, _ := do(t, h, "POST", "/api/v1/books", bookBody("1234567890", "A", "", 10, 1))
	require.Equal(t, http.StatusCreated, code)

	code, resp := do(t, h, "POST", "/api/v1/books", bookBody("1234567890", "B", "", 20, 1))
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "1234567890")

	assert.Equal(t, 1, c.Len())
	book, err := c.FindByID("1234567890")
	require.NoError(t, err)
	assert.Equal(t, "A", book.Title)
}

func TestServer_CreateInvalid(t *testing.T) {
	server, c := setupTestServer(t, "")
	h := server.Router()

	tests := []struct {
		name  string
		body  interface{}
		field string
	}{
		{name: "malformed json", body: "{not json"},
		{name: "bad id", body: bookBody("12", "A", "", 1, 1), field: "id"},
		{name: "delimiter in title", body: bookBody("1234567890", "A|B", "", 1, 1), field: "title"},
		{name: "negative quantity", body: bookBody("1234567890", "A", "", 1, -1), field: "quantity"},
		{name: "missing price", body: `{"id":"1234567890","quantity":1}`, field: "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := do(t, h, "POST", "/api/v1/books", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
			if tt.field != "" {
				require.Len(t, resp.Fields, 1)
				assert.Equal(t, tt.field, resp.Fields[0].Field)
			}
		})
	}

	assert.Equal(t, 0, c.Len())
}

func TestServer_GetMissingBook(t *testing.T) {
	server, _ := setupTestServer(t, "")

	code, resp := do(t, server.Router(), "GET", "/api/v1/books/0000000000", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, resp.Success)
}

func TestServer_UpdateBook(t *testing.T) {
	server, c := setupTestServer(t, "")
	h := server.Router()
	require.NoError(t, c.Add(catalog.Book{ID: "1111111111", Title: "A", Price: 1, Quantity: 1}))
	require.NoError(t, c.Add(catalog.Book{ID: "2222222222", Title: "B", Price: 2, Quantity: 2}))

	t.Run("in place with id from path", func(t *testing.T) {
		body := bookBody("", "A2", "X", 5, 5)
		code, resp := do(t, h, "PUT", "/api/v1/books/1111111111", body)
		require.Equal(t, http.StatusOK, code, resp.Error)

		book, err := c.FindByID("1111111111")
		require.NoError(t, err)
		assert.Equal(t, "A2", book.Title)
	})

	t.Run("rename keeps position", func(t *testing.T) {
		code, resp := do(t, h, "PUT", "/api/v1/books/1111111111", bookBody("3333333333", "C", "", 3, 3))
		require.Equal(t, http.StatusOK, code, resp.Error)

		list := c.List()
		require.Len(t, list, 2)
		assert.Equal(t, "3333333333", list[0].ID)
		assert.False(t, c.Exists("1111111111"))
	})

	t.Run("rename onto existing id", func(t *testing.T) {
		code, _ := do(t, h, "PUT", "/api/v1/books/3333333333", bookBody("2222222222", "C", "", 3, 3))
		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("missing book", func(t *testing.T) {
		code, _ := do(t, h, "PUT", "/api/v1/books/9999999999", bookBody("", "Z", "", 1, 1))
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestServer_DeleteBook(t *testing.T) {
	server, c := setupTestServer(t, "")
	h := server.Router()
	require.NoError(t, c.Add(catalog.Book{ID: "1111111111", Title: "A", Price: 1, Quantity: 1}))

	code, resp := do(t, h, "DELETE", "/api/v1/books/1111111111", nil)
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.Equal(t, 0, c.Len())

	code, _ = do(t, h, "DELETE", "/api/v1/books/1111111111", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServer_ListAndSearch(t *testing.T) {
	server, c := setupTestServer(t, "")
	h := server.Router()
	require.NoError(t, c.Add(catalog.Book{ID: "1111111111", Title: "Go in Action", Author: "Kennedy", Price: 1, Quantity: 1}))
	require.NoError(t, c.Add(catalog.Book{ID: "2222222222", Title: "The Go Programming Language", Author: "Donovan", Price: 2, Quantity: 1}))
	require.NoError(t, c.Add(catalog.Book{ID: "3333333333", Title: "Rust", Author: "Klabnik", Price: 3, Quantity: 1}))

	tests := []struct {
		target string
		ids    []string
	}{
		{target: "/api/v1/books", ids: []string{"1111111111", "2222222222", "3333333333"}},
		{target: "/api/v1/books?title=Go", ids: []string{"1111111111", "2222222222"}},
		{target: "/api/v1/books?author=K", ids: []string{"1111111111", "3333333333"}},
		{target: "/api/v1/books?title=python", ids: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			code, resp := do(t, h, "GET", tt.target, nil)
			require.Equal(t, http.StatusOK, code)

			var books []catalog.Book
			decodeData(t, resp, &books)
			got := make([]string, 0, len(books))
			for _, b := range books {
				got = append(got, b.ID)
			}
			assert.Equal(t, tt.ids, got)
		})
	}
}

func TestServer_ClearBooks(t *testing.T) {
	server, c := setupTestServer(t, "")
	h := server.Router()
	require.NoError(t, c.Add(catalog.Book{ID: "1111111111", Title: "A", Price: 1, Quantity: 1}))

	code, _ := do(t, h, "DELETE", "/api/v1/books", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, 1, c.Len())

	code, _ = do(t, h, "DELETE", "/api/v1/books?confirm=true", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, c.Len())
}

func TestServer_Stats(t *testing.T) {
	server, c := setupTestServer(t, "")
	h := server.Router()
	require.NoError(t, c.Add(catalog.Book{ID: "1111111111", Title: "Cheap", Price: 10, Quantity: 2}))
	require.NoError(t, c.Add(catalog.Book{ID: "2222222222", Title: "Dear", Price: 20, Quantity: 1}))

	code, resp := do(t, h, "GET", "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, code)

	var stats catalog.Stats
	decodeData(t, resp, &stats)
	assert.Equal(t, 2, stats.DistinctTitles)
	assert.Equal(t, 3, stats.TotalCopies)
	assert.InDelta(t, 40.0, stats.TotalValue, 1e-9)
	assert.InDelta(t, 40.0/3.0, stats.AveragePrice, 1e-9)
	assert.Equal(t, "Dear", stats.MaxPriceTitle)
	assert.Equal(t, 20.0, stats.MaxPrice)
}

func TestServer_PersistenceFailureIsAWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "book.txt")
	server, c := setupTestServer(t, path)

	code, resp := do(t, server.Router(), "POST", "/api/v1/books", bookBody("1234567890", "A", "", 1, 1))
	assert.Equal(t, http.StatusCreated, code)
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Warning, "failed to save")
	assert.True(t, c.Exists("1234567890"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(catalog.ErrNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(catalog.ErrDuplicateKey))
	assert.Equal(t, http.StatusBadRequest, statusFor(catalog.ErrInvalidRecord))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}

func TestServer_SearchIsCaseSensitive(t *testing.T) {
	server, c := setupTestServer(t, "")
	require.NoError(t, c.Add(catalog.Book{ID: "1111111111", Title: "Go in Action", Price: 1, Quantity: 1}))

	code, resp := do(t, server.Router(), "GET", "/api/v1/books?title=go", nil)
	require.Equal(t, http.StatusOK, code)

	var books []catalog.Book
	decodeData(t, resp, &books)
	assert.Empty(t, books)
}
