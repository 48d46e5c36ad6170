package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"
)

// catalogMachine drives a Catalog with random mutations and checks it against
// a plain slice model after every step
type catalogMachine struct {
	c     *Catalog
	path  string
	model []Book
}

var idPool = []string{"100", "200", "300", "400", "500", "600"}

func (m *catalogMachine) modelIndex(id string) int {
	for i, b := range m.model {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func drawBook(t *rapid.T) Book {
	cents := rapid.IntRange(0, 100000).Draw(t, "cents")
	return Book{
		ID:       rapid.SampledFrom(idPool).Draw(t, "id"),
		Title:    rapid.StringMatching(`[A-Za-z ]{0,8}`).Draw(t, "title"),
		Author:   rapid.StringMatching(`[A-Za-z ]{0,8}`).Draw(t, "author"),
		Price:    float64(cents) / 100,
		Quantity: rapid.IntRange(0, 50).Draw(t, "qty"),
	}
}

func (m *catalogMachine) add(t *rapid.T) {
	b := drawBook(t)
	err := m.c.Add(b)

	if m.modelIndex(b.ID) != -1 {
		if !errors.Is(err, ErrDuplicateKey) {
			t.Fatalf("Add(%q) on existing id: got %v, want ErrDuplicateKey", b.ID, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("Add(%q): %v", b.ID, err)
	}
	m.model = append(m.model, b)
}

func (m *catalogMachine) update(t *rapid.T) {
	id := rapid.SampledFrom(idPool).Draw(t, "target")
	b := drawBook(t)
	err := m.c.Update(id, b)

	i := m.modelIndex(id)
	switch {
	case i == -1:
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Update(%q) on missing id: got %v, want ErrNotFound", id, err)
		}
	case b.ID != id && m.modelIndex(b.ID) != -1:
		if !errors.Is(err, ErrDuplicateKey) {
			t.Fatalf("Update(%q -> %q) collision: got %v, want ErrDuplicateKey", id, b.ID, err)
		}
	default:
		if err != nil {
			t.Fatalf("Update(%q): %v", id, err)
		}
		m.model[i] = b
	}
}

func (m *catalogMachine) delete(t *rapid.T) {
	id := rapid.SampledFrom(idPool).Draw(t, "target")
	err := m.c.Delete(id)

	i := m.modelIndex(id)
	if i == -1 {
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Delete(%q) on missing id: got %v, want ErrNotFound", id, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("Delete(%q): %v", id, err)
	}
	m.model = append(m.model[:i], m.model[i+1:]...)
}

func (m *catalogMachine) check(t *rapid.T) {
	got := m.c.List()
	if len(got) != len(m.model) {
		t.Fatalf("catalog has %d books, model has %d", len(got), len(m.model))
	}

	seen := make(map[string]bool)
	for i, b := range got {
		if seen[b.ID] {
			t.Fatalf("id %q appears twice", b.ID)
		}
		seen[b.ID] = true
		if b != m.model[i] {
			t.Fatalf("position %d: got %+v, want %+v", i, b, m.model[i])
		}
	}
}

func TestCatalog_MutationProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tmpDir, err := os.MkdirTemp("", "shelf_catalog_rapid")
		if err != nil {
			t.Fatalf("Failed to create temp dir: %v", err)
		}
		defer os.RemoveAll(tmpDir)

		path := filepath.Join(tmpDir, "book.txt")
		c, _, err := Open(Config{Path: path})
		if err != nil {
			t.Fatalf("Open: %v", err)
		}

		m := &catalogMachine{c: c, path: path, model: []Book{}}
		t.Repeat(map[string]func(*rapid.T){
			"add":    m.add,
			"update": m.update,
			"delete": m.delete,
			"":       m.check,
		})

		// a fresh catalog over the same file sees the same sequence
		reloaded, result, err := Open(Config{Path: path})
		if err != nil {
			t.Fatalf("reopen: %v", err)
		}
		if len(result.Warnings) != 0 {
			t.Fatalf("reopen produced warnings: %v", result.Warnings)
		}
		m.c = reloaded
		m.check(t)
	})
}
