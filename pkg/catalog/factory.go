package catalog

// Opener opens catalogs. The CLI resolves it through the di container so
// tests can substitute their own.
type Opener interface {
	// Open creates a catalog bound to path and loads it
	Open(path string) (*Catalog, *LoadResult, error)
}

// DefaultOpener opens catalogs backed by the flat file at path
type DefaultOpener struct{}

// NewOpener creates the default catalog opener
func NewOpener() Opener {
	return &DefaultOpener{}
}

// Open creates a catalog bound to path and loads it
func (o *DefaultOpener) Open(path string) (*Catalog, *LoadResult, error) {
	return Open(Config{Path: path})
}
