// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/shelf/pkg/api"     //nolint:depguard
	"github.com/ssargent/shelf/pkg/catalog" //nolint:depguard
)

// Container holds all the dependencies for the application
type Container struct {
	catalogOpener catalog.Opener
	serverFactory api.ServerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		catalogOpener: catalog.NewOpener(),
		serverFactory: api.NewServerFactory(),
	}
}

// GetCatalogOpener returns the catalog opener
func (c *Container) GetCatalogOpener() catalog.Opener {
	return c.catalogOpener
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetCatalogOpener allows overriding the catalog opener (for testing)
func (c *Container) SetCatalogOpener(opener catalog.Opener) {
	c.catalogOpener = opener
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}
