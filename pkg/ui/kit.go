package ui

import (
	"github.com/google/uuid"

	"github.com/vango-dev/sitekit/pkg/icon"
	"github.com/vango-dev/sitekit/pkg/link"
)

// Kit holds the collaborators shared by all components.
type Kit struct {
	// Links resolves button and CTA destinations.
	Links link.Resolver

	// Icons is the registry icon names are looked up in.
	Icons *icon.Registry

	// NewID returns a unique id for list items.
	NewID func() string
}

// DefaultKit returns a Kit using the built-in icon set and random UUIDs.
func DefaultKit() Kit {
	return Kit{
		Icons: icon.Default(),
		NewID: uuid.NewString,
	}
}

// WithBase returns a copy of k whose links are resolved under base.
func (k Kit) WithBase(base string) Kit {
	k.Links = link.Resolver{Base: base}
	return k
}

func (k Kit) id() string {
	if k.NewID == nil {
		return uuid.NewString()
	}
	return k.NewID()
}

func (k Kit) icons() *icon.Registry {
	if k.Icons == nil {
		return icon.Default()
	}
	return k.Icons
}
