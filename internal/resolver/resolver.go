// Package resolver executes the GraphQL API for page snapshots. Queries
// return typed result unions; mutations return a flat result envelope.
// Every failure crossing this boundary is one of the domain error kinds,
// carried as data rather than as a transport-level GraphQL error.
package resolver

import (
	"context"

	"pagesnap/internal/logging"
	"pagesnap/internal/page"
	"pagesnap/internal/planner"
)

// PageRepository is the persistence surface the resolvers depend on.
type PageRepository interface {
	GetPage(ctx context.Context, id string) (*page.Page, error)
	GetPages(ctx context.Context, params page.ListParams) (*page.Connection, error)
	CreatePage(ctx context.Context, id string, input page.CreateInput, fileKey string) (*page.Page, error)
	UpdatePage(ctx context.Context, id string, fields *planner.FieldSet) (*page.Page, error)
	DeletePage(ctx context.Context, id string) (*page.Page, error)
}

// Renderer produces a snapshot artifact for a site.
type Renderer interface {
	Render(ctx context.Context, site string, pageType page.Type) ([]byte, error)
}

// ArtifactStore stores rendered artifacts under opaque keys.
type ArtifactStore interface {
	UploadNew(ctx context.Context, data []byte, site string, pageType page.Type) (string, error)
	UploadNewVersion(ctx context.Context, data []byte, pageType page.Type, key string) error
	Delete(ctx context.Context, key string) error
}

// Resolver wires the repository, renderer, and artifact store behind the
// GraphQL schema.
type Resolver struct {
	repo     PageRepository
	renderer Renderer
	store    ArtifactStore
	logger   *logging.Logger
}

// NewResolver creates a resolver over the given collaborators.
func NewResolver(repo PageRepository, renderer Renderer, store ArtifactStore, logger *logging.Logger) *Resolver {
	return &Resolver{
		repo:     repo,
		renderer: renderer,
		store:    store,
		logger:   logger,
	}
}
