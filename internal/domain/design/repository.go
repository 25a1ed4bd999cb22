package design

import (
	"context"

	"github.com/google/uuid"

	"github.com/podsync/backend/internal/domain/shared"
)

// TemplateRepository defines the interface for design template persistence
type TemplateRepository interface {
	// FindByID finds a template by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Template, error)

	// FindByExternalID finds a template by its provider-side template ID
	FindByExternalID(ctx context.Context, externalTemplateID int64) (*Template, error)

	// FindAll finds all templates with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Template, error)

	// FindByOwner finds all templates created by a specific user
	FindByOwner(ctx context.Context, ownerUserID uuid.UUID, filter shared.Filter) ([]Template, error)

	// Save saves a template (insert or update), keyed by the external template ID
	// so that concurrent imports of the same provider template upsert rather
	// than duplicate
	Save(ctx context.Context, template *Template) error

	// UpdateImageURL sets the resolved preview image for a template
	UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error

	// Count returns the total count of templates matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
