package design

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/podsync/backend/internal/domain/shared"
)

// Template represents a saved design configuration tied to a provider-side
// product template. The preview image may be absent at creation time and is
// filled in later by the background resolver.
type Template struct {
	shared.BaseEntity
	ExternalTemplateID int64     // Provider-side product template ID
	ProductTitle       string    // Title used for the storefront product
	VariantIDs         []int64   // Provider variant IDs available for this template
	ImageURL           *string   // Preview mockup URL, nil until resolved
	OwnerUserID        *uuid.UUID
}

// NewTemplate creates a new design template
func NewTemplate(externalTemplateID int64, productTitle string, variantIDs []int64) (*Template, error) {
	if externalTemplateID <= 0 {
		return nil, shared.NewDomainError("INVALID_TEMPLATE_ID", "External template ID must be positive")
	}
	productTitle = strings.TrimSpace(productTitle)
	if productTitle == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if len(variantIDs) == 0 {
		return nil, shared.NewDomainError("INVALID_VARIANTS", "Template must have at least one variant")
	}

	return &Template{
		BaseEntity:         shared.NewBaseEntity(),
		ExternalTemplateID: externalTemplateID,
		ProductTitle:       productTitle,
		VariantIDs:         variantIDs,
	}, nil
}

// AssignOwner records the user that created the template
func (t *Template) AssignOwner(userID uuid.UUID) {
	t.OwnerUserID = &userID
	t.UpdatedAt = time.Now()
}

// ResolveImage records the preview image URL once the provider asset exists
func (t *Template) ResolveImage(url string) error {
	if url == "" {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot be empty")
	}
	t.ImageURL = &url
	t.UpdatedAt = time.Now()
	return nil
}

// HasImage returns true if the preview image has been resolved
func (t *Template) HasImage() bool {
	return t.ImageURL != nil && *t.ImageURL != ""
}

// HasVariant returns true if the given provider variant ID belongs to this template
func (t *Template) HasVariant(variantID int64) bool {
	for _, id := range t.VariantIDs {
		if id == variantID {
			return true
		}
	}
	return false
}
