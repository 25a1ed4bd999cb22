package integration

import (
	"context"
	"errors"
)

// ---------------------------------------------------------------------------
// Storefront Errors
// ---------------------------------------------------------------------------

var (
	ErrStorefrontUnavailable     = errors.New("integration: storefront temporarily unavailable")
	ErrStorefrontRequestFailed   = errors.New("integration: storefront request failed")
	ErrStorefrontInvalidResponse = errors.New("integration: invalid storefront response")
	ErrProductCreateFailed       = errors.New("integration: storefront product creation failed")
	ErrVariantUpdateFailed       = errors.New("integration: storefront variant update failed")
	ErrPublishFailed             = errors.New("integration: storefront publish failed")
)

// ---------------------------------------------------------------------------
// Storefront Value Objects
// ---------------------------------------------------------------------------

// ProductOption is a storefront product option with its ordered values
type ProductOption struct {
	// Name is the option name (e.g. "Color", "Size")
	Name string
	// Values are the distinct option values in first-seen order
	Values []string
}

// OptionValue pairs an option name with the value a variant takes
type OptionValue struct {
	OptionName string
	Value      string
}

// VariantSpec is the derived, not-yet-created representation of a storefront
// variant. ProviderVariantID is the cross-platform join key; it is written to
// the variant's barcode field during assembly and read back by media matching.
type VariantSpec struct {
	OptionValues      []OptionValue
	Price             string
	SKU               string
	ProviderVariantID int64
}

// MediaInput is one image to attach at product creation. Alt is the label
// later read back during media matching: comma-separated provider variant
// IDs for main mockups, or a label containing "extra" for secondary images.
type MediaInput struct {
	URL string
	Alt string
}

// ProductInput describes a storefront product to create
type ProductInput struct {
	Title   string
	Tags    []string
	Options []ProductOption
	Media   []MediaInput
}

// CreatedProduct is the storefront's response to product creation. The
// platform always auto-creates exactly one variant for the first option
// combination.
type CreatedProduct struct {
	ID             string
	FirstVariantID string
}

// CreatedVariant is one variant returned from a bulk creation chunk
type CreatedVariant struct {
	ID      string
	Barcode string
}

// UserError is a structured per-field error reported inside an otherwise
// successful storefront mutation response
type UserError struct {
	Field   string
	Message string
}

// BulkResult is the outcome of one bulk variant creation chunk. UserErrors
// are partial failures; callers must check accumulated results rather than
// assume all-or-nothing success.
type BulkResult struct {
	Variants   []CreatedVariant
	UserErrors []UserError
}

// VariantRef is an ephemeral pagination-fetched variant record used only for
// the matching pass
type VariantRef struct {
	// ID is the storefront variant ID
	ID string
	// Barcode carries the provider variant ID set during assembly
	Barcode string
}

// MediaAssetRef is an ephemeral pagination-fetched media record used only for
// the matching pass
type MediaAssetRef struct {
	// ID is the storefront media ID
	ID string
	// Label is the media alt text carrying comma-separated variant IDs
	Label string
}

// VariantPage is one page of a forward-paginated variant listing
type VariantPage struct {
	Items       []VariantRef
	EndCursor   string
	HasNextPage bool
}

// MediaPage is one page of a forward-paginated media listing
type MediaPage struct {
	Items       []MediaAssetRef
	EndCursor   string
	HasNextPage bool
}

// MediaPairing attaches one media asset to one variant
type MediaPairing struct {
	VariantID string
	MediaID   string
}

// ---------------------------------------------------------------------------
// Storefront Port Interface
// ---------------------------------------------------------------------------

// Storefront defines the port interface for the e-commerce storefront.
// Bulk operations take a single chunk/batch; chunking to platform limits is
// the caller's responsibility.
type Storefront interface {
	// CreateProduct creates a product with options and initial media
	CreateProduct(ctx context.Context, input *ProductInput) (*CreatedProduct, error)

	// UpdateVariant overwrites price, SKU and barcode of an existing variant
	UpdateVariant(ctx context.Context, productID, variantID string, spec VariantSpec) error

	// CreateVariants bulk-creates one chunk of variants on a product
	CreateVariants(ctx context.Context, productID string, specs []VariantSpec) (*BulkResult, error)

	// ListVariants fetches one page of the product's variants
	ListVariants(ctx context.Context, productID, cursor string) (*VariantPage, error)

	// ListMedia fetches one page of the product's media assets
	ListMedia(ctx context.Context, productID, cursor string) (*MediaPage, error)

	// AppendVariantMedia submits one batch of variant-media pairings and
	// returns any per-pairing user errors
	AppendVariantMedia(ctx context.Context, productID string, pairings []MediaPairing) ([]UserError, error)

	// PublishProduct makes the product visible in the default sales channel
	PublishProduct(ctx context.Context, productID string) error
}
