package integration

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/podsync/backend/internal/domain/mockup"
)

// ---------------------------------------------------------------------------
// Provider Errors
// ---------------------------------------------------------------------------

var (
	ErrProviderUnavailable     = errors.New("integration: provider temporarily unavailable")
	ErrProviderRequestFailed   = errors.New("integration: provider request failed")
	ErrProviderInvalidResponse = errors.New("integration: invalid provider response")
	ErrProviderRateLimited     = errors.New("integration: provider rate limited")
	ErrTemplateNotFound        = errors.New("integration: provider template not found")
	ErrMockupTaskNotFound      = errors.New("integration: mockup task not found")
	ErrMockupTaskFailed        = errors.New("integration: mockup task failed")
	ErrSyncFailed              = errors.New("integration: synced product submission failed")
)

// ---------------------------------------------------------------------------
// Provider Value Objects
// ---------------------------------------------------------------------------

// Placement is a print area on a provider template with its design file
type Placement struct {
	// Placement is the area identifier (e.g. "front", "back")
	Placement string
	// ImageURL is the design file applied to the area
	ImageURL string
	// Technique is the print technique for the area
	Technique string
}

// TemplateData is a provider-side product template as fetched
type TemplateData struct {
	// ID is the provider template ID
	ID int64
	// CatalogProductID is the catalog product the template applies to
	CatalogProductID int64
	// Title is the template title
	Title string
	// AvailableVariantIDs lists the provider variants the template supports
	AvailableVariantIDs []int64
	// MockupFileURL is the preview mockup, empty when not yet rendered
	MockupFileURL string
	// Placements are the configured print areas
	Placements []Placement
}

// VariantTechnique is per-technique pricing for an enriched variant
type VariantTechnique struct {
	// Key identifies the technique (e.g. "dtg", "embroidery")
	Key string
	// PriceBase is the base fulfillment cost for the technique
	PriceBase decimal.Decimal
}

// EnrichedVariant merges base variant data, availability and pricing
// fetched from three independent provider endpoints.
type EnrichedVariant struct {
	// ID is the provider variant ID, the cross-platform join key
	ID int64
	// Name is the full variant name
	Name string
	// ColorLabel is the variant color, may be blank
	ColorLabel string
	// SizeLabel is the variant size, may be blank
	SizeLabel string
	// PriceBase is the base fulfillment cost
	PriceBase decimal.Decimal
	// Currency is the price currency
	Currency string
	// SellingRegions lists regions where the variant can be sold
	SellingRegions []string
	// Techniques carries per-technique pricing
	Techniques []VariantTechnique
}

// EnrichmentFailure carries a variant ID whose enrichment failed and why
type EnrichmentFailure struct {
	VariantID int64
	Err       error
}

// CatalogResult is the outcome of a catalog enrichment call. Callers decide
// whether a partial catalog (some IDs failed) is acceptable.
type CatalogResult struct {
	Variants []EnrichedVariant
	Failures []EnrichmentFailure
}

// MockupFile is a design file positioned on a print area for rendering
type MockupFile struct {
	Placement string
	ImageURL  string
}

// MockupRenderRequest describes a mockup rendering task submission
type MockupRenderRequest struct {
	CatalogProductID int64
	VariantIDs       []int64
	Files            []MockupFile
	Format           string
	Width            int
	StyleIDs         []int64
}

// TaskPollStatus is the provider-reported status of a render task
type TaskPollStatus string

const (
	TaskPollPending   TaskPollStatus = "pending"
	TaskPollCompleted TaskPollStatus = "completed"
	TaskPollFailed    TaskPollStatus = "failed"
)

// MockupTaskState is one observation of a render task via polling.
// Mockups and Printfiles are populated only when Status is completed.
type MockupTaskState struct {
	TaskKey    string
	Status     TaskPollStatus
	Error      string
	Mockups    []mockup.Mockup
	Printfiles []mockup.Printfile
}

// SyncedFile attaches a print file to a synced variant
type SyncedFile struct {
	URL  string
	Type string
}

// SyncedVariant mirrors one storefront variant in the provider sync payload
type SyncedVariant struct {
	// ExternalID is the storefront variant ID
	ExternalID string
	// VariantID is the provider variant ID resolved from the storefront variant
	VariantID int64
	// RetailPrice is the storefront selling price
	RetailPrice string
	// Files are the print files whose variant list covers VariantID
	Files []SyncedFile
}

// SyncedProductRequest mirrors a storefront product back to the provider so
// that future orders route to the right fulfillment SKU.
type SyncedProductRequest struct {
	// ExternalID is the storefront product ID
	ExternalID string
	// Name is the storefront product title
	Name string
	// ThumbnailURL is the product thumbnail
	ThumbnailURL string
	// Variants are the synced variant mappings
	Variants []SyncedVariant
}

// Validate checks the sync payload before submission
func (r *SyncedProductRequest) Validate() error {
	if r.ExternalID == "" {
		return errors.New("integration: synced product requires an external ID")
	}
	if r.Name == "" {
		return errors.New("integration: synced product requires a name")
	}
	if len(r.Variants) == 0 {
		return errors.New("integration: synced product requires at least one variant")
	}
	for _, v := range r.Variants {
		if v.VariantID <= 0 {
			return errors.New("integration: synced variant requires a provider variant ID")
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// PrintProvider Port Interface
// ---------------------------------------------------------------------------

// PrintProvider defines the port interface for the print-on-demand provider.
// It is defined in the domain layer; the concrete REST adapter lives in the
// infrastructure layer.
type PrintProvider interface {
	// GetTemplate fetches a product template by its provider ID
	GetTemplate(ctx context.Context, templateID int64) (*TemplateData, error)

	// GetCatalogVariants enriches the given variant IDs by merging base data,
	// availability and pricing. IDs beyond the adapter's cap are ignored.
	GetCatalogVariants(ctx context.Context, variantIDs []int64) (*CatalogResult, error)

	// CreateMockupTask submits a render task and returns the provider task key
	CreateMockupTask(ctx context.Context, req *MockupRenderRequest) (string, error)

	// GetMockupTask fetches the current state of a render task
	GetMockupTask(ctx context.Context, taskKey string) (*MockupTaskState, error)

	// CreateSyncedProduct submits the storefront mirror payload and returns
	// the provider-side synced product ID
	CreateSyncedProduct(ctx context.Context, req *SyncedProductRequest) (int64, error)
}
