package listing

// CreateProductRequest assembles a storefront product from a design template
// and a completed mockup render
type CreateProductRequest struct {
	TemplateID string   `json:"template_id" binding:"required,uuid"`
	TaskKey    string   `json:"task_key" binding:"required"`
	Tags       []string `json:"tags"`
}

// UserErrorDTO is a partial failure reported by the storefront
type UserErrorDTO struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// CatalogVariantDTO is an enriched provider catalog variant
type CatalogVariantDTO struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Color          string   `json:"color,omitempty"`
	Size           string   `json:"size,omitempty"`
	BaseCost       string   `json:"base_cost"`
	Currency       string   `json:"currency"`
	SellingRegions []string `json:"selling_regions,omitempty"`
}

// CatalogVariantsResponse is a batch of enriched catalog variants
type CatalogVariantsResponse struct {
	Variants []CatalogVariantDTO `json:"variants"`
}

// ProductResponse summarizes one assembly run
type ProductResponse struct {
	ProductID       string         `json:"product_id"`
	Title           string         `json:"title"`
	VariantCount    int            `json:"variant_count"`
	MediaCount      int            `json:"media_count"`
	MatchedPairings int            `json:"matched_pairings"`
	Published       bool           `json:"published"`
	UserErrors      []UserErrorDTO `json:"user_errors,omitempty"`
}
