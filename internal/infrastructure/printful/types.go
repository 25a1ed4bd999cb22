package printful

import "fmt"

// apiResponse is the envelope every endpoint wraps its payload in
type apiResponse struct {
	Code  int       `json:"code"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// IsSuccess reports whether the envelope carries a 2xx code
func (r *apiResponse) IsSuccess() bool {
	return r.Code >= 200 && r.Code < 300
}

// ErrorMessage returns the envelope error text, or a generic fallback
func (r *apiResponse) ErrorMessage() string {
	if r.Error != nil && r.Error.Message != "" {
		return r.Error.Message
	}
	return fmt.Sprintf("code %d", r.Code)
}

type templateResponse struct {
	apiResponse
	Result templateResult `json:"result"`
}

type templateResult struct {
	ID                  int64               `json:"id"`
	ProductID           int64               `json:"product_id"`
	Title               string              `json:"title"`
	AvailableVariantIDs []int64             `json:"available_variant_ids"`
	MockupFileURL       string              `json:"mockup_file_url"`
	Placements          []templatePlacement `json:"placements"`
}

type templatePlacement struct {
	Placement string `json:"placement"`
	ImageURL  string `json:"image_url"`
	Technique string `json:"technique"`
}

type catalogVariantResponse struct {
	apiResponse
	Result catalogVariantResult `json:"result"`
}

type catalogVariantResult struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	Currency string `json:"currency"`
}

type availabilityResponse struct {
	apiResponse
	Result availabilityResult `json:"result"`
}

type availabilityResult struct {
	VariantID      int64               `json:"variant_id"`
	SellingRegions []sellingRegionItem `json:"selling_regions"`
}

type sellingRegionItem struct {
	Name         string `json:"name"`
	Availability string `json:"availability"`
}

type pricesResponse struct {
	apiResponse
	Result pricesResult `json:"result"`
}

type pricesResult struct {
	VariantID  int64           `json:"variant_id"`
	Techniques []techniqueItem `json:"techniques"`
}

type techniqueItem struct {
	TechniqueKey string `json:"technique_key"`
	Price        string `json:"price"`
}

type mockupTaskRequest struct {
	VariantIDs []int64          `json:"variant_ids"`
	Files      []mockupFileItem `json:"files"`
	Format     string           `json:"format,omitempty"`
	Width      int              `json:"width,omitempty"`
	StyleIDs   []int64          `json:"mockup_style_ids,omitempty"`
}

type mockupFileItem struct {
	Placement string `json:"placement"`
	ImageURL  string `json:"image_url"`
}

type mockupTaskResponse struct {
	apiResponse
	Result mockupTaskResult `json:"result"`
}

type mockupTaskResult struct {
	TaskKey    string          `json:"task_key"`
	Status     string          `json:"status"`
	Error      string          `json:"error"`
	Mockups    []mockupItem    `json:"mockups"`
	Printfiles []printfileItem `json:"printfiles"`
}

type mockupItem struct {
	Placement  string           `json:"placement"`
	VariantIDs []int64          `json:"variant_ids"`
	MockupURL  string           `json:"mockup_url"`
	Extra      []extraImageItem `json:"extra"`
}

type extraImageItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type printfileItem struct {
	VariantIDs []int64 `json:"variant_ids"`
	URL        string  `json:"url"`
}

type syncProductRequest struct {
	SyncProduct  syncProductItem   `json:"sync_product"`
	SyncVariants []syncVariantItem `json:"sync_variants"`
}

type syncProductItem struct {
	ExternalID string `json:"external_id,omitempty"`
	Name       string `json:"name"`
	Thumbnail  string `json:"thumbnail,omitempty"`
}

type syncVariantItem struct {
	ExternalID  string         `json:"external_id,omitempty"`
	VariantID   int64          `json:"variant_id"`
	RetailPrice string         `json:"retail_price"`
	Files       []syncFileItem `json:"files"`
}

type syncFileItem struct {
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

type syncProductResponse struct {
	apiResponse
	Result syncProductResult `json:"result"`
}

type syncProductResult struct {
	ID int64 `json:"id"`
}
