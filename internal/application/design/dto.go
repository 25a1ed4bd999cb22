package design

import "time"

// ImportTemplateRequest asks for a provider template to be imported
type ImportTemplateRequest struct {
	ExternalTemplateID int64 `json:"external_template_id" binding:"required,gt=0"`
}

// TemplateResponse is the outward representation of a design template
type TemplateResponse struct {
	ID                 string    `json:"id"`
	ExternalTemplateID int64     `json:"external_template_id"`
	ProductTitle       string    `json:"product_title"`
	VariantIDs         []int64   `json:"variant_ids"`
	ImageURL           *string   `json:"image_url,omitempty"`
	OwnerUserID        string    `json:"owner_user_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ListTemplatesRequest is the input for template listing
type ListTemplatesRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// ListTemplatesResponse is a page of templates with the total count
type ListTemplatesResponse struct {
	Items  []TemplateResponse `json:"items"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
