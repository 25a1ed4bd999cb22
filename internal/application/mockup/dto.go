package mockup

import (
	"time"

	"github.com/podsync/backend/internal/domain/mockup"
)

// CreateTaskRequest submits a render task for a design template
type CreateTaskRequest struct {
	TemplateID string  `json:"template_id" binding:"required,uuid"`
	VariantIDs []int64 `json:"variant_ids"`
	Format     string  `json:"format"`
	Width      int     `json:"width"`
}

// TaskResponse is the outward representation of a render task
type TaskResponse struct {
	ID               string     `json:"id"`
	TaskKey          string     `json:"task_key"`
	CatalogProductID int64      `json:"catalog_product_id"`
	VariantIDs       []int64    `json:"variant_ids"`
	Status           string     `json:"status"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// MockupDTO is one rendered mockup image
type MockupDTO struct {
	MockupURL   string          `json:"mockup_url"`
	Label       string          `json:"label"`
	VariantIDs  []int64         `json:"variant_ids"`
	ExtraImages []ExtraImageDTO `json:"extra_images,omitempty"`
}

// ExtraImageDTO is a secondary rendered image
type ExtraImageDTO struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// PrintfileDTO is one print-ready file
type PrintfileDTO struct {
	URL        string  `json:"url"`
	VariantIDs []int64 `json:"variant_ids"`
}

// ResultResponse is the stored outcome of a completed task
type ResultResponse struct {
	TaskKey    string         `json:"task_key"`
	Mockups    []MockupDTO    `json:"mockups"`
	Printfiles []PrintfileDTO `json:"printfiles,omitempty"`
}

func toResultResponse(result *mockup.Result) *ResultResponse {
	resp := &ResultResponse{TaskKey: result.TaskKey}
	for _, m := range result.Mockups {
		dto := MockupDTO{
			MockupURL:  m.MockupURL,
			Label:      m.Label,
			VariantIDs: m.VariantIDs,
		}
		for _, e := range m.ExtraImages {
			dto.ExtraImages = append(dto.ExtraImages, ExtraImageDTO{URL: e.URL, Label: e.Label})
		}
		resp.Mockups = append(resp.Mockups, dto)
	}
	for _, p := range result.Printfiles {
		resp.Printfiles = append(resp.Printfiles, PrintfileDTO{URL: p.URL, VariantIDs: p.VariantIDs})
	}
	return resp
}

func toTaskResponse(task *mockup.Task) *TaskResponse {
	return &TaskResponse{
		ID:               task.ID.String(),
		TaskKey:          task.TaskKey,
		CatalogProductID: task.CatalogProductID,
		VariantIDs:       task.VariantIDs,
		Status:           task.Status.String(),
		ErrorMessage:     task.ErrorMessage,
		CompletedAt:      task.CompletedAt,
		CreatedAt:        task.CreatedAt,
	}
}
