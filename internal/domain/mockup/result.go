package mockup

import (
	"github.com/podsync/backend/internal/domain/shared"
)

// ExtraImage is an additional render (e.g. back view) attached to a mockup
type ExtraImage struct {
	URL   string
	Label string
}

// Mockup is a single rendered preview image covering one or more variants
type Mockup struct {
	MockupURL   string
	Label       string
	VariantIDs  []int64
	ExtraImages []ExtraImage
}

// Printfile is a print-ready file covering one or more variants
type Printfile struct {
	URL        string
	VariantIDs []int64
}

// Result is the payload fetched exactly once when a task completes.
// It is read-only afterward.
type Result struct {
	shared.BaseEntity
	TaskKey    string
	Mockups    []Mockup
	Printfiles []Printfile
}

// NewResult creates a completed-task result keyed by the task key
func NewResult(taskKey string, mockups []Mockup, printfiles []Printfile) (*Result, error) {
	if taskKey == "" {
		return nil, shared.NewDomainError("INVALID_TASK_KEY", "Task key cannot be empty")
	}
	if len(mockups) == 0 {
		return nil, shared.NewDomainError("EMPTY_RESULT", "Result must contain at least one mockup")
	}
	return &Result{
		BaseEntity: shared.NewBaseEntity(),
		TaskKey:    taskKey,
		Mockups:    mockups,
		Printfiles: printfiles,
	}, nil
}

// PrintfileForVariant returns the print file covering the given variant, if any
func (r *Result) PrintfileForVariant(variantID int64) (*Printfile, bool) {
	for i := range r.Printfiles {
		for _, id := range r.Printfiles[i].VariantIDs {
			if id == variantID {
				return &r.Printfiles[i], true
			}
		}
	}
	return nil, false
}

// ImageURLs returns all mockup URLs in order, main images first
func (r *Result) ImageURLs() []string {
	urls := make([]string, 0, len(r.Mockups))
	for _, m := range r.Mockups {
		urls = append(urls, m.MockupURL)
	}
	for _, m := range r.Mockups {
		for _, extra := range m.ExtraImages {
			urls = append(urls, extra.URL)
		}
	}
	return urls
}
