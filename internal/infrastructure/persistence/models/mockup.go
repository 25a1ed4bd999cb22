package models

import (
	"encoding/json"
	"time"

	"github.com/podsync/backend/internal/domain/mockup"
)

// MockupTaskModel is the persistence model for mockup render tasks
type MockupTaskModel struct {
	BaseModel
	TaskKey          string     `gorm:"type:varchar(128);not null;uniqueIndex"`
	CatalogProductID int64      `gorm:"not null"`
	VariantIDs       string     `gorm:"type:jsonb;default:'[]'"`
	Status           string     `gorm:"type:varchar(20);not null;index"`
	ErrorMessage     string     `gorm:"type:text"`
	CompletedAt      *time.Time
}

// TableName returns the table name for MockupTaskModel
func (MockupTaskModel) TableName() string {
	return "mockup_tasks"
}

// ToDomain converts the persistence model to a domain task
func (m *MockupTaskModel) ToDomain() (*mockup.Task, error) {
	var variantIDs []int64
	if m.VariantIDs != "" {
		if err := json.Unmarshal([]byte(m.VariantIDs), &variantIDs); err != nil {
			return nil, err
		}
	}

	return &mockup.Task{
		BaseEntity:       m.BaseModel.ToDomain(),
		TaskKey:          m.TaskKey,
		CatalogProductID: m.CatalogProductID,
		VariantIDs:       variantIDs,
		Status:           mockup.TaskStatus(m.Status),
		ErrorMessage:     m.ErrorMessage,
		CompletedAt:      m.CompletedAt,
	}, nil
}

// FromDomain populates the persistence model from a domain task
func (m *MockupTaskModel) FromDomain(t *mockup.Task) error {
	variantIDs, err := json.Marshal(t.VariantIDs)
	if err != nil {
		return err
	}

	m.FromDomainBaseEntity(t.BaseEntity)
	m.TaskKey = t.TaskKey
	m.CatalogProductID = t.CatalogProductID
	m.VariantIDs = string(variantIDs)
	m.Status = t.Status.String()
	m.ErrorMessage = t.ErrorMessage
	m.CompletedAt = t.CompletedAt
	return nil
}

// MockupResultModel is the persistence model for completed-task results.
// Mockups and printfiles are stored as JSON documents; the result is written
// once and never updated.
type MockupResultModel struct {
	BaseModel
	TaskKey    string `gorm:"type:varchar(128);not null;uniqueIndex"`
	Mockups    string `gorm:"type:jsonb;not null"`
	Printfiles string `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for MockupResultModel
func (MockupResultModel) TableName() string {
	return "mockup_results"
}

// ToDomain converts the persistence model to a domain result
func (m *MockupResultModel) ToDomain() (*mockup.Result, error) {
	var mockups []mockup.Mockup
	if err := json.Unmarshal([]byte(m.Mockups), &mockups); err != nil {
		return nil, err
	}

	var printfiles []mockup.Printfile
	if m.Printfiles != "" {
		if err := json.Unmarshal([]byte(m.Printfiles), &printfiles); err != nil {
			return nil, err
		}
	}

	return &mockup.Result{
		BaseEntity: m.BaseModel.ToDomain(),
		TaskKey:    m.TaskKey,
		Mockups:    mockups,
		Printfiles: printfiles,
	}, nil
}

// FromDomain populates the persistence model from a domain result
func (m *MockupResultModel) FromDomain(r *mockup.Result) error {
	mockups, err := json.Marshal(r.Mockups)
	if err != nil {
		return err
	}
	printfiles, err := json.Marshal(r.Printfiles)
	if err != nil {
		return err
	}

	m.FromDomainBaseEntity(r.BaseEntity)
	m.TaskKey = r.TaskKey
	m.Mockups = string(mockups)
	m.Printfiles = string(printfiles)
	return nil
}
