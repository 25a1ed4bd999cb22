package models

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/podsync/backend/internal/domain/design"
)

// TemplateModel is the persistence model for design templates
type TemplateModel struct {
	BaseModel
	ExternalTemplateID int64      `gorm:"not null;uniqueIndex"`
	ProductTitle       string     `gorm:"type:varchar(255);not null"`
	VariantIDs         string     `gorm:"type:jsonb;default:'[]'"`
	ImageURL           *string    `gorm:"type:text"`
	OwnerUserID        *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for TemplateModel
func (TemplateModel) TableName() string {
	return "design_templates"
}

// ToDomain converts the persistence model to a domain template
func (m *TemplateModel) ToDomain() (*design.Template, error) {
	var variantIDs []int64
	if m.VariantIDs != "" {
		if err := json.Unmarshal([]byte(m.VariantIDs), &variantIDs); err != nil {
			return nil, err
		}
	}

	return &design.Template{
		BaseEntity:         m.BaseModel.ToDomain(),
		ExternalTemplateID: m.ExternalTemplateID,
		ProductTitle:       m.ProductTitle,
		VariantIDs:         variantIDs,
		ImageURL:           m.ImageURL,
		OwnerUserID:        m.OwnerUserID,
	}, nil
}

// FromDomain populates the persistence model from a domain template
func (m *TemplateModel) FromDomain(t *design.Template) error {
	variantIDs, err := json.Marshal(t.VariantIDs)
	if err != nil {
		return err
	}

	m.FromDomainBaseEntity(t.BaseEntity)
	m.ExternalTemplateID = t.ExternalTemplateID
	m.ProductTitle = t.ProductTitle
	m.VariantIDs = string(variantIDs)
	m.ImageURL = t.ImageURL
	m.OwnerUserID = t.OwnerUserID
	return nil
}
