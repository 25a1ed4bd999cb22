package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/podsync/backend/internal/domain/design"
	"github.com/podsync/backend/internal/domain/shared"
	"github.com/podsync/backend/internal/infrastructure/persistence/models"
)

// GormTemplateRepository implements design.TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindByID finds a template by ID
func (r *GormTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*design.Template, error) {
	var model models.TemplateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByExternalID finds a template by its provider-side template ID
func (r *GormTemplateRepository) FindByExternalID(ctx context.Context, externalTemplateID int64) (*design.Template, error) {
	var model models.TemplateModel
	if err := r.db.WithContext(ctx).
		First(&model, "external_template_id = ?", externalTemplateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll finds all templates with optional filtering
func (r *GormTemplateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]design.Template, error) {
	filter.Normalize()

	var templateModels []models.TemplateModel
	if err := r.db.WithContext(ctx).
		Order(filter.OrderBy).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&templateModels).Error; err != nil {
		return nil, err
	}

	return toDomainTemplates(templateModels)
}

// FindByOwner finds all templates created by a specific user
func (r *GormTemplateRepository) FindByOwner(ctx context.Context, ownerUserID uuid.UUID, filter shared.Filter) ([]design.Template, error) {
	filter.Normalize()

	var templateModels []models.TemplateModel
	if err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Order(filter.OrderBy).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&templateModels).Error; err != nil {
		return nil, err
	}

	return toDomainTemplates(templateModels)
}

// Save saves a template, upserting on the external template ID so concurrent
// imports of the same provider template converge on one row
func (r *GormTemplateRepository) Save(ctx context.Context, template *design.Template) error {
	var model models.TemplateModel
	if err := model.FromDomain(template); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_template_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"product_title", "variant_ids", "image_url", "owner_user_id", "updated_at",
			}),
		}).
		Create(&model).Error
}

// UpdateImageURL sets the resolved preview image for a template
func (r *GormTemplateRepository) UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	result := r.db.WithContext(ctx).
		Model(&models.TemplateModel{}).
		Where("id = ?", id).
		Update("image_url", imageURL)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the total count of templates matching the filter
func (r *GormTemplateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TemplateModel{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toDomainTemplates(templateModels []models.TemplateModel) ([]design.Template, error) {
	templates := make([]design.Template, 0, len(templateModels))
	for i := range templateModels {
		t, err := templateModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, nil
}
