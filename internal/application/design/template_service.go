package design

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/podsync/backend/internal/domain/design"
	"github.com/podsync/backend/internal/domain/integration"
	"github.com/podsync/backend/internal/domain/shared"
)

// ResolverConfig tunes the background preview image resolver
type ResolverConfig struct {
	// BaseDelay is the first backoff delay
	BaseDelay time.Duration
	// MaxDelay caps the backoff
	MaxDelay time.Duration
	// MaxAttempts bounds the re-fetch attempts
	MaxAttempts int
}

// TemplateService imports provider templates and keeps their preview images
// up to date
type TemplateService struct {
	templateRepo design.TemplateRepository
	provider     integration.PrintProvider
	resolver     ResolverConfig
	logger       *zap.Logger
	sleep        func(context.Context, time.Duration) error
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(
	templateRepo design.TemplateRepository,
	provider integration.PrintProvider,
	resolver ResolverConfig,
	logger *zap.Logger,
) *TemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{
		templateRepo: templateRepo,
		provider:     provider,
		resolver:     resolver,
		logger:       logger,
		sleep:        sleepContext,
	}
}

// sleepContext waits for the delay or the context, whichever ends first
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ImportTemplate fetches a provider template and upserts the local record.
// When the provider has not rendered the preview image yet, a detached
// background resolver keeps re-fetching until the image appears or the
// retry budget runs out; the import itself returns immediately.
func (s *TemplateService) ImportTemplate(ctx context.Context, req ImportTemplateRequest, ownerUserID *uuid.UUID) (*TemplateResponse, error) {
	data, err := s.provider.GetTemplate(ctx, req.ExternalTemplateID)
	if err != nil {
		if errors.Is(err, integration.ErrTemplateNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Provider template not found")
		}
		return nil, fmt.Errorf("failed to fetch provider template: %w", err)
	}

	template, err := design.NewTemplate(data.ID, data.Title, data.AvailableVariantIDs)
	if err != nil {
		return nil, err
	}
	if ownerUserID != nil {
		template.AssignOwner(*ownerUserID)
	}
	if data.MockupFileURL != "" {
		if err := template.ResolveImage(data.MockupFileURL); err != nil {
			return nil, err
		}
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	if !template.HasImage() {
		go s.resolveImage(context.Background(), template.ID, template.ExternalTemplateID)
	}

	s.logger.Info("template imported",
		zap.String("id", template.ID.String()),
		zap.Int64("external_template_id", template.ExternalTemplateID),
		zap.Bool("image_resolved", template.HasImage()))

	return toTemplateResponse(template), nil
}

// GetTemplate retrieves a template by ID
func (s *TemplateService) GetTemplate(ctx context.Context, id uuid.UUID) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return toTemplateResponse(template), nil
}

// ListTemplates retrieves a paginated list of templates
func (s *TemplateService) ListTemplates(ctx context.Context, req ListTemplatesRequest) (*ListTemplatesResponse, error) {
	filter := shared.Filter{Limit: req.Limit, Offset: req.Offset}
	filter.Normalize()

	templates, err := s.templateRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	total, err := s.templateRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count templates: %w", err)
	}

	items := make([]TemplateResponse, len(templates))
	for i := range templates {
		items[i] = *toTemplateResponse(&templates[i])
	}
	return &ListTemplatesResponse{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// resolveImage re-fetches the provider template until the preview image
// appears, backing off between attempts.
func (s *TemplateService) resolveImage(ctx context.Context, templateID uuid.UUID, externalTemplateID int64) {
	for attempt := 1; attempt <= s.resolver.MaxAttempts; attempt++ {
		if err := s.sleep(ctx, s.resolverDelay(attempt)); err != nil {
			return
		}

		data, err := s.provider.GetTemplate(ctx, externalTemplateID)
		if err != nil {
			s.logger.Warn("image resolver fetch failed",
				zap.Int64("external_template_id", externalTemplateID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}
		if data.MockupFileURL == "" {
			continue
		}

		if err := s.templateRepo.UpdateImageURL(ctx, templateID, data.MockupFileURL); err != nil {
			s.logger.Error("failed to store resolved image",
				zap.String("template_id", templateID.String()),
				zap.Error(err))
			return
		}

		s.logger.Info("template image resolved",
			zap.String("template_id", templateID.String()),
			zap.Int("attempt", attempt))
		return
	}

	s.logger.Warn("template image not resolved within retry budget",
		zap.Int64("external_template_id", externalTemplateID),
		zap.Int("attempts", s.resolver.MaxAttempts))
}

// resolverDelay grows by a factor of 1.5 per attempt, capped at MaxDelay
func (s *TemplateService) resolverDelay(attempt int) time.Duration {
	delay := float64(s.resolver.BaseDelay)
	for i := 1; i < attempt; i++ {
		delay *= 1.5
	}
	if capped := float64(s.resolver.MaxDelay); delay > capped {
		delay = capped
	}
	return time.Duration(delay)
}

func toTemplateResponse(t *design.Template) *TemplateResponse {
	resp := &TemplateResponse{
		ID:                 t.ID.String(),
		ExternalTemplateID: t.ExternalTemplateID,
		ProductTitle:       t.ProductTitle,
		VariantIDs:         t.VariantIDs,
		ImageURL:           t.ImageURL,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
	if t.OwnerUserID != nil {
		resp.OwnerUserID = t.OwnerUserID.String()
	}
	return resp
}
