package listing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/podsync/backend/internal/domain/design"
	"github.com/podsync/backend/internal/domain/integration"
	"github.com/podsync/backend/internal/domain/mockup"
	"github.com/podsync/backend/internal/domain/shared"
	"github.com/podsync/backend/internal/infrastructure/cache"
)

// Config tunes the assembly pipeline
type Config struct {
	// Margin is the target profit margin for pricing
	Margin decimal.Decimal
	// VariantChunk caps variants per bulk-create call
	VariantChunk int
	// MediaBatch caps pairings per append-media call
	MediaBatch int
}

// ProductService assembles storefront products from design templates and
// completed mockup renders, then mirrors the result back to the provider.
type ProductService struct {
	templateRepo design.TemplateRepository
	taskRepo     mockup.TaskRepository
	resultRepo   mockup.ResultRepository
	provider     integration.PrintProvider
	storefront   integration.Storefront
	catalogCache cache.CatalogCache
	config       Config
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	templateRepo design.TemplateRepository,
	taskRepo mockup.TaskRepository,
	resultRepo mockup.ResultRepository,
	provider integration.PrintProvider,
	storefront integration.Storefront,
	catalogCache cache.CatalogCache,
	config Config,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		templateRepo: templateRepo,
		taskRepo:     taskRepo,
		resultRepo:   resultRepo,
		provider:     provider,
		storefront:   storefront,
		catalogCache: catalogCache,
		config:       config,
		logger:       logger,
	}
}

// CreateProduct runs the full assembly pipeline: enrich the catalog variants,
// derive options and variant specs, create the product with its mockup media,
// bulk-create the remaining variants, match media to variants, publish, and
// finally mirror the product back to the provider in the background.
//
// Enrichment, product creation and the first-variant update are fatal;
// everything after that accumulates partial failures instead of aborting.
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid template ID")
	}

	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}

	task, err := s.taskRepo.FindByTaskKey(ctx, req.TaskKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Render task not found")
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	if !task.IsCompleted() {
		return nil, shared.NewDomainError("INVALID_STATE",
			"Render task has not completed: "+task.Status.String())
	}

	result, err := s.resultRepo.FindByTaskKey(ctx, req.TaskKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Render result not available")
		}
		return nil, fmt.Errorf("failed to load result: %w", err)
	}

	variants, err := s.enrichVariants(ctx, task.VariantIDs)
	if err != nil {
		return nil, err
	}

	derived, err := integration.DeriveProduct(template.ExternalTemplateID, task.CatalogProductID, variants, s.config.Margin)
	if err != nil {
		return nil, fmt.Errorf("failed to derive product: %w", err)
	}

	created, err := s.storefront.CreateProduct(ctx, &integration.ProductInput{
		Title:   template.ProductTitle,
		Tags:    req.Tags,
		Options: derived.Options,
		Media:   buildMediaInputs(result),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	// the platform auto-creates the first variant; overwrite it with the
	// first derived spec so its price, SKU and barcode are correct
	if err := s.storefront.UpdateVariant(ctx, created.ID, created.FirstVariantID, derived.Specs[0]); err != nil {
		return nil, fmt.Errorf("failed to update first variant: %w", err)
	}

	var userErrors []UserErrorDTO
	createdCount := 1
	for _, chunk := range integration.Chunk(derived.Specs[1:], s.config.VariantChunk) {
		bulk, err := s.storefront.CreateVariants(ctx, created.ID, chunk)
		if err != nil {
			s.logger.Warn("variant chunk failed",
				zap.String("product_id", created.ID),
				zap.Int("chunk_size", len(chunk)),
				zap.Error(err))
			userErrors = append(userErrors, UserErrorDTO{Message: "variant creation failed: " + err.Error()})
			continue
		}
		createdCount += len(bulk.Variants)
		for _, ue := range bulk.UserErrors {
			userErrors = append(userErrors, UserErrorDTO{Field: ue.Field, Message: ue.Message})
		}
	}

	pairings, mediaCount, err := s.matchMedia(ctx, created.ID)
	if err != nil {
		s.logger.Warn("media matching failed",
			zap.String("product_id", created.ID),
			zap.Error(err))
		userErrors = append(userErrors, UserErrorDTO{Message: "media matching failed: " + err.Error()})
	}
	for _, batch := range integration.Chunk(pairings, s.config.MediaBatch) {
		batchErrors, err := s.storefront.AppendVariantMedia(ctx, created.ID, batch)
		if err != nil {
			s.logger.Warn("media batch failed",
				zap.String("product_id", created.ID),
				zap.Error(err))
			userErrors = append(userErrors, UserErrorDTO{Message: "media attachment failed: " + err.Error()})
			continue
		}
		for _, ue := range batchErrors {
			userErrors = append(userErrors, UserErrorDTO{Field: ue.Field, Message: ue.Message})
		}
	}

	published := true
	if err := s.storefront.PublishProduct(ctx, created.ID); err != nil {
		s.logger.Warn("publish failed",
			zap.String("product_id", created.ID),
			zap.Error(err))
		userErrors = append(userErrors, UserErrorDTO{Message: "publish failed: " + err.Error()})
		published = false
	}

	go s.mirrorToProvider(context.Background(), created.ID, template.ProductTitle, derived, result)

	s.logger.Info("product assembled",
		zap.String("product_id", created.ID),
		zap.Int("variants", createdCount),
		zap.Int("media", mediaCount),
		zap.Int("pairings", len(pairings)),
		zap.Int("user_errors", len(userErrors)))

	return &ProductResponse{
		ProductID:       created.ID,
		Title:           template.ProductTitle,
		VariantCount:    createdCount,
		MediaCount:      mediaCount,
		MatchedPairings: len(pairings),
		Published:       published,
		UserErrors:      userErrors,
	}, nil
}

// enrichVariants serves variants from the catalog cache and fetches the rest
// from the provider. The pipeline needs at least one enriched variant.
func (s *ProductService) enrichVariants(ctx context.Context, variantIDs []int64) ([]integration.EnrichedVariant, error) {
	hits, misses, err := s.catalogCache.Get(ctx, variantIDs)
	if err != nil {
		s.logger.Warn("catalog cache lookup failed", zap.Error(err))
		hits, misses = nil, variantIDs
	}

	variants := hits
	if len(misses) > 0 {
		fetched, err := s.provider.GetCatalogVariants(ctx, misses)
		if err != nil {
			return nil, fmt.Errorf("failed to enrich variants: %w", err)
		}
		for _, failure := range fetched.Failures {
			s.logger.Warn("variant enrichment failed",
				zap.Int64("variant_id", failure.VariantID),
				zap.Error(failure.Err))
		}
		if len(fetched.Variants) > 0 {
			if err := s.catalogCache.Set(ctx, fetched.Variants); err != nil {
				s.logger.Warn("catalog cache store failed", zap.Error(err))
			}
		}
		variants = append(variants, fetched.Variants...)
	}

	if len(variants) == 0 {
		return nil, shared.NewDomainError("UPSTREAM_UNAVAILABLE", "No catalog variants could be enriched")
	}
	return variants, nil
}

// GetCatalogVariants returns enriched catalog variants for the given provider
// variant IDs, served from the cache where possible.
func (s *ProductService) GetCatalogVariants(ctx context.Context, variantIDs []int64) (*CatalogVariantsResponse, error) {
	if len(variantIDs) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "No variant IDs given")
	}

	variants, err := s.enrichVariants(ctx, variantIDs)
	if err != nil {
		return nil, err
	}

	dtos := make([]CatalogVariantDTO, 0, len(variants))
	for _, v := range variants {
		dtos = append(dtos, CatalogVariantDTO{
			ID:             v.ID,
			Name:           v.Name,
			Color:          v.ColorLabel,
			Size:           v.SizeLabel,
			BaseCost:       v.PriceBase.StringFixed(2),
			Currency:       v.Currency,
			SellingRegions: v.SellingRegions,
		})
	}
	return &CatalogVariantsResponse{Variants: dtos}, nil
}

// matchMedia drains both paginated listings to the end, then pairs media to
// variants by the provider variant IDs embedded in media labels.
func (s *ProductService) matchMedia(ctx context.Context, productID string) ([]integration.MediaPairing, int, error) {
	var variants []integration.VariantRef
	cursor := ""
	for {
		page, err := s.storefront.ListVariants(ctx, productID, cursor)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list variants: %w", err)
		}
		variants = append(variants, page.Items...)
		if !page.HasNextPage {
			break
		}
		cursor = page.EndCursor
	}

	var media []integration.MediaAssetRef
	cursor = ""
	for {
		page, err := s.storefront.ListMedia(ctx, productID, cursor)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list media: %w", err)
		}
		media = append(media, page.Items...)
		if !page.HasNextPage {
			break
		}
		cursor = page.EndCursor
	}

	return integration.MatchMedia(variants, media), len(media), nil
}

// mirrorToProvider pushes the assembled product back to the provider so its
// order routing knows about the storefront SKUs. Best effort: failures are
// logged, never surfaced to the caller.
func (s *ProductService) mirrorToProvider(ctx context.Context, productID, title string, derived *integration.DerivedProduct, result *mockup.Result) {
	priceByVariant := make(map[int64]string, len(derived.Specs))
	for _, spec := range derived.Specs {
		priceByVariant[spec.ProviderVariantID] = spec.Price
	}

	var thumbnail string
	if urls := result.ImageURLs(); len(urls) > 0 {
		thumbnail = urls[0]
	}

	variants, err := s.collectSyncedVariants(ctx, productID, priceByVariant, result)
	if err != nil {
		s.logger.Error("failed to collect synced variants",
			zap.String("product_id", productID),
			zap.Error(err))
		return
	}

	syncID, err := s.provider.CreateSyncedProduct(ctx, &integration.SyncedProductRequest{
		ExternalID:   productID,
		Name:         title,
		ThumbnailURL: thumbnail,
		Variants:     variants,
	})
	if err != nil {
		s.logger.Error("synced product submission failed",
			zap.String("product_id", productID),
			zap.Error(err))
		return
	}

	s.logger.Info("synced product created",
		zap.String("product_id", productID),
		zap.Int64("sync_product_id", syncID))
}

func (s *ProductService) collectSyncedVariants(ctx context.Context, productID string, priceByVariant map[int64]string, result *mockup.Result) ([]integration.SyncedVariant, error) {
	var synced []integration.SyncedVariant
	cursor := ""
	for {
		page, err := s.storefront.ListVariants(ctx, productID, cursor)
		if err != nil {
			return nil, err
		}
		for _, ref := range page.Items {
			providerVariantID, err := strconv.ParseInt(ref.Barcode, 10, 64)
			if err != nil || providerVariantID <= 0 {
				continue
			}
			variant := integration.SyncedVariant{
				ExternalID:  ref.ID,
				VariantID:   providerVariantID,
				RetailPrice: priceByVariant[providerVariantID],
			}
			if printfile, ok := result.PrintfileForVariant(providerVariantID); ok {
				variant.Files = append(variant.Files, integration.SyncedFile{
					URL:  printfile.URL,
					Type: "default",
				})
			}
			synced = append(synced, variant)
		}
		if !page.HasNextPage {
			return synced, nil
		}
		cursor = page.EndCursor
	}
}

// buildMediaInputs turns the render result into product media. Main mockups
// are labeled with their comma-joined variant IDs so the matching pass can
// find them; extra images are labeled so it skips them.
func buildMediaInputs(result *mockup.Result) []integration.MediaInput {
	var inputs []integration.MediaInput
	for _, m := range result.Mockups {
		ids := make([]string, len(m.VariantIDs))
		for i, id := range m.VariantIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		inputs = append(inputs, integration.MediaInput{
			URL: m.MockupURL,
			Alt: strings.Join(ids, ","),
		})
		for _, e := range m.ExtraImages {
			inputs = append(inputs, integration.MediaInput{
				URL: e.URL,
				Alt: strings.TrimSpace(e.Label + " extra"),
			})
		}
	}
	return inputs
}
