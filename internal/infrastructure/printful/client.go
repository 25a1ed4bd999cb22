package printful

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/podsync/backend/internal/domain/integration"
	"github.com/podsync/backend/internal/domain/mockup"
)

const maxResponseSize = 10 << 20 // 10MB

// Client is the REST adapter for the print-on-demand provider API
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
	sleep      func(context.Context, time.Duration) error
}

// NewClient creates a provider API client
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
		sleep:  sleepContext,
	}, nil
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

// GetTemplate fetches a product template by its provider ID
func (c *Client) GetTemplate(ctx context.Context, templateID int64) (*integration.TemplateData, error) {
	if templateID <= 0 {
		return nil, fmt.Errorf("%w: template ID must be positive", integration.ErrProviderRequestFailed)
	}

	body, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/product-templates/%d", templateID), nil)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: template %d", integration.ErrTemplateNotFound, templateID)
		}
		return nil, err
	}

	var resp templateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrProviderInvalidResponse, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s", integration.ErrProviderRequestFailed, resp.ErrorMessage())
	}

	placements := make([]integration.Placement, 0, len(resp.Result.Placements))
	for _, p := range resp.Result.Placements {
		placements = append(placements, integration.Placement{
			Placement: p.Placement,
			ImageURL:  p.ImageURL,
			Technique: p.Technique,
		})
	}

	return &integration.TemplateData{
		ID:                  resp.Result.ID,
		CatalogProductID:    resp.Result.ProductID,
		Title:               resp.Result.Title,
		AvailableVariantIDs: resp.Result.AvailableVariantIDs,
		MockupFileURL:       resp.Result.MockupFileURL,
		Placements:          placements,
	}, nil
}

// GetCatalogVariants enriches the given variant IDs by merging base data,
// availability and pricing from three endpoints. All IDs are fetched in
// parallel; IDs beyond the configured cap are ignored.
func (c *Client) GetCatalogVariants(ctx context.Context, variantIDs []int64) (*integration.CatalogResult, error) {
	if len(variantIDs) == 0 {
		return &integration.CatalogResult{}, nil
	}
	if len(variantIDs) > c.config.CatalogCap {
		c.logger.Warn("catalog request exceeds cap, truncating",
			zap.Int("requested", len(variantIDs)),
			zap.Int("cap", c.config.CatalogCap))
		variantIDs = variantIDs[:c.config.CatalogCap]
	}

	type fetchOutcome struct {
		index   int
		variant integration.EnrichedVariant
		err     error
	}

	outcomes := make([]fetchOutcome, len(variantIDs))
	var wg sync.WaitGroup
	for i, id := range variantIDs {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			variant, err := c.enrichVariant(ctx, id)
			outcomes[i] = fetchOutcome{index: i, err: err}
			if err == nil {
				outcomes[i].variant = *variant
			}
		}(i, id)
	}
	wg.Wait()

	result := &integration.CatalogResult{}
	for i, out := range outcomes {
		if out.err != nil {
			result.Failures = append(result.Failures, integration.EnrichmentFailure{
				VariantID: variantIDs[i],
				Err:       out.err,
			})
			continue
		}
		result.Variants = append(result.Variants, out.variant)
	}

	c.logger.Debug("catalog enrichment done",
		zap.Int("requested", len(variantIDs)),
		zap.Int("enriched", len(result.Variants)),
		zap.Int("failed", len(result.Failures)))

	return result, nil
}

// enrichVariant merges the three per-variant endpoints into one value
func (c *Client) enrichVariant(ctx context.Context, variantID int64) (*integration.EnrichedVariant, error) {
	base, err := c.fetchVariantBase(ctx, variantID)
	if err != nil {
		return nil, err
	}
	availability, err := c.fetchVariantAvailability(ctx, variantID)
	if err != nil {
		return nil, err
	}
	prices, err := c.fetchVariantPrices(ctx, variantID)
	if err != nil {
		return nil, err
	}

	variant := &integration.EnrichedVariant{
		ID:         base.ID,
		Name:       base.Name,
		ColorLabel: base.Color,
		SizeLabel:  base.Size,
		Currency:   base.Currency,
	}
	for _, region := range availability.SellingRegions {
		if region.Availability == "in stock" || region.Availability == "available" {
			variant.SellingRegions = append(variant.SellingRegions, region.Name)
		}
	}
	for _, t := range prices.Techniques {
		price, err := decimal.NewFromString(t.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: technique price %q", integration.ErrProviderInvalidResponse, t.Price)
		}
		variant.Techniques = append(variant.Techniques, integration.VariantTechnique{
			Key:       t.TechniqueKey,
			PriceBase: price,
		})
	}
	// the cheapest technique drives the base fulfillment cost
	for i, t := range variant.Techniques {
		if i == 0 || t.PriceBase.LessThan(variant.PriceBase) {
			variant.PriceBase = t.PriceBase
		}
	}
	return variant, nil
}

func (c *Client) fetchVariantBase(ctx context.Context, variantID int64) (*catalogVariantResult, error) {
	body, err := c.getWithRetry(ctx, fmt.Sprintf("/catalog-variants/%d", variantID))
	if err != nil {
		return nil, err
	}
	var resp catalogVariantResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrProviderInvalidResponse, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s", integration.ErrProviderRequestFailed, resp.ErrorMessage())
	}
	return &resp.Result, nil
}

func (c *Client) fetchVariantAvailability(ctx context.Context, variantID int64) (*availabilityResult, error) {
	body, err := c.getWithRetry(ctx, fmt.Sprintf("/catalog-variants/%d/availability", variantID))
	if err != nil {
		return nil, err
	}
	var resp availabilityResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrProviderInvalidResponse, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s", integration.ErrProviderRequestFailed, resp.ErrorMessage())
	}
	return &resp.Result, nil
}

func (c *Client) fetchVariantPrices(ctx context.Context, variantID int64) (*pricesResult, error) {
	body, err := c.getWithRetry(ctx, fmt.Sprintf("/catalog-variants/%d/prices", variantID))
	if err != nil {
		return nil, err
	}
	var resp pricesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrProviderInvalidResponse, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s", integration.ErrProviderRequestFailed, resp.ErrorMessage())
	}
	return &resp.Result, nil
}

// CreateMockupTask submits a render task and returns the provider task key
func (c *Client) CreateMockupTask(ctx context.Context, req *integration.MockupRenderRequest) (string, error) {
	if req.CatalogProductID <= 0 {
		return "", fmt.Errorf("%w: catalog product ID must be positive", integration.ErrProviderRequestFailed)
	}
	if len(req.VariantIDs) == 0 {
		return "", fmt.Errorf("%w: at least one variant ID is required", integration.ErrProviderRequestFailed)
	}
	if len(req.Files) == 0 {
		return "", fmt.Errorf("%w: at least one design file is required", integration.ErrProviderRequestFailed)
	}

	payload := mockupTaskRequest{
		VariantIDs: req.VariantIDs,
		Format:     req.Format,
		Width:      req.Width,
		StyleIDs:   req.StyleIDs,
	}
	for _, f := range req.Files {
		payload.Files = append(payload.Files, mockupFileItem{
			Placement: f.Placement,
			ImageURL:  f.ImageURL,
		})
	}

	body, err := c.doRequest(ctx, http.MethodPost,
		fmt.Sprintf("/mockup-generator/create-task/%d", req.CatalogProductID), payload)
	if err != nil {
		return "", err
	}

	var resp mockupTaskResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", integration.ErrProviderInvalidResponse, err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("%w: %s", integration.ErrProviderRequestFailed, resp.ErrorMessage())
	}
	if resp.Result.TaskKey == "" {
		return "", fmt.Errorf("%w: missing task key", integration.ErrProviderInvalidResponse)
	}

	c.logger.Info("mockup task created",
		zap.String("task_key", resp.Result.TaskKey),
		zap.Int64("catalog_product_id", req.CatalogProductID),
		zap.Int("variants", len(req.VariantIDs)))

	return resp.Result.TaskKey, nil
}

// GetMockupTask fetches the current state of a render task
func (c *Client) GetMockupTask(ctx context.Context, taskKey string) (*integration.MockupTaskState, error) {
	if taskKey == "" {
		return nil, fmt.Errorf("%w: task key is required", integration.ErrProviderRequestFailed)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/mockup-generator/task/"+taskKey, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", integration.ErrMockupTaskNotFound, taskKey)
		}
		return nil, err
	}

	var resp mockupTaskResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrProviderInvalidResponse, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s", integration.ErrProviderRequestFailed, resp.ErrorMessage())
	}

	state := &integration.MockupTaskState{
		TaskKey: resp.Result.TaskKey,
		Error:   resp.Result.Error,
	}
	switch resp.Result.Status {
	case "pending":
		state.Status = integration.TaskPollPending
	case "completed":
		state.Status = integration.TaskPollCompleted
	case "failed":
		state.Status = integration.TaskPollFailed
	default:
		return nil, fmt.Errorf("%w: unknown task status %q", integration.ErrProviderInvalidResponse, resp.Result.Status)
	}

	if state.Status == integration.TaskPollCompleted {
		for _, m := range resp.Result.Mockups {
			domainMockup := mockup.Mockup{
				MockupURL:  m.MockupURL,
				Label:      m.Placement,
				VariantIDs: m.VariantIDs,
			}
			for _, e := range m.Extra {
				domainMockup.ExtraImages = append(domainMockup.ExtraImages, mockup.ExtraImage{
					URL:   e.URL,
					Label: e.Title,
				})
			}
			state.Mockups = append(state.Mockups, domainMockup)
		}
		for _, p := range resp.Result.Printfiles {
			state.Printfiles = append(state.Printfiles, mockup.Printfile{
				URL:        p.URL,
				VariantIDs: p.VariantIDs,
			})
		}
	}

	return state, nil
}

// CreateSyncedProduct submits the storefront mirror payload to the provider
func (c *Client) CreateSyncedProduct(ctx context.Context, req *integration.SyncedProductRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", integration.ErrSyncFailed, err)
	}

	payload := syncProductRequest{
		SyncProduct: syncProductItem{
			ExternalID: req.ExternalID,
			Name:       req.Name,
			Thumbnail:  req.ThumbnailURL,
		},
	}
	for _, v := range req.Variants {
		item := syncVariantItem{
			ExternalID:  v.ExternalID,
			VariantID:   v.VariantID,
			RetailPrice: v.RetailPrice,
		}
		for _, f := range v.Files {
			item.Files = append(item.Files, syncFileItem{URL: f.URL, Type: f.Type})
		}
		payload.SyncVariants = append(payload.SyncVariants, item)
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/store/products", payload)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", integration.ErrSyncFailed, err)
	}

	var resp syncProductResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("%w: %v", integration.ErrProviderInvalidResponse, err)
	}
	if !resp.IsSuccess() {
		return 0, fmt.Errorf("%w: %s", integration.ErrSyncFailed, resp.ErrorMessage())
	}

	c.logger.Info("synced product created",
		zap.Int64("sync_product_id", resp.Result.ID),
		zap.String("external_id", req.ExternalID),
		zap.Int("variants", len(req.Variants)))

	return resp.Result.ID, nil
}

// getWithRetry issues a GET and retries rate-limited responses with
// exponential backoff, up to the configured attempt cap.
func (c *Client) getWithRetry(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	attempts := c.config.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := c.doRequest(ctx, http.MethodGet, path, nil)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !isRateLimited(err) || attempt == attempts {
			break
		}
		delay := c.config.RetryBaseDelay * time.Duration(1<<(attempt-1))
		c.logger.Warn("rate limited, retrying",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay))
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// doRequest performs an HTTP call against the provider API
func (c *Client) doRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrProviderRateLimited, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: HTTP 404", integration.ErrProviderRequestFailed)
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrProviderUnavailable, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, fmt.Errorf("%w: HTTP %d: %s", integration.ErrProviderRequestFailed, resp.StatusCode, truncate(body, 256))
	}

	return body, nil
}

func isRateLimited(err error) bool {
	return errors.Is(err, integration.ErrProviderRateLimited)
}

func isNotFound(err error) bool {
	return errors.Is(err, integration.ErrProviderRequestFailed) &&
		strings.Contains(err.Error(), "HTTP 404")
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ integration.PrintProvider = (*Client)(nil)
