package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/podsync/backend/internal/domain/integration"
)

const maxResponseSize = 10 << 20 // 10MB

// Client is the GraphQL adapter for the storefront Admin API
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger

	mu            sync.Mutex
	publicationID string
}

// NewClient creates a storefront API client
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
	}, nil
}

// ---------------------------------------------------------------------------
// Wire Types
// ---------------------------------------------------------------------------

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type userErrorItem struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type pageInfoItem struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type variantNode struct {
	ID      string `json:"id"`
	Barcode string `json:"barcode"`
}

func toUserErrors(items []userErrorItem) []integration.UserError {
	if len(items) == 0 {
		return nil
	}
	errs := make([]integration.UserError, 0, len(items))
	for _, item := range items {
		errs = append(errs, integration.UserError{
			Field:   strings.Join(item.Field, "."),
			Message: item.Message,
		})
	}
	return errs
}

// ---------------------------------------------------------------------------
// Product Creation
// ---------------------------------------------------------------------------

// CreateProduct creates a product with options and initial media. The
// platform auto-creates one variant for the first option combination; its ID
// comes back as FirstVariantID.
func (c *Client) CreateProduct(ctx context.Context, input *integration.ProductInput) (*integration.CreatedProduct, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: product title is required", integration.ErrProductCreateFailed)
	}

	productOptions := make([]map[string]interface{}, 0, len(input.Options))
	for _, opt := range input.Options {
		values := make([]map[string]string, 0, len(opt.Values))
		for _, v := range opt.Values {
			values = append(values, map[string]string{"name": v})
		}
		productOptions = append(productOptions, map[string]interface{}{
			"name":   opt.Name,
			"values": values,
		})
	}

	media := make([]map[string]string, 0, len(input.Media))
	for _, m := range input.Media {
		media = append(media, map[string]string{
			"originalSource":   m.URL,
			"alt":              m.Alt,
			"mediaContentType": "IMAGE",
		})
	}

	variables := map[string]interface{}{
		"input": map[string]interface{}{
			"title":          input.Title,
			"tags":           input.Tags,
			"productOptions": productOptions,
		},
		"media": media,
	}

	var data struct {
		ProductCreate struct {
			Product *struct {
				ID       string `json:"id"`
				Variants struct {
					Nodes []variantNode `json:"nodes"`
				} `json:"variants"`
			} `json:"product"`
			UserErrors []userErrorItem `json:"userErrors"`
		} `json:"productCreate"`
	}
	if err := c.doGraphQL(ctx, productCreateMutation, variables, &data); err != nil {
		return nil, err
	}
	if len(data.ProductCreate.UserErrors) > 0 {
		return nil, fmt.Errorf("%w: %s", integration.ErrProductCreateFailed,
			data.ProductCreate.UserErrors[0].Message)
	}
	if data.ProductCreate.Product == nil || len(data.ProductCreate.Product.Variants.Nodes) == 0 {
		return nil, fmt.Errorf("%w: product or first variant missing", integration.ErrStorefrontInvalidResponse)
	}

	created := &integration.CreatedProduct{
		ID:             data.ProductCreate.Product.ID,
		FirstVariantID: data.ProductCreate.Product.Variants.Nodes[0].ID,
	}

	c.logger.Info("storefront product created",
		zap.String("product_id", created.ID),
		zap.Int("media", len(input.Media)))

	return created, nil
}

// UpdateVariant overwrites price, SKU and barcode of an existing variant
func (c *Client) UpdateVariant(ctx context.Context, productID, variantID string, spec integration.VariantSpec) error {
	variables := map[string]interface{}{
		"productId": productID,
		"variants":  []map[string]interface{}{variantInput(spec, variantID)},
	}

	var data struct {
		ProductVariantsBulkUpdate struct {
			UserErrors []userErrorItem `json:"userErrors"`
		} `json:"productVariantsBulkUpdate"`
	}
	if err := c.doGraphQL(ctx, variantsBulkUpdateMutation, variables, &data); err != nil {
		return err
	}
	if len(data.ProductVariantsBulkUpdate.UserErrors) > 0 {
		return fmt.Errorf("%w: %s", integration.ErrVariantUpdateFailed,
			data.ProductVariantsBulkUpdate.UserErrors[0].Message)
	}
	return nil
}

// CreateVariants bulk-creates one chunk of variants on a product. User errors
// are returned alongside created variants, not as a call failure.
func (c *Client) CreateVariants(ctx context.Context, productID string, specs []integration.VariantSpec) (*integration.BulkResult, error) {
	if len(specs) == 0 {
		return &integration.BulkResult{}, nil
	}

	variants := make([]map[string]interface{}, 0, len(specs))
	for _, spec := range specs {
		variants = append(variants, variantInput(spec, ""))
	}
	variables := map[string]interface{}{
		"productId": productID,
		"variants":  variants,
	}

	var data struct {
		ProductVariantsBulkCreate struct {
			ProductVariants []variantNode   `json:"productVariants"`
			UserErrors      []userErrorItem `json:"userErrors"`
		} `json:"productVariantsBulkCreate"`
	}
	if err := c.doGraphQL(ctx, variantsBulkCreateMutation, variables, &data); err != nil {
		return nil, err
	}

	result := &integration.BulkResult{
		UserErrors: toUserErrors(data.ProductVariantsBulkCreate.UserErrors),
	}
	for _, v := range data.ProductVariantsBulkCreate.ProductVariants {
		result.Variants = append(result.Variants, integration.CreatedVariant{
			ID:      v.ID,
			Barcode: v.Barcode,
		})
	}
	return result, nil
}

// variantInput builds one ProductVariantsBulkInput. The provider variant ID
// goes into the barcode field so media matching can read it back.
func variantInput(spec integration.VariantSpec, variantID string) map[string]interface{} {
	input := map[string]interface{}{
		"price":   spec.Price,
		"barcode": fmt.Sprintf("%d", spec.ProviderVariantID),
		"inventoryItem": map[string]interface{}{
			"sku": spec.SKU,
		},
	}
	if variantID != "" {
		input["id"] = variantID
	}
	if len(spec.OptionValues) > 0 {
		optionValues := make([]map[string]string, 0, len(spec.OptionValues))
		for _, ov := range spec.OptionValues {
			optionValues = append(optionValues, map[string]string{
				"optionName": ov.OptionName,
				"name":       ov.Value,
			})
		}
		input["optionValues"] = optionValues
	}
	return input
}

// ---------------------------------------------------------------------------
// Pagination
// ---------------------------------------------------------------------------

// ListVariants fetches one page of the product's variants
func (c *Client) ListVariants(ctx context.Context, productID, cursor string) (*integration.VariantPage, error) {
	variables := map[string]interface{}{
		"productId": productID,
		"first":     c.config.PageSize,
	}
	if cursor != "" {
		variables["after"] = cursor
	}

	var data struct {
		Product *struct {
			Variants struct {
				Nodes    []variantNode `json:"nodes"`
				PageInfo pageInfoItem  `json:"pageInfo"`
			} `json:"variants"`
		} `json:"product"`
	}
	if err := c.doGraphQL(ctx, variantPageQuery, variables, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, fmt.Errorf("%w: product %s not found", integration.ErrStorefrontRequestFailed, productID)
	}

	page := &integration.VariantPage{
		EndCursor:   data.Product.Variants.PageInfo.EndCursor,
		HasNextPage: data.Product.Variants.PageInfo.HasNextPage,
	}
	for _, v := range data.Product.Variants.Nodes {
		page.Items = append(page.Items, integration.VariantRef{ID: v.ID, Barcode: v.Barcode})
	}
	return page, nil
}

// ListMedia fetches one page of the product's media assets
func (c *Client) ListMedia(ctx context.Context, productID, cursor string) (*integration.MediaPage, error) {
	variables := map[string]interface{}{
		"productId": productID,
		"first":     c.config.PageSize,
	}
	if cursor != "" {
		variables["after"] = cursor
	}

	var data struct {
		Product *struct {
			Media struct {
				Nodes []struct {
					ID  string `json:"id"`
					Alt string `json:"alt"`
				} `json:"nodes"`
				PageInfo pageInfoItem `json:"pageInfo"`
			} `json:"media"`
		} `json:"product"`
	}
	if err := c.doGraphQL(ctx, mediaPageQuery, variables, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, fmt.Errorf("%w: product %s not found", integration.ErrStorefrontRequestFailed, productID)
	}

	page := &integration.MediaPage{
		EndCursor:   data.Product.Media.PageInfo.EndCursor,
		HasNextPage: data.Product.Media.PageInfo.HasNextPage,
	}
	for _, m := range data.Product.Media.Nodes {
		if m.ID == "" {
			// non-image media nodes decode empty
			continue
		}
		page.Items = append(page.Items, integration.MediaAssetRef{ID: m.ID, Label: m.Alt})
	}
	return page, nil
}

// ---------------------------------------------------------------------------
// Media Attachment and Publishing
// ---------------------------------------------------------------------------

// AppendVariantMedia submits one batch of variant-media pairings. Per-pairing
// user errors come back to the caller; they do not fail the call.
func (c *Client) AppendVariantMedia(ctx context.Context, productID string, pairings []integration.MediaPairing) ([]integration.UserError, error) {
	if len(pairings) == 0 {
		return nil, nil
	}

	variantMedia := make([]map[string]interface{}, 0, len(pairings))
	for _, p := range pairings {
		variantMedia = append(variantMedia, map[string]interface{}{
			"variantId": p.VariantID,
			"mediaIds":  []string{p.MediaID},
		})
	}
	variables := map[string]interface{}{
		"productId":    productID,
		"variantMedia": variantMedia,
	}

	var data struct {
		ProductVariantAppendMedia struct {
			UserErrors []userErrorItem `json:"userErrors"`
		} `json:"productVariantAppendMedia"`
	}
	if err := c.doGraphQL(ctx, variantAppendMediaMutation, variables, &data); err != nil {
		return nil, err
	}
	return toUserErrors(data.ProductVariantAppendMedia.UserErrors), nil
}

// PublishProduct makes the product visible in the default sales channel
func (c *Client) PublishProduct(ctx context.Context, productID string) error {
	publicationID, err := c.defaultPublicationID(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrPublishFailed, err)
	}

	variables := map[string]interface{}{
		"id": productID,
		"input": []map[string]string{
			{"publicationId": publicationID},
		},
	}

	var data struct {
		PublishablePublish struct {
			UserErrors []userErrorItem `json:"userErrors"`
		} `json:"publishablePublish"`
	}
	if err := c.doGraphQL(ctx, publishablePublishMutation, variables, &data); err != nil {
		return err
	}
	if len(data.PublishablePublish.UserErrors) > 0 {
		return fmt.Errorf("%w: %s", integration.ErrPublishFailed,
			data.PublishablePublish.UserErrors[0].Message)
	}

	c.logger.Info("storefront product published", zap.String("product_id", productID))
	return nil
}

// defaultPublicationID resolves and caches the first publication, which is
// the default online store channel.
func (c *Client) defaultPublicationID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publicationID != "" {
		return c.publicationID, nil
	}

	var data struct {
		Publications struct {
			Nodes []struct {
				ID string `json:"id"`
			} `json:"nodes"`
		} `json:"publications"`
	}
	if err := c.doGraphQL(ctx, publicationsQuery, nil, &data); err != nil {
		return "", err
	}
	if len(data.Publications.Nodes) == 0 {
		return "", fmt.Errorf("%w: no publications available", integration.ErrStorefrontInvalidResponse)
	}
	c.publicationID = data.Publications.Nodes[0].ID
	return c.publicationID, nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

// doGraphQL posts one GraphQL document and unmarshals the data payload
func (c *Client) doGraphQL(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrStorefrontUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: HTTP %d", integration.ErrStorefrontUnavailable, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("%w: HTTP %d", integration.ErrStorefrontRequestFailed, resp.StatusCode)
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrStorefrontInvalidResponse, err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("%w: %s", integration.ErrStorefrontRequestFailed, envelope.Errors[0].Message)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("%w: %v", integration.ErrStorefrontInvalidResponse, err)
		}
	}
	return nil
}

var _ integration.Storefront = (*Client)(nil)
