package bling

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/stocksync/backend/internal/domain/syncing"
)

// maxResponseSize is the maximum allowed response size from the Bling API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Client implements the SourceConnector interface against the Bling ERP
// REST API.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Bling client with the given configuration
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
// Catalog Operations
// ---------------------------------------------------------------------------

// ListProducts fetches one 1-indexed page of the product catalog
func (c *Client) ListProducts(ctx context.Context, page int) (*syncing.ProductPage, error) {
	if page < 1 {
		page = 1
	}

	query := url.Values{}
	query.Set("pagina", strconv.Itoa(page))
	query.Set("limite", strconv.Itoa(c.config.PageSize))

	body, err := c.doRequest(ctx, "/produtos?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var resp productListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("bling: failed to parse product list: %w", err)
	}

	result := &syncing.ProductPage{
		Products:   make([]syncing.Product, 0, len(resp.Data)),
		Page:       resp.Page,
		TotalPages: resp.TotalPages,
	}
	if result.Page == 0 {
		result.Page = page
	}
	for _, p := range resp.Data {
		result.Products = append(result.Products, syncing.Product{
			ID:   p.ID,
			SKU:  p.SKU,
			Name: p.Name,
		})
	}

	return result, nil
}

// GetProductStock fetches the per-warehouse stock breakdown of a product
func (c *Client) GetProductStock(ctx context.Context, productID int64) (*syncing.ProductStock, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/produtos/%d/estoque", productID))
	if err != nil {
		return nil, err
	}

	var resp productStockResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("bling: failed to parse product stock: %w", err)
	}

	deposits, err := normalizeDeposits(resp.Data.Deposits)
	if err != nil {
		return nil, err
	}

	stock := &syncing.ProductStock{
		ProductID: resp.Data.Product.ID,
		SKU:       resp.Data.Product.SKU,
		Name:      resp.Data.Product.Name,
		Deposits:  make([]syncing.WarehouseStock, 0, len(deposits)),
	}
	if stock.ProductID == 0 {
		stock.ProductID = productID
	}
	for _, d := range deposits {
		stock.Deposits = append(stock.Deposits, syncing.WarehouseStock{
			WarehouseID:   d.ID.String(),
			WarehouseName: d.Name,
			Quantity:      d.Quantity,
		})
	}

	return stock, nil
}

// FindProductBySKU scans catalog pages until a product with the given SKU is
// found. Worst case it reads the whole catalog, so only the sales webhook
// path calls it.
func (c *Client) FindProductBySKU(ctx context.Context, sku string) (*syncing.Product, error) {
	for page := 1; ; page++ {
		productPage, err := c.ListProducts(ctx, page)
		if err != nil {
			return nil, err
		}

		for _, product := range productPage.Products {
			if product.SKU == sku {
				found := product
				return &found, nil
			}
		}

		if len(productPage.Products) == 0 || page >= productPage.TotalPages {
			return nil, nil
		}
	}
}

// DiscoverWarehouses walks the catalog accumulating distinct warehouses seen
// in stock breakdowns, examining at most sampleLimit products
func (c *Client) DiscoverWarehouses(ctx context.Context, sampleLimit int) ([]syncing.Warehouse, error) {
	if sampleLimit <= 0 {
		sampleLimit = 25
	}

	seen := make(map[string]syncing.Warehouse)
	examined := 0

	for page := 1; examined < sampleLimit; page++ {
		productPage, err := c.ListProducts(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(productPage.Products) == 0 {
			break
		}

		for _, product := range productPage.Products {
			if examined >= sampleLimit {
				break
			}
			examined++

			stock, err := c.GetProductStock(ctx, product.ID)
			if err != nil {
				// Discovery is a best-effort aid; one unreadable product
				// should not abort the walk.
				c.logger.Warn("Failed to read stock during warehouse discovery",
					zap.Int64("product_id", product.ID),
					zap.Error(err),
				)
				continue
			}

			for _, deposit := range stock.Deposits {
				if deposit.WarehouseID == "" {
					continue
				}
				if _, ok := seen[deposit.WarehouseID]; !ok {
					seen[deposit.WarehouseID] = syncing.Warehouse{
						ID:   deposit.WarehouseID,
						Name: deposit.WarehouseName,
					}
				}
			}
		}

		if page >= productPage.TotalPages {
			break
		}
	}

	warehouses := make([]syncing.Warehouse, 0, len(seen))
	for _, warehouse := range seen {
		warehouses = append(warehouses, warehouse)
	}
	sort.Slice(warehouses, func(i, j int) bool {
		if warehouses[i].Name != warehouses[j].Name {
			return warehouses[i].Name < warehouses[j].Name
		}
		return warehouses[i].ID < warehouses[j].ID
	})

	return warehouses, nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// doRequest performs a GET against the Bling API and surfaces embedded
// application errors as *APIError, distinct from transport failures
func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("bling: failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bling: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("bling: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("bling: HTTP %d: %s", resp.StatusCode, truncateBody(body))
	}

	// The API reports some failures inside a 200 body
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil && envelope.Error.Type != "" {
		return nil, envelope.Error
	}

	return body, nil
}

// truncateBody bounds error message size when echoing a remote body
func truncateBody(body []byte) string {
	const limit = 256
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

// Ensure Client implements SourceConnector
var _ syncing.SourceConnector = (*Client)(nil)
