package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/stocksync/backend/internal/domain/syncing"
)

// maxResponseSize is the maximum allowed response size from the Admin API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// AdminClient is the remote surface of the storefront Admin API the sink
// side needs. The SkuResolver wraps it with the resolution cache.
type AdminClient interface {
	ListLocations(ctx context.Context) ([]syncing.Location, error)
	LookupVariantBySKU(ctx context.Context, sku string) (*syncing.RemoteItem, error)
	SetQuantity(ctx context.Context, inventoryItemID, locationID string, quantity int64, reason syncing.SetReason) error
}

// Client talks to the Shopify Admin GraphQL API
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Shopify client with the given configuration
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

const locationsQuery = `query {
  locations(first: 50) {
    edges { node { id name } }
  }
}`

// ListLocations returns all storefront locations, name-sorted, each with the
// numeric id extracted from its gid
func (c *Client) ListLocations(ctx context.Context) ([]syncing.Location, error) {
	var data locationsData
	if err := c.doQuery(ctx, locationsQuery, nil, &data); err != nil {
		return nil, err
	}

	locations := make([]syncing.Location, 0, len(data.Locations.Edges))
	for _, edge := range data.Locations.Edges {
		numericID, err := NumericID(edge.Node.ID)
		if err != nil {
			c.logger.Warn("Skipping location with malformed id",
				zap.String("gid", edge.Node.ID),
			)
			continue
		}
		locations = append(locations, syncing.Location{
			ID:   numericID,
			GID:  edge.Node.ID,
			Name: edge.Node.Name,
		})
	}

	sort.Slice(locations, func(i, j int) bool {
		if locations[i].Name != locations[j].Name {
			return locations[i].Name < locations[j].Name
		}
		return locations[i].ID < locations[j].ID
	})

	return locations, nil
}

const variantBySKUQuery = `query($query: String!) {
  productVariants(first: 1, query: $query) {
    edges {
      node {
        id
        displayName
        inventoryItem { id }
      }
    }
  }
}`

// LookupVariantBySKU finds the storefront variant carrying the given SKU.
// Returns (nil, nil) when no variant matches; absence is an expected
// outcome, not an error.
func (c *Client) LookupVariantBySKU(ctx context.Context, sku string) (*syncing.RemoteItem, error) {
	variables := map[string]any{
		"query": fmt.Sprintf("sku:%q", sku),
	}

	var data variantsData
	if err := c.doQuery(ctx, variantBySKUQuery, variables, &data); err != nil {
		return nil, err
	}

	if len(data.ProductVariants.Edges) == 0 {
		return nil, nil
	}

	node := data.ProductVariants.Edges[0].Node
	return &syncing.RemoteItem{
		InventoryItemID: node.InventoryItem.ID,
		VariantID:       node.ID,
		Title:           node.DisplayName,
	}, nil
}

const setQuantitiesMutation = `mutation($input: InventorySetQuantitiesInput!) {
  inventorySetQuantities(input: $input) {
    userErrors { field message }
  }
}`

// SetQuantity issues an absolute set of the available quantity for an
// inventory item at a location, tagged with a reason for the remote audit
// trail. Field-level userErrors are concatenated into one failure.
func (c *Client) SetQuantity(ctx context.Context, inventoryItemID, locationID string, quantity int64, reason syncing.SetReason) error {
	variables := map[string]any{
		"input": map[string]any{
			"name":                  "available",
			"reason":                string(reason),
			"ignoreCompareQuantity": true,
			"quantities": []map[string]any{
				{
					"inventoryItemId": CanonicalInventoryItemID(inventoryItemID),
					"locationId":      CanonicalLocationID(locationID),
					"quantity":        quantity,
				},
			},
		},
	}

	var data setQuantitiesData
	if err := c.doQuery(ctx, setQuantitiesMutation, variables, &data); err != nil {
		return err
	}

	return data.collectUserErrors()
}

// doQuery posts one GraphQL document and decodes the data payload into out.
// Top-level GraphQL errors surface as *GraphQLErrors, distinct from
// transport failures.
func (c *Client) doQuery(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("shopify: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.endpointURL(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("shopify: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("shopify: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("shopify: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("shopify: HTTP %d", resp.StatusCode)
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("shopify: failed to parse response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return &GraphQLErrors{Messages: messages}
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("shopify: failed to parse data payload: %w", err)
		}
	}

	return nil
}

// Ensure Client implements AdminClient
var _ AdminClient = (*Client)(nil)
