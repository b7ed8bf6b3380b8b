package syncing

import (
	"context"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Source side (ERP)
// ---------------------------------------------------------------------------

// Product is one catalog entry in the source ERP.
type Product struct {
	// ID is the ERP product identifier
	ID int64
	// SKU is the stock-keeping unit code, join key to the storefront variant
	SKU string
	// Name is the product display name
	Name string
}

// ProductPage is one page of the ERP catalog.
type ProductPage struct {
	Products []Product
	// Page is the 1-indexed page number this page was fetched as
	Page int
	// TotalPages is the total page count reported by the ERP
	TotalPages int
}

// WarehouseStock is the stock a product holds in one warehouse.
type WarehouseStock struct {
	WarehouseID   string
	WarehouseName string
	// Quantity is the physical balance; the ERP reports fractional balances
	// for weighed goods, so it stays decimal until the storefront boundary.
	Quantity decimal.Decimal
}

// ProductStock is the per-warehouse stock breakdown of one product.
type ProductStock struct {
	ProductID int64
	SKU       string
	Name      string
	Deposits  []WarehouseStock
}

// QuantityFor returns the quantity held in the given warehouse, or zero when
// the product shows no stock entry for it.
func (s *ProductStock) QuantityFor(warehouseID string) (decimal.Decimal, bool) {
	for _, d := range s.Deposits {
		if d.WarehouseID == warehouseID {
			return d.Quantity, true
		}
	}
	return decimal.Zero, false
}

// Warehouse is a stock-holding location discovered in the ERP.
type Warehouse struct {
	ID   string
	Name string
}

// SourceConnector is the port interface for the source-of-truth ERP.
type SourceConnector interface {
	// ListProducts fetches one 1-indexed page of the product catalog.
	ListProducts(ctx context.Context, page int) (*ProductPage, error)

	// GetProductStock fetches the per-warehouse stock breakdown of a product.
	GetProductStock(ctx context.Context, productID int64) (*ProductStock, error)

	// FindProductBySKU scans catalog pages until a product with the given SKU
	// is found. Returns (nil, nil) after exhausting the catalog without a
	// match; absence is an expected outcome, not an error.
	FindProductBySKU(ctx context.Context, sku string) (*Product, error)

	// DiscoverWarehouses walks the catalog accumulating distinct warehouses
	// observed in stock breakdowns, examining at most sampleLimit products.
	// Heuristic aid for the mapping UI; the sync paths never call it.
	DiscoverWarehouses(ctx context.Context, sampleLimit int) ([]Warehouse, error)
}

// ---------------------------------------------------------------------------
// Sink side (storefront)
// ---------------------------------------------------------------------------

// Location is a storefront fulfillment location.
type Location struct {
	// ID is the numeric identifier extracted from the canonical gid
	ID int64
	// GID is the fully-qualified resource identifier
	GID string
	// Name is the location display name
	Name string
}

// RemoteItem is the storefront inventory item a SKU resolved to.
type RemoteItem struct {
	InventoryItemID string
	VariantID       string
	Title           string
}

// SetReason tags an absolute quantity set for downstream audit on the
// storefront side.
type SetReason string

const (
	// ReasonCorrection is used by full sync and the stock webhook path
	ReasonCorrection SetReason = "correction"
	// ReasonSale is used by the sales webhook reconciliation path
	ReasonSale SetReason = "sale"
)

// SinkConnector is the port interface for the storefront platform.
type SinkConnector interface {
	// ListLocations returns all storefront locations, name-sorted.
	ListLocations(ctx context.Context) ([]Location, error)

	// ResolveSKU maps a SKU to its storefront inventory item, consulting the
	// resolution cache first and populating it on a successful remote lookup.
	// Returns (nil, nil) when the SKU does not exist on the storefront; that
	// is an expected outcome, not an error.
	ResolveSKU(ctx context.Context, sku string) (*RemoteItem, error)

	// SetQuantity issues an absolute set of the available quantity for an
	// inventory item at a location. Bare numeric ids are promoted to the
	// canonical gid form before use.
	SetQuantity(ctx context.Context, inventoryItemID, locationID string, quantity int64, reason SetReason) error
}
