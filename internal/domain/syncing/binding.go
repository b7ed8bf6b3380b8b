package syncing

import (
	"context"
	"time"
)

// ---------------------------------------------------------------------------
// SkuBinding Entity
// ---------------------------------------------------------------------------

// SkuBinding memoizes the resolution of a SKU to the storefront inventory
// item that tracks it. A binding is created only after a successful remote
// lookup and overwritten whole on every fresh resolution. There is no expiry:
// correctness relies on the storefront catalog not re-creating SKUs under new
// item identities (see DESIGN.md for the staleness discussion).
type SkuBinding struct {
	// SKU is the stock-keeping unit code, unique key of the binding
	SKU string
	// InventoryItemID is the storefront inventory item identifier (gid form)
	InventoryItemID string
	// VariantID is the storefront product variant identifier (gid form), if known
	VariantID string
	// Title is the variant display title, cached for diagnostics
	Title string
	// UpdatedAt is when the binding was last written
	UpdatedAt time.Time
}

// ---------------------------------------------------------------------------
// SkuBindingRepository Interface
// ---------------------------------------------------------------------------

// SkuBindingRepository persists SKU → inventory item bindings.
type SkuBindingRepository interface {
	// Get returns the binding for a SKU or ErrBindingNotFound. It never
	// performs a remote lookup.
	Get(ctx context.Context, sku string) (*SkuBinding, error)

	// Put inserts or replaces the binding keyed by SKU.
	Put(ctx context.Context, binding *SkuBinding) error
}
