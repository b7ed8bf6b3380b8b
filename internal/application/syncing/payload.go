package syncing

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// The ERP delivers webhook payloads in several equivalent shapes: the
// notification may arrive as a bare object, wrapped in a "data" field that
// is either an object or a JSON-encoded string, and individual fields
// appear under more than one key casing depending on the ERP version.
// Normalization produces one canonical record; anything unrecognized
// becomes a domain skip, never a crash.

// stockNotice is the canonical stock-change notification
type stockNotice struct {
	WarehouseID string
	SKU         string
	ProductID   int64
	// Quantity is nil when the payload carried no balance
	Quantity *decimal.Decimal
}

// saleNotice is the canonical sale notification
type saleNotice struct {
	// SKUs is the deduplicated, order-preserving set of line item SKUs
	SKUs []string
}

// normalizeStockPayload decodes a stock webhook body into its canonical
// form. The second return is false for unrecognized shapes.
func normalizeStockPayload(raw []byte) (*stockNotice, bool) {
	body, ok := unwrapPayload(raw)
	if !ok {
		return nil, false
	}

	notice := &stockNotice{
		WarehouseID: stringField(body, "idDeposito", "deposito_id", "warehouseId"),
		SKU:         stringField(body, "codigo", "sku"),
		ProductID:   intField(body, "idProduto", "produto_id", "productId"),
	}

	if quantity, found := decimalField(body, "saldo", "quantidade"); found {
		notice.Quantity = &quantity
	}

	if notice.WarehouseID == "" && notice.SKU == "" && notice.ProductID == 0 {
		return nil, false
	}
	return notice, true
}

// normalizeSalesPayload decodes a sales webhook body into its canonical
// form. The second return is false for unrecognized shapes.
func normalizeSalesPayload(raw []byte) (*saleNotice, bool) {
	body, ok := unwrapPayload(raw)
	if !ok {
		return nil, false
	}

	items, found := listField(body, "itens", "items")
	if !found {
		return nil, false
	}

	seen := make(map[string]bool)
	notice := &saleNotice{}
	for _, entry := range items {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		// Some ERP versions nest each line item one level down
		if inner, ok := lookupField(item, "item"); ok {
			if innerMap, ok := inner.(map[string]any); ok {
				item = innerMap
			}
		}

		sku := stringField(item, "codigo", "sku")
		if sku == "" || seen[sku] {
			continue
		}
		seen[sku] = true
		notice.SKUs = append(notice.SKUs, sku)
	}

	return notice, true
}

// unwrapPayload decodes the outer body and unwraps an optional "data"
// field, which may itself be a JSON-encoded string
func unwrapPayload(raw []byte) (map[string]any, bool) {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, false
	}

	data, found := lookupField(body, "data")
	if !found {
		return body, true
	}

	switch v := data.(type) {
	case map[string]any:
		return v, true
	case string:
		var inner map[string]any
		if err := json.Unmarshal([]byte(v), &inner); err != nil {
			return nil, false
		}
		return inner, true
	default:
		return nil, false
	}
}

// lookupField finds a key case-insensitively
func lookupField(body map[string]any, key string) (any, bool) {
	if value, ok := body[key]; ok {
		return value, true
	}
	for k, value := range body {
		if strings.EqualFold(k, key) {
			return value, true
		}
	}
	return nil, false
}

// stringField returns the first present candidate key as a string
func stringField(body map[string]any, keys ...string) string {
	for _, key := range keys {
		value, found := lookupField(body, key)
		if !found {
			continue
		}
		switch v := value.(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return decimal.NewFromFloat(v).String()
		}
	}
	return ""
}

// intField returns the first present candidate key as an int64
func intField(body map[string]any, keys ...string) int64 {
	for _, key := range keys {
		value, found := lookupField(body, key)
		if !found {
			continue
		}
		switch v := value.(type) {
		case float64:
			return int64(v)
		case string:
			if d, err := decimal.NewFromString(v); err == nil {
				return d.IntPart()
			}
		}
	}
	return 0
}

// decimalField returns the first present candidate key as a decimal
func decimalField(body map[string]any, keys ...string) (decimal.Decimal, bool) {
	for _, key := range keys {
		value, found := lookupField(body, key)
		if !found {
			continue
		}
		switch v := value.(type) {
		case float64:
			return decimal.NewFromFloat(v), true
		case string:
			if d, err := decimal.NewFromString(v); err == nil {
				return d, true
			}
		}
	}
	return decimal.Zero, false
}

// listField returns the first present candidate key as a list
func listField(body map[string]any, keys ...string) ([]any, bool) {
	for _, key := range keys {
		value, found := lookupField(body, key)
		if !found {
			continue
		}
		if list, ok := value.([]any); ok {
			return list, true
		}
	}
	return nil, false
}
