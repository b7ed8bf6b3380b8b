package shopify

import (
	"fmt"
	"strconv"
	"strings"
)

// gidPrefix is the scheme prefix of fully-qualified Shopify resource ids
const gidPrefix = "gid://"

// CanonicalLocationID promotes a bare location id to its gid form. Ids
// already in gid form pass through unchanged.
func CanonicalLocationID(id string) string {
	return canonicalID("Location", id)
}

// CanonicalInventoryItemID promotes a bare inventory item id to its gid
// form. Ids already in gid form pass through unchanged.
func CanonicalInventoryItemID(id string) string {
	return canonicalID("InventoryItem", id)
}

func canonicalID(resource, id string) string {
	if strings.HasPrefix(id, gidPrefix) {
		return id
	}
	return fmt.Sprintf("gid://shopify/%s/%s", resource, id)
}

// NumericID extracts the trailing numeric id from a gid. A bare numeric id
// is returned as-is.
func NumericID(gid string) (int64, error) {
	trimmed := gid
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	// Query-string suffixes appear on some legacy inventory item gids
	if idx := strings.Index(trimmed, "?"); idx >= 0 {
		trimmed = trimmed[:idx]
	}

	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("shopify: non-numeric resource id %q", gid)
	}
	return id, nil
}
