package bling

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// APIError is an application-level error the Bling API embeds in an
// otherwise successful (HTTP 200) response body.
type APIError struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("bling: api error %s: %s (%s)", e.Type, e.Message, e.Description)
	}
	return fmt.Sprintf("bling: api error %s: %s", e.Type, e.Message)
}

// errorEnvelope is the wrapper Bling uses for embedded application errors
type errorEnvelope struct {
	Error *APIError `json:"error"`
}

// productListResponse is the response shape of the paginated catalog endpoint
type productListResponse struct {
	Data       []productPayload `json:"data"`
	Page       int              `json:"pagina"`
	TotalPages int              `json:"totalPaginas"`
}

// productPayload is one product row in a catalog page. Optional fields may
// be absent or null depending on the product's registration state.
type productPayload struct {
	ID   int64  `json:"id"`
	SKU  string `json:"codigo"`
	Name string `json:"nome"`
}

// productStockResponse is the response shape of the per-product stock endpoint
type productStockResponse struct {
	Data productStockPayload `json:"data"`
}

type productStockPayload struct {
	Product  productPayload  `json:"produto"`
	Deposits json.RawMessage `json:"depositos"`
}

// depositPayload is one warehouse balance inside a stock breakdown
type depositPayload struct {
	ID       json.Number     `json:"id"`
	Name     string          `json:"nome"`
	Quantity decimal.Decimal `json:"saldo"`
}

// normalizeDeposits decodes the per-warehouse breakdown, which the API
// returns as an array for multi-warehouse products and as a bare object
// for single-warehouse ones.
func normalizeDeposits(raw json.RawMessage) ([]depositPayload, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var deposits []depositPayload
	if err := json.Unmarshal(raw, &deposits); err == nil {
		return deposits, nil
	}

	var single depositPayload
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("bling: unrecognized deposit shape: %w", err)
	}
	return []depositPayload{single}, nil
}
