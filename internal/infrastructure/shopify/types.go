package shopify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GraphQLErrors is a top-level error list returned by the Admin API in a
// 200 response, distinct from transport failures.
type GraphQLErrors struct {
	Messages []string
}

// Error implements the error interface
func (e *GraphQLErrors) Error() string {
	return "shopify: graphql error: " + strings.Join(e.Messages, "; ")
}

// UserErrors is the field-level validation error list a mutation reports.
// All messages are concatenated into one failure.
type UserErrors struct {
	Messages []string
}

// Error implements the error interface
func (e *UserErrors) Error() string {
	return "shopify: user errors: " + strings.Join(e.Messages, "; ")
}

// graphQLRequest is the POST body for the Admin GraphQL endpoint
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLResponse is the envelope every Admin GraphQL response arrives in
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// locationsData is the query result shape of the locations query
type locationsData struct {
	Locations struct {
		Edges []struct {
			Node struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"locations"`
}

// variantsData is the query result shape of the variant-by-sku lookup
type variantsData struct {
	ProductVariants struct {
		Edges []struct {
			Node struct {
				ID            string `json:"id"`
				DisplayName   string `json:"displayName"`
				InventoryItem struct {
					ID string `json:"id"`
				} `json:"inventoryItem"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"productVariants"`
}

// setQuantitiesData is the mutation result shape of inventorySetQuantities
type setQuantitiesData struct {
	InventorySetQuantities struct {
		UserErrors []struct {
			Field   []string `json:"field"`
			Message string   `json:"message"`
		} `json:"userErrors"`
	} `json:"inventorySetQuantities"`
}

// collectUserErrors flattens mutation user errors into one typed error, or
// nil when the list is empty
func (d *setQuantitiesData) collectUserErrors() error {
	raw := d.InventorySetQuantities.UserErrors
	if len(raw) == 0 {
		return nil
	}

	messages := make([]string, 0, len(raw))
	for _, ue := range raw {
		if len(ue.Field) > 0 {
			messages = append(messages, fmt.Sprintf("%s: %s", strings.Join(ue.Field, "."), ue.Message))
		} else {
			messages = append(messages, ue.Message)
		}
	}
	return &UserErrors{Messages: messages}
}
