package syncing

import "errors"

var (
	// Mapping errors
	ErrMappingInvalidWarehouseID = errors.New("syncing: warehouse ID must not be empty")
	ErrMappingInvalidLocationID  = errors.New("syncing: location ID must not be empty")
	ErrMappingNotFound           = errors.New("syncing: mapping not found")

	// Resolution cache errors
	ErrBindingNotFound = errors.New("syncing: sku binding not found")
)
