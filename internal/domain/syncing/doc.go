// Package syncing contains the stock synchronization bounded context.
// It keeps warehouse-level stock from the source ERP consistent with
// location-level stock on the storefront platform.
//
// Key concepts:
//   - Mapping: warehouse → storefront location binding that routes quantities
//   - SkuBinding: memoized SKU → remote inventory item resolution
//   - SourceConnector / SinkConnector: port interfaces for the ERP and the storefront
//   - SyncEvent: append-only audit trail of every attempted unit of work
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package syncing
