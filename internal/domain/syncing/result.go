package syncing

import (
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Run state and outcomes
// ---------------------------------------------------------------------------

// RunState is the lifecycle state of a full-sync run.
type RunState string

const (
	RunStateIdle      RunState = "idle"
	RunStateRunning   RunState = "running"
	RunStateCompleted RunState = "completed"
	RunStateFailed    RunState = "failed"
)

// UnitOutcome is the result of one product × mapping unit of work.
type UnitOutcome string

const (
	UnitUpdated  UnitOutcome = "updated"
	UnitNotFound UnitOutcome = "not_found"
	UnitSkipped  UnitOutcome = "skipped"
)

// Skip reasons reported by the webhook paths and the single-flight guard.
const (
	SkipAlreadyRunning      = "already_running"
	SkipNoMappings          = "no_mappings"
	SkipMappingNotFound     = "mapping_not_found"
	SkipMappingUndetermined = "mapping_undetermined"
	SkipNoSKUs              = "no_skus"
	SkipSkuNotFound         = "sku_not_found"
	SkipUnrecognizedPayload = "unrecognized_payload"
)

// FullSyncResult summarizes one full-sync run.
type FullSyncResult struct {
	// RunID identifies the run in the audit trail
	RunID uuid.UUID `json:"run_id"`
	// Started is false when the single-flight guard rejected the run
	Started bool `json:"started"`
	// SkipReason is set when Started is false
	SkipReason string `json:"skip_reason,omitempty"`
	// Products is the number of catalog products visited
	Products int `json:"products"`
	// Updated, NotFound, Skipped and Failed count product × mapping units
	Updated  int `json:"updated"`
	NotFound int `json:"not_found"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	// Elapsed is the wall-clock duration of the run
	Elapsed time.Duration `json:"elapsed"`
}

// WebhookResult is the outcome of one webhook dispatch.
type WebhookResult struct {
	// Status is "ok" or "skipped"
	Status string `json:"status"`
	// Reason carries the skip reason when Status is "skipped"
	Reason string `json:"reason,omitempty"`
	// Updated counts the quantity pushes issued
	Updated int `json:"updated"`
}

// OKWebhookResult builds a successful webhook outcome.
func OKWebhookResult(updated int) *WebhookResult {
	return &WebhookResult{Status: "ok", Updated: updated}
}

// SkippedWebhookResult builds a domain-skip webhook outcome.
func SkippedWebhookResult(reason string) *WebhookResult {
	return &WebhookResult{Status: "skipped", Reason: reason}
}
