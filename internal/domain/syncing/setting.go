package syncing

import "context"

// Well-known setting keys.
const (
	// SettingSyncIntervalMinutes controls the periodic full-sync interval
	SettingSyncIntervalMinutes = "sync_interval_minutes"
	// SettingWebhookSecret is the shared secret webhook senders present
	SettingWebhookSecret = "webhook_secret"
)

// DefaultSyncIntervalMinutes applies when no interval setting is stored.
const DefaultSyncIntervalMinutes = 180

// SettingRepository is the narrow key/value config provider for runtime
// tunables. Static credentials live in the process configuration instead.
type SettingRepository interface {
	// Get returns the stored value for key, or fallback when absent.
	Get(ctx context.Context, key, fallback string) (string, error)

	// Set inserts or replaces the value for key.
	Set(ctx context.Context, key, value string) error
}
