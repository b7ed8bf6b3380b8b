package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stocksync/backend/internal/domain/syncing"
	"github.com/stocksync/backend/internal/interfaces/http/dto"
)

// WebhookTokenHeader carries the shared secret on webhook deliveries
const WebhookTokenHeader = "X-Webhook-Token"

// SecretProvider yields the current webhook shared secret
type SecretProvider func(c *gin.Context) string

// WebhookAuth verifies the shared-secret header on webhook routes using a
// constant-time comparison. Rejections are recorded on the audit trail.
func WebhookAuth(secret SecretProvider, events syncing.EventRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := secret(c)
		if expected == "" {
			// An unset secret means webhooks are not provisioned
			events.Record(c.Request.Context(), syncing.EventTypeConfig, syncing.EventStatusError,
				"webhook secret not configured", nil)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				dto.NewErrorResponse(dto.ErrCodeInternal, "webhook secret not configured"))
			return
		}

		supplied := c.GetHeader(WebhookTokenHeader)
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(expected)) != 1 {
			eventType := syncing.EventTypeWebhookStock
			if strings.HasSuffix(c.Request.URL.Path, "/sales") {
				eventType = syncing.EventTypeWebhookSales
			}
			events.Record(c.Request.Context(), eventType, syncing.EventStatusUnauthorized,
				"webhook token rejected",
				map[string]any{"path": c.Request.URL.Path})
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "invalid webhook token"))
			return
		}

		c.Next()
	}
}
