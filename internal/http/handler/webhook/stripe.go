package webhook

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/membership/internal/billing"
	"basegraph.app/membership/internal/service"
)

const maxPayloadBytes = 65536

type StripeWebhookHandler struct {
	verifier billing.WebhookVerifier
	sync     service.SubscriptionSyncService
}

func NewStripeWebhookHandler(verifier billing.WebhookVerifier, sync service.SubscriptionSyncService) *StripeWebhookHandler {
	return &StripeWebhookHandler{verifier: verifier, sync: sync}
}

// HandleEvent mirrors subscription changes made outside the membership
// workflow, e.g. plan changes in the billing portal.
func (h *StripeWebhookHandler) HandleEvent(c *gin.Context) {
	ctx := c.Request.Context()

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing signature"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	event, err := h.verifier.ParseEvent(body, signature)
	if err != nil {
		if errors.Is(err, billing.ErrInvalidSignature) {
			slog.WarnContext(ctx, "rejected stripe webhook with bad signature")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}
		slog.WarnContext(ctx, "failed to parse stripe webhook", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if event.Subscription == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "event type not handled"})
		return
	}

	if err := h.sync.SyncFromProvider(ctx, event.Subscription); err != nil {
		slog.ErrorContext(ctx, "failed to sync subscription from webhook",
			"error", err,
			"event_id", event.ID,
			"event_type", event.Type)
		// non-2xx makes Stripe retry the delivery
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
		return
	}

	slog.InfoContext(ctx, "stripe webhook processed",
		"event_id", event.ID,
		"event_type", event.Type)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
