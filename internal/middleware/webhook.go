package middleware

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parselyze/parselyze-go/internal/domain"
	"github.com/parselyze/parselyze-go/internal/webhook"
)

const (
	ContextKeyWebhookEvent = "webhook_event"
	ContextKeyWebhookBody  = "webhook_body"

	maxWebhookBody = 10 << 20
)

// VerificationObserver is notified of each signature check.
type VerificationObserver interface {
	ObserveVerification(valid bool)
}

// WebhookSignature returns middleware that authenticates Parselyze webhooks.
// The raw body is checked against the X-Webhook-Signature header before it is
// decoded; the decoded event is stored in the context. observer may be nil.
func WebhookSignature(v *webhook.Verifier, observer VerificationObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error":   gin.H{"code": "BODY_TOO_LARGE", "message": "webhook body could not be read"},
			})
			return
		}

		valid := v.Verify(body, c.GetHeader(webhook.SignatureHeader))
		if observer != nil {
			observer.ObserveVerification(valid)
		}
		if !valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "INVALID_SIGNATURE", "message": "invalid webhook signature"},
			})
			return
		}

		evt, err := webhook.DecodeEvent(body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   gin.H{"code": "INVALID_PAYLOAD", "message": err.Error()},
			})
			return
		}

		c.Set(ContextKeyWebhookBody, body)
		c.Set(ContextKeyWebhookEvent, evt)
		c.Next()
	}
}

// GetWebhookEvent extracts the verified event from the Gin context.
func GetWebhookEvent(c *gin.Context) (*domain.WebhookEvent, bool) {
	val, exists := c.Get(ContextKeyWebhookEvent)
	if !exists {
		return nil, false
	}
	evt, ok := val.(*domain.WebhookEvent)
	return evt, ok
}
