package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parselyze/parselyze-go/internal/middleware"
	"github.com/parselyze/parselyze-go/internal/webhook"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	secret = "whsec_test"
	body   = `{"eventId":"evt_1","eventType":"document.completed","jobId":"job_1","status":"completed","result":{"a":1},"pageCount":1,"timestamp":"2026-02-15T12:00:00Z"}`
)

type countingObserver struct {
	valid, invalid int
}

func (o *countingObserver) ObserveVerification(valid bool) {
	if valid {
		o.valid++
	} else {
		o.invalid++
	}
}

func newEngine(obs middleware.VerificationObserver) *gin.Engine {
	r := gin.New()
	r.POST("/hook", middleware.WebhookSignature(webhook.NewVerifier(secret), obs), func(c *gin.Context) {
		evt, ok := middleware.GetWebhookEvent(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"job_id": evt.JobID})
	})
	return r
}

func post(r *gin.Engine, payload, sig string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/hook", bytes.NewBufferString(payload))
	if sig != "" {
		req.Header.Set(webhook.SignatureHeader, sig)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookSignature_Valid(t *testing.T) {
	obs := &countingObserver{}
	sig, err := webhook.NewVerifier(secret).Sign(body)
	require.NoError(t, err)

	w := post(newEngine(obs), body, sig)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "job_1", resp["job_id"])
	assert.Equal(t, 1, obs.valid)
}

func TestWebhookSignature_InvalidSignature(t *testing.T) {
	obs := &countingObserver{}

	w := post(newEngine(obs), body, "deadbeef")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, false, resp["success"])
	errObj := resp["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_SIGNATURE", errObj["code"])
	assert.Equal(t, 1, obs.invalid)
}

func TestWebhookSignature_MissingHeader(t *testing.T) {
	w := post(newEngine(nil), body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookSignature_SignedButMalformed(t *testing.T) {
	payload := `{"eventId":"evt_1"}`
	sig, err := webhook.NewVerifier(secret).Sign(payload)
	require.NoError(t, err)

	w := post(newEngine(nil), payload, sig)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.ContextKeyRequestID))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", "req-42")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}
