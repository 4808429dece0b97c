// Package webhook authenticates notifications sent by Parselyze when an
// asynchronous job finishes.
//
// Each notification carries a lowercase hex HMAC-SHA256 of its body, keyed by
// the webhook secret, in the X-Webhook-Signature header.
package webhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/parselyze/parselyze-go/internal/domain"
)

// SignatureHeader carries the body signature on inbound webhooks.
const SignatureHeader = "X-Webhook-Signature"

// Verifier checks webhook signatures against a shared secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier. With an empty secret every check fails.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// HasSecret reports whether a secret was configured.
func (v *Verifier) HasSecret() bool {
	return v != nil && len(v.secret) > 0
}

// Verify reports whether signature authenticates body.
//
// body may be the raw request body (string, []byte or json.RawMessage), which
// is signed byte-for-byte, or a decoded value such as *domain.WebhookEvent,
// which is re-encoded as compact JSON first. Prefer the raw body. Re-encoding
// is lossy: a map orders keys alphabetically, and a decoded event drops
// explicit nulls such as "error":null or "result":null along with any field
// it does not know, so its bytes will not match what the sender signed.
func (v *Verifier) Verify(body interface{}, signature string) bool {
	if !v.HasSecret() || signature == "" {
		return false
	}
	expected, err := v.Sign(body)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(signature), []byte(expected))
}

// Sign returns the lowercase hex signature of body.
func (v *Verifier) Sign(body interface{}) (string, error) {
	payload, err := Canonicalize(body)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Canonicalize returns the bytes a signature is computed over.
func Canonicalize(body interface{}) ([]byte, error) {
	switch b := body.(type) {
	case string:
		return []byte(b), nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return nil, fmt.Errorf("encoding webhook body: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DecodeEvent parses a webhook body. Unknown event types and statuses are kept
// as-is.
func DecodeEvent(raw []byte) (*domain.WebhookEvent, error) {
	var evt domain.WebhookEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return nil, fmt.Errorf("decoding webhook event: %w", err)
	}
	if evt.JobID == "" {
		return nil, fmt.Errorf("decoding webhook event: missing jobId")
	}
	if domain.IsNullJSON(evt.Result) {
		evt.Result = nil
	}
	return &evt, nil
}
