// Package auth guards the inbound edge: Slack request-signature verification
// and the admin allowlist. There is no credential flow of its own; Slack's
// signing secret is the only shared secret.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Slack rejects replayed requests older than five minutes; so do we.
const maxTimestampAge = 5 * time.Minute

var (
	ErrStaleTimestamp    = errors.New("request timestamp outside tolerance")
	ErrSignatureMismatch = errors.New("request signature mismatch")
)

// SignatureVerifier checks Slack's v0 HMAC request signatures.
type SignatureVerifier struct {
	secret []byte
	now    func() time.Time
}

// NewSignatureVerifier builds a verifier for the given signing secret.
func NewSignatureVerifier(signingSecret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(signingSecret), now: time.Now}
}

// Verify validates the X-Slack-Request-Timestamp / X-Slack-Signature pair
// against the raw request body.
func (v *SignatureVerifier) Verify(timestamp, signature string, body []byte) error {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrStaleTimestamp
	}
	age := v.now().Sub(time.Unix(ts, 0))
	if age > maxTimestampAge || age < -maxTimestampAge {
		return ErrStaleTimestamp
	}

	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "v0:%s:", timestamp)
	mac.Write(body)
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}
