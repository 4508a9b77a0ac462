package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"
)

func signBody(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:", timestamp)
	mac.Write(body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func TestSignatureVerifier(t *testing.T) {
	const secret = "8f742231b10e8888abcd99yyyzzz85a5"
	now := time.Date(2023, 11, 18, 12, 0, 0, 0, time.UTC)
	body := []byte("token=xyz&command=%2Finit&text=Tanaka+Taro")

	verifier := NewSignatureVerifier(secret)
	verifier.now = func() time.Time { return now }

	timestamp := strconv.FormatInt(now.Unix(), 10)

	if err := verifier.Verify(timestamp, signBody(secret, timestamp, body), body); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}

	if err := verifier.Verify(timestamp, signBody(secret, timestamp, body), []byte("tampered")); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("tampered body: err = %v, want ErrSignatureMismatch", err)
	}

	if err := verifier.Verify(timestamp, signBody("wrong-secret", timestamp, body), body); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("wrong secret: err = %v, want ErrSignatureMismatch", err)
	}

	stale := strconv.FormatInt(now.Add(-10*time.Minute).Unix(), 10)
	if err := verifier.Verify(stale, signBody(secret, stale, body), body); !errors.Is(err, ErrStaleTimestamp) {
		t.Errorf("stale timestamp: err = %v, want ErrStaleTimestamp", err)
	}

	if err := verifier.Verify("not-a-number", "v0=whatever", body); !errors.Is(err, ErrStaleTimestamp) {
		t.Errorf("bad timestamp: err = %v, want ErrStaleTimestamp", err)
	}
}

func TestAdminList(t *testing.T) {
	admins := NewAdminList([]string{"U0ADMIN1", "U0ADMIN2"})

	if !admins.IsAdmin("U0ADMIN1") {
		t.Error("U0ADMIN1 should be an admin")
	}
	if admins.IsAdmin("U0MEMBER") {
		t.Error("U0MEMBER should not be an admin")
	}
	if NewAdminList(nil).IsAdmin("U0ADMIN1") {
		t.Error("empty allowlist should reject everyone")
	}
}
