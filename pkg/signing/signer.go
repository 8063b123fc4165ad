// Package signing produces and verifies keyed digests for public receipt links.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
)

// ErrEmptySecret is returned when the signer is built without a key.
var ErrEmptySecret = errors.New("signing secret must not be empty")

// Signer computes HMAC-SHA256 digests under a fixed process-wide secret.
type Signer struct {
	key []byte
}

// New creates a signer. An empty secret is a startup configuration error.
func New(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Signer{key: []byte(secret)}, nil
}

// Sign returns the lowercase hex HMAC-SHA256 of payload.
func (s *Signer) Sign(payload string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify re-signs payload and compares it to signature in constant time.
func (s *Signer) Verify(payload, signature string) bool {
	expected := s.Sign(payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ReceiptPayload is the canonical string signed for a receipt reference.
func ReceiptPayload(projectCode string, receiptID uint64) string {
	return projectCode + ":" + strconv.FormatUint(receiptID, 10)
}
