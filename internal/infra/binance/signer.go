package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signer handles Binance futures API authentication signatures
type Signer struct {
	apiKey    string
	apiSecret string
}

// NewSigner creates a new Signer instance
func NewSigner(apiKey, apiSecret string) *Signer {
	return &Signer{
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

// APIKey returns the key sent in the X-MBX-APIKEY header.
func (s *Signer) APIKey() string {
	return s.apiKey
}

// Sign computes the hex-encoded HMAC-SHA256 signature over the full query
// string (including timestamp and recvWindow), as signed endpoints require.
func (s *Signer) Sign(query string) string {
	h := hmac.New(sha256.New, []byte(s.apiSecret))
	h.Write([]byte(query))
	return hex.EncodeToString(h.Sum(nil))
}
