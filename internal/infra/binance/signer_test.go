package binance

import (
	"testing"
)

func TestSigner_Sign(t *testing.T) {
	// Standard HMAC-SHA256 Test Vector
	// HMAC-SHA256("key", "The quick brown fox jumps over the lazy dog")
	// Hex: f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8
	signer := NewSigner("apiKey", "key")

	expected := "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8"
	result := signer.Sign("The quick brown fox jumps over the lazy dog")

	if result != expected {
		t.Errorf("HMAC Mismatch. Expected %s, got %s", expected, result)
	}
}

func TestSigner_Deterministic(t *testing.T) {
	signer := NewSigner("k", "secret")
	query := "symbol=BTCUSDT&side=BUY&type=MARKET&quantity=0.1&timestamp=1600000000000"

	first := signer.Sign(query)
	second := signer.Sign(query)

	if first == "" {
		t.Fatal("Computed signature is empty")
	}
	if first != second {
		t.Errorf("Signature not deterministic: %s vs %s", first, second)
	}
	if len(first) != 64 { // hex-encoded SHA256
		t.Errorf("Expected 64 hex chars, got %d", len(first))
	}
}

func TestSigner_APIKey(t *testing.T) {
	signer := NewSigner("my-key", "my-secret")
	if signer.APIKey() != "my-key" {
		t.Errorf("APIKey() = %s, want my-key", signer.APIKey())
	}
}
