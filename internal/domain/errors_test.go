package domain

import (
	"errors"
	"testing"
)

func TestTransportError(t *testing.T) {
	baseErr := errors.New("connection refused")

	t.Run("retriable error", func(t *testing.T) {
		err := NewTransportError("create_order", baseErr)

		if !err.IsRetriable() {
			t.Error("Expected transport error to be retriable")
		}

		if err.Error() != "create_order: connection refused" {
			t.Errorf("Error message = %q, want %q", err.Error(), "create_order: connection refused")
		}

		if !errors.Is(err, baseErr) {
			t.Error("Expected error to wrap baseErr")
		}
	})

	t.Run("IsRetriable helper", func(t *testing.T) {
		transport := NewTransportError("get_ticker", baseErr)
		exchange := &ExchangeError{Code: -2019, Message: "Margin is insufficient"}
		validation := &ValidationError{Field: "quantity", Reason: "must be positive"}
		plain := errors.New("plain error")

		if !IsRetriable(transport) {
			t.Error("IsRetriable should return true for transport error")
		}
		if IsRetriable(exchange) {
			t.Error("IsRetriable should return false for exchange rejection")
		}
		if IsRetriable(validation) {
			t.Error("IsRetriable should return false for validation error")
		}
		if IsRetriable(plain) {
			t.Error("IsRetriable should return false for plain error")
		}
	})
}

func TestExchangeError_Message(t *testing.T) {
	err := &ExchangeError{Code: -1121, Message: "Invalid symbol."}

	want := "exchange rejected request: code=-1121 msg=Invalid symbol."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestValidationError_AsTarget(t *testing.T) {
	var err error = &ValidationError{Field: "price", Reason: "must be positive"}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("errors.As should match *ValidationError")
	}
	if ve.Field != "price" {
		t.Errorf("Field = %q, want %q", ve.Field, "price")
	}
}
