package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   ErrorKind
		code   string
		status int
	}{
		{"wrapped range", fmt.Errorf("%w: 10:00 >= 09:00", ErrInvalidRange), KindValidation, "INVALID_RANGE", http.StatusBadRequest},
		{"double wrapped", fmt.Errorf("subscribe: %w", fmt.Errorf("%w: tech-1", ErrTechnicianNotFound)), KindNotFound, "TECHNICIAN_NOT_FOUND", http.StatusNotFound},
		{"conflict", ErrAlreadySubscribed, KindConflict, "ALREADY_SUBSCRIBED", http.StatusConflict},
		{"business rule", ErrInsufficientBalance, KindBusinessRule, "INSUFFICIENT_BALANCE", http.StatusUnprocessableEntity},
		{"plain error", errors.New("connection reset"), KindInfrastructure, "INTERNAL", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.kind {
				t.Errorf("KindOf = %q, want %q", got, tt.kind)
			}
			if got := CodeOf(tt.err); got != tt.code {
				t.Errorf("CodeOf = %q, want %q", got, tt.code)
			}
			if got := HTTPStatus(tt.err); got != tt.status {
				t.Errorf("HTTPStatus = %d, want %d", got, tt.status)
			}
		})
	}
}

func TestWrappedSentinelMatches(t *testing.T) {
	err := fmt.Errorf("renew: %w", fmt.Errorf("%w: balance 100.00 < price 150.00", ErrInsufficientBalance))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatal("expected errors.Is to find ErrInsufficientBalance")
	}
	if errors.Is(err, ErrAlreadySubscribed) {
		t.Fatal("unexpected match on ErrAlreadySubscribed")
	}
}
