package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"techmate/models"
	"techmate/utils"
)

func TestChargeConvertsToMinorUnits(t *testing.T) {
	var got *stripe.PaymentIntentParams
	g := NewStripeGateway(zap.NewNop())
	g.newIntent = func(p *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
		got = p
		return &stripe.PaymentIntent{ID: "pi_123", Status: stripe.PaymentIntentStatusSucceeded}, nil
	}

	ref, err := g.Charge(context.Background(), models.ChargeRequest{
		TechnicianID:    "tech-1",
		Amount:          19.99,
		Currency:        "usd",
		PaymentMethodID: "pm_card_visa",
		IdempotencyKey:  "sub-1",
	})
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if ref != "pi_123" {
		t.Errorf("reference = %q, want pi_123", ref)
	}
	if *got.Amount != 1999 {
		t.Errorf("amount = %d, want 1999", *got.Amount)
	}
	if got.Metadata["technicianId"] != "tech-1" {
		t.Errorf("metadata = %v, want technicianId", got.Metadata)
	}
	if got.IdempotencyKey == nil || *got.IdempotencyKey != "sub-1" {
		t.Error("idempotency key not forwarded")
	}
}

func TestChargeMapsCardErrors(t *testing.T) {
	tests := []struct {
		name    string
		intent  *stripe.PaymentIntent
		err     error
		wantErr error
	}{
		{
			name:    "declined",
			err:     &stripe.Error{Type: stripe.ErrorTypeCard, Msg: "Your card was declined."},
			wantErr: utils.ErrPaymentDeclined,
		},
		{
			name:    "requires action",
			intent:  &stripe.PaymentIntent{ID: "pi_1", Status: stripe.PaymentIntentStatusRequiresAction},
			wantErr: utils.ErrPaymentDeclined,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewStripeGateway(zap.NewNop())
			g.newIntent = func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
				return tt.intent, tt.err
			}
			_, err := g.Charge(context.Background(), models.ChargeRequest{Amount: 5, Currency: "usd", PaymentMethodID: "pm"})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestChargeRequiresPaymentMethod(t *testing.T) {
	g := NewStripeGateway(zap.NewNop())
	g.newIntent = func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
		t.Fatal("stripe must not be called")
		return nil, nil
	}
	if _, err := g.Charge(context.Background(), models.ChargeRequest{Amount: 5}); !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestRefundUsesPaymentIntent(t *testing.T) {
	var got *stripe.RefundParams
	g := NewStripeGateway(zap.NewNop())
	g.newRefund = func(p *stripe.RefundParams) (*stripe.Refund, error) {
		got = p
		return &stripe.Refund{ID: "re_1"}, nil
	}
	if err := g.Refund(context.Background(), "pi_9"); err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if *got.PaymentIntent != "pi_9" {
		t.Errorf("refunded %q, want pi_9", *got.PaymentIntent)
	}
}
