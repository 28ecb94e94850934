package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"

	"techmate/models"
	"techmate/utils"
)

// Gateway moves money for card subscriptions. Charge returns an opaque
// reference that Refund accepts.
type Gateway interface {
	Charge(ctx context.Context, req models.ChargeRequest) (string, error)
	Refund(ctx context.Context, reference string) error
}

type intentCreator func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
type refundCreator func(params *stripe.RefundParams) (*stripe.Refund, error)

// StripeGateway charges saved card payment methods off-session. The API key
// is read from stripe.Key, set once at startup.
type StripeGateway struct {
	logger    *zap.Logger
	newIntent intentCreator
	newRefund refundCreator
}

func NewStripeGateway(logger *zap.Logger) *StripeGateway {
	return &StripeGateway{
		logger:    logger,
		newIntent: paymentintent.New,
		newRefund: refund.New,
	}
}

func (g *StripeGateway) Charge(ctx context.Context, req models.ChargeRequest) (string, error) {
	if req.PaymentMethodID == "" {
		return "", fmt.Errorf("%w: card payment method is required", utils.ErrInvalidInput)
	}
	cents := decimal.NewFromFloat(req.Amount).Shift(2).Round(0).IntPart()
	if cents <= 0 {
		return "", fmt.Errorf("%w: charge amount must be positive", utils.ErrInvalidInput)
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(cents),
		Currency:      stripe.String(req.Currency),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	params.AddMetadata("technicianId", req.TechnicianID)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := g.newIntent(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			g.logger.Info("card charge declined",
				zap.String("technicianID", req.TechnicianID),
				zap.String("declineCode", string(stripeErr.DeclineCode)))
			return "", fmt.Errorf("%w: %s", utils.ErrPaymentDeclined, stripeErr.Msg)
		}
		return "", fmt.Errorf("stripe charge failed: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		// Anything short of succeeded needs customer action we cannot take here.
		return "", fmt.Errorf("%w: payment intent %s is %s", utils.ErrPaymentDeclined, pi.ID, pi.Status)
	}

	g.logger.Info("card charge succeeded",
		zap.String("technicianID", req.TechnicianID),
		zap.String("paymentIntent", pi.ID),
		zap.Int64("amountCents", cents))
	return pi.ID, nil
}

func (g *StripeGateway) Refund(ctx context.Context, reference string) error {
	params := &stripe.RefundParams{PaymentIntent: stripe.String(reference)}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + reference)

	if _, err := g.newRefund(params); err != nil {
		return fmt.Errorf("stripe refund of %s failed: %w", reference, err)
	}
	g.logger.Info("card charge refunded", zap.String("paymentIntent", reference))
	return nil
}
