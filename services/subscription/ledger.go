package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"techmate/database"
	commissionRepo "techmate/database/repository/commission"
	subscriptionRepo "techmate/database/repository/subscription"
	technicianRepo "techmate/database/repository/technician"
	"techmate/models"
	"techmate/services/payment"
	"techmate/utils"
)

// SubscriptionService is the technician-facing side of commission packages.
type SubscriptionService interface {
	Subscribe(ctx context.Context, technicianID, packageID string, method models.PaymentMethod, opts ...PaymentOption) (*models.TechnicianSubscription, error)
	Renew(ctx context.Context, technicianID string, method models.PaymentMethod, opts ...PaymentOption) (*models.TechnicianSubscription, error)
	// CurrentSubscription returns nil, nil when the technician has no ACTIVE subscription.
	CurrentSubscription(ctx context.Context, technicianID string) (*models.SubscriptionDetails, error)
	PaymentHistory(ctx context.Context, technicianID string) ([]models.TechnicianSubscription, error)
	Cancel(ctx context.Context, technicianID string) (*models.TechnicianSubscription, error)
}

type paymentOptions struct {
	cardToken string
}

type PaymentOption func(*paymentOptions)

// WithCardToken sets the saved card payment method used for CARD payments.
func WithCardToken(token string) PaymentOption {
	return func(o *paymentOptions) { o.cardToken = token }
}

// Ledger implements SubscriptionService. Balance debits and subscription
// writes for one call commit together through Tx.
type Ledger struct {
	Subscriptions subscriptionRepo.SubscriptionRepository
	Packages      commissionRepo.PackageRepository
	Technicians   technicianRepo.TechnicianRepository
	Tx            database.Transactor
	Payments      payment.Gateway
	Logger        *zap.Logger
	Currency      string
	Now           func() time.Time
}

func NewLedger(
	subs subscriptionRepo.SubscriptionRepository,
	packages commissionRepo.PackageRepository,
	techs technicianRepo.TechnicianRepository,
	tx database.Transactor,
	payments payment.Gateway,
	logger *zap.Logger,
	currency string,
) *Ledger {
	return &Ledger{
		Subscriptions: subs,
		Packages:      packages,
		Technicians:   techs,
		Tx:            tx,
		Payments:      payments,
		Logger:        logger,
		Currency:      currency,
		Now:           time.Now,
	}
}

func (l *Ledger) Subscribe(ctx context.Context, technicianID, packageID string, method models.PaymentMethod, opts ...PaymentOption) (*models.TechnicianSubscription, error) {
	if technicianID == "" || packageID == "" {
		return nil, fmt.Errorf("%w: technician and package are required", utils.ErrInvalidInput)
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", utils.ErrInvalidPaymentMethod, method)
	}

	pkg, err := l.Packages.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", utils.ErrPackageUnavailable, packageID)
		}
		return nil, err
	}
	if !pkg.IsActive {
		return nil, fmt.Errorf("%w: %s is inactive", utils.ErrPackageUnavailable, packageID)
	}

	if _, err := l.Subscriptions.FindActiveByTechnician(ctx, technicianID); err == nil {
		return nil, fmt.Errorf("%w: technician %s", utils.ErrAlreadySubscribed, technicianID)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	tech, err := l.technician(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	price := priceOf(pkg)
	if err := checkBalance(tech, price, method); err != nil {
		return nil, err
	}

	now := l.Now().UTC()
	record, err := l.collect(ctx, tech.ID, pkg, price, method, now, opts)
	if err != nil {
		return nil, err
	}

	sub := &models.TechnicianSubscription{
		ID:             uuid.New().String(),
		TechnicianID:   technicianID,
		PackageID:      pkg.ID,
		StartDate:      now,
		EndDate:        addMonth(now),
		Status:         models.SubscriptionActive,
		PaymentHistory: []models.PaymentRecord{record},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = l.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := l.debit(ctx, technicianID, price, method); err != nil {
			return err
		}
		return l.Subscriptions.Create(ctx, sub)
	})
	if err != nil {
		l.compensate(ctx, record)
		return nil, err
	}

	l.Logger.Info("technician subscribed",
		zap.String("technicianId", technicianID),
		zap.String("packageId", pkg.ID),
		zap.String("subscriptionId", sub.ID),
		zap.String("method", string(method)),
		zap.Time("endDate", sub.EndDate),
	)
	return sub, nil
}

// Renew extends the ACTIVE subscription by one calendar month counted from its
// current end date. The package only has to exist; an inactive package can
// still be renewed by technicians already on it.
func (l *Ledger) Renew(ctx context.Context, technicianID string, method models.PaymentMethod, opts ...PaymentOption) (*models.TechnicianSubscription, error) {
	if technicianID == "" {
		return nil, fmt.Errorf("%w: technician is required", utils.ErrInvalidInput)
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", utils.ErrInvalidPaymentMethod, method)
	}

	current, err := l.active(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	pkg, err := l.Packages.GetByID(ctx, current.PackageID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", utils.ErrPackageUnavailable, current.PackageID)
		}
		return nil, err
	}

	tech, err := l.technician(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	price := priceOf(pkg)
	if err := checkBalance(tech, price, method); err != nil {
		return nil, err
	}

	now := l.Now().UTC()
	record, err := l.collect(ctx, tech.ID, pkg, price, method, now, opts)
	if err != nil {
		return nil, err
	}
	newEnd := addMonth(current.EndDate)

	err = l.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := l.debit(ctx, technicianID, price, method); err != nil {
			return err
		}
		ok, err := l.Subscriptions.ExtendActive(ctx, current.ID, current.EndDate, newEnd, record)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: subscription %s changed while renewing", utils.ErrInvalidTransition, current.ID)
		}
		return nil
	})
	if err != nil {
		l.compensate(ctx, record)
		return nil, err
	}

	current.EndDate = newEnd
	current.UpdatedAt = now
	current.PaymentHistory = append(current.PaymentHistory, record)

	l.Logger.Info("subscription renewed",
		zap.String("technicianId", technicianID),
		zap.String("subscriptionId", current.ID),
		zap.Time("endDate", newEnd),
	)
	return current, nil
}

func (l *Ledger) CurrentSubscription(ctx context.Context, technicianID string) (*models.SubscriptionDetails, error) {
	sub, err := l.Subscriptions.FindActiveByTechnician(ctx, technicianID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	details := &models.SubscriptionDetails{TechnicianSubscription: *sub}
	pkg, err := l.Packages.GetByID(ctx, sub.PackageID)
	switch {
	case err == nil:
		details.Package = pkg
	case errors.Is(err, mongo.ErrNoDocuments):
		l.Logger.Warn("subscription references a missing package",
			zap.String("subscriptionId", sub.ID),
			zap.String("packageId", sub.PackageID),
		)
	default:
		return nil, err
	}
	return details, nil
}

func (l *Ledger) PaymentHistory(ctx context.Context, technicianID string) ([]models.TechnicianSubscription, error) {
	if technicianID == "" {
		return nil, fmt.Errorf("%w: technician is required", utils.ErrInvalidInput)
	}
	return l.Subscriptions.ListByTechnician(ctx, technicianID)
}

// Cancel ends the ACTIVE subscription immediately. Nothing is refunded.
func (l *Ledger) Cancel(ctx context.Context, technicianID string) (*models.TechnicianSubscription, error) {
	current, err := l.active(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(models.SubscriptionCancelled) {
		return nil, fmt.Errorf("%w: %s -> %s", utils.ErrInvalidTransition, current.Status, models.SubscriptionCancelled)
	}

	ok, err := l.Subscriptions.TransitionStatus(ctx, current.ID, models.SubscriptionActive, models.SubscriptionCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: technician %s", utils.ErrNoActiveSubscription, technicianID)
	}

	current.Status = models.SubscriptionCancelled
	current.UpdatedAt = l.Now().UTC()
	l.Logger.Info("subscription cancelled",
		zap.String("technicianId", technicianID),
		zap.String("subscriptionId", current.ID),
	)
	return current, nil
}

func (l *Ledger) active(ctx context.Context, technicianID string) (*models.TechnicianSubscription, error) {
	sub, err := l.Subscriptions.FindActiveByTechnician(ctx, technicianID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: technician %s", utils.ErrNoActiveSubscription, technicianID)
		}
		return nil, err
	}
	return sub, nil
}

func (l *Ledger) technician(ctx context.Context, technicianID string) (*models.Technician, error) {
	tech, err := l.Technicians.GetByID(ctx, technicianID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", utils.ErrTechnicianNotFound, technicianID)
		}
		return nil, err
	}
	return tech, nil
}

// collect takes the money for non-balance methods and builds the payment
// entry. BALANCE is debited later, inside the transaction.
func (l *Ledger) collect(ctx context.Context, technicianID string, pkg *models.CommissionPackage, price decimal.Decimal, method models.PaymentMethod, now time.Time, opts []PaymentOption) (models.PaymentRecord, error) {
	record := models.PaymentRecord{
		ID:     uuid.New().String(),
		Amount: price.InexactFloat64(),
		PaidAt: now,
		Method: method,
	}
	if method != models.PaymentMethodCard {
		return record, nil
	}

	var o paymentOptions
	for _, opt := range opts {
		opt(&o)
	}
	if l.Payments == nil {
		return record, fmt.Errorf("%w: card payments are not configured", utils.ErrInvalidPaymentMethod)
	}
	ref, err := l.Payments.Charge(ctx, models.ChargeRequest{
		TechnicianID:    technicianID,
		Amount:          record.Amount,
		Currency:        l.Currency,
		PaymentMethodID: o.cardToken,
		Description:     "Commission package " + pkg.Name,
		IdempotencyKey:  record.ID,
		Metadata:        map[string]string{"packageId": pkg.ID, "paymentId": record.ID},
	})
	if err != nil {
		return record, err
	}
	record.Reference = ref
	return record, nil
}

func (l *Ledger) debit(ctx context.Context, technicianID string, price decimal.Decimal, method models.PaymentMethod) error {
	if method != models.PaymentMethodBalance {
		return nil
	}
	ok, err := l.Technicians.DebitBalance(ctx, technicianID, price.InexactFloat64())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: technician %s", utils.ErrInsufficientBalance, technicianID)
	}
	return nil
}

// compensate refunds a card charge whose subscription write did not commit.
func (l *Ledger) compensate(ctx context.Context, record models.PaymentRecord) {
	if record.Method != models.PaymentMethodCard || record.Reference == "" {
		return
	}
	if err := l.Payments.Refund(context.WithoutCancel(ctx), record.Reference); err != nil {
		l.Logger.Error("refund after failed subscription write did not go through",
			zap.String("reference", record.Reference),
			zap.Error(err),
		)
	}
}

func priceOf(pkg *models.CommissionPackage) decimal.Decimal {
	return decimal.NewFromFloat(pkg.Price).Round(2)
}

func checkBalance(tech *models.Technician, price decimal.Decimal, method models.PaymentMethod) error {
	if method != models.PaymentMethodBalance {
		return nil
	}
	if decimal.NewFromFloat(tech.Balance).LessThan(price) {
		return fmt.Errorf("%w: balance %.2f, price %s", utils.ErrInsufficientBalance, tech.Balance, price.StringFixed(2))
	}
	return nil
}

// addMonth adds one calendar month, clamping to the last day of the target
// month (Jan 31 -> Feb 28 or 29).
func addMonth(t time.Time) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+1, 1, 0, 0, 0, 0, t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
