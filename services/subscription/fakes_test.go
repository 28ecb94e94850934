package subscription

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"techmate/models"
	"techmate/utils"
)

// store is an in-memory stand-in for the technicians, packages and
// subscriptions collections. Its transactor serialises transactions and
// restores a snapshot when fn fails.
type store struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	techs    map[string]models.Technician
	packages map[string]models.CommissionPackage
	subs     map[string]models.TechnicianSubscription

	createErr error
	// debitFailures are returned by DebitBalance, one per call, before any real debit.
	debitFailures []error
	// beforeRetry runs between transaction attempts.
	beforeRetry func()
	attempts    int
	expireErr   map[string]error
	// beforeExtend runs inside ExtendActive before the condition is checked.
	beforeExtend func()
}

func newStore() *store {
	return &store{
		techs:     map[string]models.Technician{},
		packages:  map[string]models.CommissionPackage{},
		subs:      map[string]models.TechnicianSubscription{},
		expireErr: map[string]error{},
	}
}

func (s *store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	for {
		s.attempts++
		s.mu.Lock()
		techs := make(map[string]models.Technician, len(s.techs))
		for k, v := range s.techs {
			techs[k] = v
		}
		subs := make(map[string]models.TechnicianSubscription, len(s.subs))
		for k, v := range s.subs {
			subs[k] = v
		}
		s.mu.Unlock()

		err := fn(ctx)
		if err == nil {
			return nil
		}
		s.mu.Lock()
		s.techs, s.subs = techs, subs
		s.mu.Unlock()

		// Like the driver, re-run the whole transaction on transient errors.
		var serverErr mongo.ServerError
		if !errors.As(err, &serverErr) || !serverErr.HasErrorLabel("TransientTransactionError") {
			return err
		}
		if s.beforeRetry != nil {
			s.beforeRetry()
		}
	}
}

// technicians

type techRepo struct{ *store }

func (r techRepo) GetByID(ctx context.Context, id string) (*models.Technician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.techs[id]
	if !ok {
		return nil, fmt.Errorf("technician %s: %w", id, mongo.ErrNoDocuments)
	}
	return &t, nil
}

func (r techRepo) ListByStatusAndAvailability(ctx context.Context, status models.TechnicianStatus, availability models.Availability, afterID string, limit int64) ([]models.Technician, error) {
	return nil, errors.New("not used")
}

func (r techRepo) TransitionAvailability(ctx context.Context, id string, from, to models.Availability) (bool, error) {
	return false, errors.New("not used")
}

func (r techRepo) DebitBalance(ctx context.Context, id string, amount float64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.debitFailures) > 0 {
		err := r.debitFailures[0]
		r.debitFailures = r.debitFailures[1:]
		return false, err
	}
	t, ok := r.techs[id]
	if !ok || t.Balance < amount {
		return false, nil
	}
	t.Balance -= amount
	r.techs[id] = t
	return true, nil
}

func (r techRepo) EnsureIndexes(ctx context.Context) error { return nil }

// packages

type pkgRepo struct{ *store }

func (r pkgRepo) GetByID(ctx context.Context, id string) (*models.CommissionPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.packages[id]
	if !ok {
		return nil, fmt.Errorf("commission package %s: %w", id, mongo.ErrNoDocuments)
	}
	return &p, nil
}

// subscriptions

type subRepo struct{ *store }

func (r subRepo) Create(ctx context.Context, sub *models.TechnicianSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.subs {
		if existing.TechnicianID == sub.TechnicianID && existing.Status == models.SubscriptionActive {
			return fmt.Errorf("%w: technician %s", utils.ErrAlreadySubscribed, sub.TechnicianID)
		}
	}
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	r.subs[sub.ID] = clone(*sub)
	return nil
}

func (r subRepo) FindActiveByTechnician(ctx context.Context, technicianID string) (*models.TechnicianSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.TechnicianID == technicianID && s.Status == models.SubscriptionActive {
			c := clone(s)
			return &c, nil
		}
	}
	return nil, fmt.Errorf("active subscription for %s: %w", technicianID, mongo.ErrNoDocuments)
}

func (r subRepo) ListByTechnician(ctx context.Context, technicianID string) ([]models.TechnicianSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TechnicianSubscription
	for _, s := range r.subs {
		if s.TechnicianID == technicianID {
			out = append(out, clone(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (r subRepo) ExtendActive(ctx context.Context, id string, currentEnd, newEnd time.Time, payment models.PaymentRecord) (bool, error) {
	if r.beforeExtend != nil {
		r.beforeExtend()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok || s.Status != models.SubscriptionActive || !s.EndDate.Equal(currentEnd) {
		return false, nil
	}
	s.EndDate = newEnd
	s.PaymentHistory = append(append([]models.PaymentRecord(nil), s.PaymentHistory...), payment)
	r.subs[id] = s
	return true, nil
}

func (r subRepo) TransitionStatus(ctx context.Context, id string, from, to models.SubscriptionStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok || s.Status != from {
		return false, nil
	}
	s.Status = to
	r.subs[id] = s
	return true, nil
}

func (r subRepo) FindExpiredCandidates(ctx context.Context, now time.Time, afterID string, limit int64) ([]models.TechnicianSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TechnicianSubscription
	for _, s := range r.subs {
		if s.Status == models.SubscriptionActive && s.EndDate.Before(now) && s.ID > afterID {
			out = append(out, clone(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r subRepo) ExpireIfDue(ctx context.Context, id string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.expireErr[id]; err != nil {
		return false, err
	}
	s, ok := r.subs[id]
	if !ok || s.Status != models.SubscriptionActive || !s.EndDate.Before(now) {
		return false, nil
	}
	s.Status = models.SubscriptionExpired
	r.subs[id] = s
	return true, nil
}

func (r subRepo) EnsureIndexes(ctx context.Context) error { return nil }

func clone(s models.TechnicianSubscription) models.TechnicianSubscription {
	s.PaymentHistory = append([]models.PaymentRecord(nil), s.PaymentHistory...)
	return s
}

type fakeGateway struct {
	mu        sync.Mutex
	charges   []models.ChargeRequest
	refunds   []string
	chargeErr error
}

func (g *fakeGateway) Charge(ctx context.Context, req models.ChargeRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.chargeErr != nil {
		return "", g.chargeErr
	}
	g.charges = append(g.charges, req)
	return fmt.Sprintf("pi_%d", len(g.charges)), nil
}

func (g *fakeGateway) Refund(ctx context.Context, reference string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refunds = append(g.refunds, reference)
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}
