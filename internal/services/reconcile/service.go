package reconcile

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/domain/enums"
	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/domain/model"
	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/infra/mercadopago"
)

// Diagnostics. A notification ending in one of these is still acknowledged to the
// provider; the error only reaches logs.
var (
	ErrPaymentIDMissing = errors.New("payment id missing")
	ErrPaymentFetch     = errors.New("payment status fetch failed")
	ErrReferenceInvalid = errors.New("external reference has no delimiter")
	ErrEntitlementWrite = errors.New("entitlement write failed")
	ErrNotConfigured    = errors.New("reconcile service is not configured")
)

type PurchaseStore interface {
	Insert(ctx context.Context, purchase model.Purchase) (model.Purchase, error)
}

type PaymentFetcher interface {
	GetPayment(ctx context.Context, paymentID string) (mercadopago.Payment, error)
}

type Dependencies struct {
	Purchases PurchaseStore
	Payments  PaymentFetcher
}

type Service struct {
	purchases PurchaseStore
	payments  PaymentFetcher
	now       func() time.Time
}

// Notification is one decoded provider callback: the body fields and the query string.
type Notification struct {
	Payload map[string]any
	Query   url.Values
}

type Result struct {
	Outcome       enums.WebhookOutcome
	Provider      enums.PaymentProvider
	PaymentID     string
	PaymentStatus string
	UserID        string
	SeriesID      string
	PurchaseID    string
}

func NewService(deps Dependencies) *Service {
	return &Service{
		purchases: deps.Purchases,
		payments:  deps.Payments,
		now:       time.Now,
	}
}

// Reconcile drives one notification to a terminal outcome. A non-nil error is a
// diagnostic for logs; the returned Result is meaningful either way.
func (s *Service) Reconcile(ctx context.Context, n Notification) (Result, error) {
	provider := Classify(n)
	result := Result{Outcome: enums.WebhookOutcomeNoOp, Provider: provider}

	switch provider {
	case enums.PaymentProviderGumroad:
		return s.reconcileGumroad(ctx, n, result)
	case enums.PaymentProviderMercadoPago:
		return s.reconcileMercadoPago(ctx, n, result)
	default:
		return result, nil
	}
}

func (s *Service) grant(ctx context.Context, result Result) (Result, error) {
	if s.purchases == nil {
		return result, ErrNotConfigured
	}

	purchase, err := s.purchases.Insert(ctx, model.Purchase{
		UserID:    result.UserID,
		SeriesID:  result.SeriesID,
		PaymentID: result.PaymentID,
		Provider:  result.Provider,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrEntitlementWrite, err)
	}

	result.Outcome = enums.WebhookOutcomeEntitlementWritten
	result.PurchaseID = purchase.ID
	return result, nil
}
