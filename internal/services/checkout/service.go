package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/domain/model"
	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/domain/rules"
	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/infra/mercadopago"
	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/pkg/validate"
)

const (
	defaultTitle = "Serie Bayekverse"
	autoReturn   = "approved"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrPriceNotConfigured = errors.New("price not configured")
	ErrProvider           = errors.New("payment provider error")
	ErrRateLimited        = errors.New("too many checkout attempts")
)

// RateLimitError matches ErrRateLimited and carries the wait before the next attempt.
type RateLimitError struct {
	RetryAfterSec int64
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: retry after %ds", ErrRateLimited, e.RetryAfterSec)
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

type CatalogStore interface {
	FindByID(ctx context.Context, seriesID string) (model.Series, error)
}

type PreferenceCreator interface {
	CreatePreference(ctx context.Context, req mercadopago.PreferenceRequest) (mercadopago.Preference, error)
}

type RateLimiter interface {
	AllowCheckout(ctx context.Context, buyerID string) (int64, bool, error)
}

type Config struct {
	DefaultTitle    string
	Currency        string
	SuccessURL      string
	FailureURL      string
	PendingURL      string
	NotificationURL string
	Sandbox         bool
}

type Dependencies struct {
	Catalog     CatalogStore
	Preferences PreferenceCreator
	Limiter     RateLimiter
	Logger      *zap.Logger
}

type Service struct {
	catalog     CatalogStore
	preferences PreferenceCreator
	limiter     RateLimiter
	logger      *zap.Logger
	cfg         Config
}

type Input struct {
	BuyerID       string
	CatalogItemID string
	Title         string
}

type Result struct {
	CheckoutURL       string
	PreferenceID      string
	ExternalReference string
}

func NewService(deps Dependencies, cfg Config) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if strings.TrimSpace(cfg.DefaultTitle) == "" {
		cfg.DefaultTitle = defaultTitle
	}

	return &Service{
		catalog:     deps.Catalog,
		preferences: deps.Preferences,
		limiter:     deps.Limiter,
		logger:      log,
		cfg:         cfg,
	}
}

// Initiate opens a provider checkout session for one catalog item. The charged amount is
// always the stored catalog price.
func (s *Service) Initiate(ctx context.Context, in Input) (Result, error) {
	buyerID := strings.TrimSpace(in.BuyerID)
	seriesID := strings.TrimSpace(in.CatalogItemID)
	if !validate.Required(buyerID, seriesID) {
		return Result{}, ErrValidation
	}
	if s.catalog == nil || s.preferences == nil {
		return Result{}, fmt.Errorf("checkout service is not configured")
	}

	if s.limiter != nil {
		retryAfter, allowed, err := s.limiter.AllowCheckout(ctx, buyerID)
		switch {
		case err != nil:
			s.logger.Warn("checkout rate limiter unavailable, allowing request",
				zap.String("user_id", buyerID),
				zap.Error(err),
			)
		case !allowed:
			return Result{}, &RateLimitError{RetryAfterSec: retryAfter}
		}
	}

	series, err := s.catalog.FindByID(ctx, seriesID)
	if err != nil {
		s.logger.Info("series price lookup failed",
			zap.String("series_id", seriesID),
			zap.Error(err),
		)
		return Result{}, ErrPriceNotConfigured
	}
	if !series.Purchasable() {
		return Result{}, ErrPriceNotConfigured
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = s.cfg.DefaultTitle
	}

	reference := rules.EncodeExternalReference(buyerID, seriesID)
	pref, err := s.preferences.CreatePreference(ctx, mercadopago.PreferenceRequest{
		Items: []mercadopago.PreferenceItem{{
			ID:         seriesID,
			Title:      title,
			Quantity:   1,
			CurrencyID: s.cfg.Currency,
			UnitPrice:  json.Number(series.Price.Decimal.String()),
		}},
		ExternalReference: reference,
		BackURLs: mercadopago.BackURLs{
			Success: s.cfg.SuccessURL,
			Failure: s.cfg.FailureURL,
			Pending: s.cfg.PendingURL,
		},
		AutoReturn:      autoReturn,
		NotificationURL: s.cfg.NotificationURL,
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	checkoutURL := pref.InitPoint
	if s.cfg.Sandbox && pref.SandboxInitPoint != "" {
		checkoutURL = pref.SandboxInitPoint
	}
	if strings.TrimSpace(checkoutURL) == "" {
		return Result{}, fmt.Errorf("%w: preference %q has no checkout url", ErrProvider, pref.ID)
	}

	return Result{
		CheckoutURL:       checkoutURL,
		PreferenceID:      pref.ID,
		ExternalReference: reference,
	}, nil
}
