package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	checkoutsvc "github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/services/checkout"
	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/transport/http/dto"
	httperrors "github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/transport/http/errors"
)

type CheckoutHandler struct {
	checkout *checkoutsvc.Service
	logger   *zap.Logger
}

func NewCheckoutHandler(checkout *checkoutsvc.Service, log *zap.Logger) *CheckoutHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckoutHandler{
		checkout: checkout,
		logger:   log,
	}
}

func (h *CheckoutHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("checkout handler panic", zap.Any("panic", rec))
			writeInternal(w)
		}
	}()

	if h.checkout == nil {
		writeInternal(w)
		return
	}

	var req dto.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	result, err := h.checkout.Initiate(r.Context(), checkoutsvc.Input{
		BuyerID:       req.UserID,
		CatalogItemID: req.SeriesID,
		Title:         req.Title,
	})
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	h.logger.Info("checkout session created",
		zap.String("series_id", req.SeriesID),
		zap.String("user_id", req.UserID),
		zap.String("preference_id", result.PreferenceID),
	)
	httperrors.Write(w, http.StatusOK, dto.CheckoutResponse{URL: result.CheckoutURL})
}

func (h *CheckoutHandler) writeError(w http.ResponseWriter, req dto.CheckoutRequest, err error) {
	var rateErr *checkoutsvc.RateLimitError

	switch {
	case errors.Is(err, checkoutsvc.ErrValidation):
		writeBadRequest(w, "seriesId and userId are required")
	case errors.Is(err, checkoutsvc.ErrPriceNotConfigured):
		writeBadRequest(w, checkoutsvc.ErrPriceNotConfigured.Error())
	case errors.Is(err, checkoutsvc.ErrProvider):
		h.logger.Error("checkout provider call failed",
			zap.String("series_id", req.SeriesID),
			zap.Error(err),
		)
		writeBadRequest(w, checkoutsvc.ErrProvider.Error())
	case errors.As(err, &rateErr):
		w.Header().Set("Retry-After", strconv.FormatInt(rateErr.RetryAfterSec, 10))
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
			Error:         "too many checkout attempts",
			RetryAfterSec: rateErr.RetryAfterSec,
		})
	default:
		h.logger.Error("checkout failed", zap.String("series_id", req.SeriesID), zap.Error(err))
		writeInternal(w)
	}
}
