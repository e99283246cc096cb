package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	reconcilesvc "github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/services/reconcile"
	httperrors "github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/transport/http/errors"
)

const (
	maxWebhookBodyBytes = 1 << 20

	webhookAck   = "OK"
	webhookError = "Error"
)

type Reconciler interface {
	Reconcile(ctx context.Context, n reconcilesvc.Notification) (reconcilesvc.Result, error)
}

// WebhookHandler acknowledges every POST with 200. Failures, panics included, surface
// only in logs.
type WebhookHandler struct {
	reconciler Reconciler
	logger     *zap.Logger
}

func NewWebhookHandler(reconciler Reconciler, log *zap.Logger) *WebhookHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebhookHandler{
		reconciler: reconciler,
		logger:     log,
	}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		httperrors.WriteText(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("webhook handler panic", zap.Any("panic", rec))
			httperrors.WriteText(w, http.StatusOK, webhookError)
		}
	}()

	if h.reconciler == nil {
		h.logger.Error("webhook received without reconciler")
		httperrors.WriteText(w, http.StatusOK, webhookError)
		return
	}

	n := reconcilesvc.Notification{
		Payload: decodeNotificationBody(r),
		Query:   r.URL.Query(),
	}

	result, err := h.reconciler.Reconcile(r.Context(), n)
	fields := []zap.Field{
		zap.String("outcome", string(result.Outcome)),
		zap.String("provider", string(result.Provider)),
		zap.String("payment_id", result.PaymentID),
		zap.String("user_id", result.UserID),
		zap.String("series_id", result.SeriesID),
	}
	if result.PaymentStatus != "" {
		fields = append(fields, zap.String("payment_status", result.PaymentStatus))
	}
	if err != nil {
		h.logger.Error("webhook not reconciled", append(fields, zap.Error(err))...)
		httperrors.WriteText(w, http.StatusOK, webhookError)
		return
	}

	h.logger.Info("webhook reconciled", fields...)
	httperrors.WriteText(w, http.StatusOK, webhookAck)
}

// decodeNotificationBody returns the body as a field map. Form posts keep the first value
// per key; anything else is read as a JSON object. Unreadable bodies yield an empty map.
func decodeNotificationBody(r *http.Request) map[string]any {
	payload := map[string]any{}
	if r.Body == nil {
		return payload
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return payload
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		values, _ := url.ParseQuery(string(raw))
		for key := range values {
			payload[key] = values.Get(key)
		}
		return payload
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var obj map[string]any
	if err := decoder.Decode(&obj); err != nil || obj == nil {
		return payload
	}
	return obj
}
