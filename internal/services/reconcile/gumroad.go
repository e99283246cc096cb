package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/domain/enums"
	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/pkg/validate"
)

const (
	gumroadPaymentPlaceholder = "gumroad"
	urlParamsField            = "url_params"
)

func (s *Service) reconcileGumroad(ctx context.Context, n Notification, result Result) (Result, error) {
	userID := stringField(n.Payload, "user_id")
	seriesID := stringField(n.Payload, "series_id")

	params := urlParams(n.Payload)
	if v := params["user_id"]; v != "" {
		userID = v
	}
	if v := params["series_id"]; v != "" {
		seriesID = v
	}

	result.UserID = userID
	result.SeriesID = seriesID
	if !validate.Required(userID, seriesID) {
		result.Outcome = enums.WebhookOutcomeIdentifiersMissing
		return result, nil
	}

	result.PaymentID = gumroadPaymentID(n.Payload)
	return s.grant(ctx, result)
}

// urlParams collects the checkout-time parameters echoed back by the sale ping. The field
// arrives as a JSON object, a JSON object encoded in a string, a query string, or as
// bracketed form keys such as url_params[user_id].
func urlParams(payload map[string]any) map[string]string {
	out := map[string]string{}

	switch raw := payload[urlParamsField].(type) {
	case map[string]any:
		for key, value := range raw {
			out[key] = scalarString(value)
		}
	case string:
		for key, value := range parseURLParamsString(raw) {
			out[key] = value
		}
	}

	prefix := urlParamsField + "["
	for key, value := range payload {
		if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, "]") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(key, prefix), "]")
		if v := scalarString(value); name != "" && v != "" {
			out[name] = v
		}
	}

	return out
}

func parseURLParamsString(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var obj map[string]any
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	if err := dec.Decode(&obj); err == nil && obj != nil {
		out := make(map[string]string, len(obj))
		for key, value := range obj {
			out[key] = scalarString(value)
		}
		return out
	}

	// ParseQuery keeps the pairs it could decode alongside the error.
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	out := make(map[string]string, len(values))
	for key := range values {
		out[key] = strings.TrimSpace(values.Get(key))
	}
	return out
}

func gumroadPaymentID(payload map[string]any) string {
	if v := stringField(payload, "receipt_url"); v != "" {
		return v
	}
	if v := stringField(payload, "sale_id"); v != "" {
		return v
	}
	return gumroadPaymentPlaceholder
}
