package reconcile

import (
	"strings"

	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/domain/enums"
)

var paymentTopics = map[string]struct{}{
	"payment":         {},
	"payment.created": {},
	"payment.updated": {},
}

// Classify names the provider that sent n, or PaymentProviderUnknown. A buyer email is
// only ever present on direct-sale pings, so it wins over any topic field.
func Classify(n Notification) enums.PaymentProvider {
	if stringField(n.Payload, "email") != "" {
		return enums.PaymentProviderGumroad
	}

	for _, key := range []string{"type", "topic", "action"} {
		if isPaymentTopic(stringField(n.Payload, key)) {
			return enums.PaymentProviderMercadoPago
		}
	}
	for _, key := range []string{"type", "topic"} {
		if isPaymentTopic(n.Query.Get(key)) {
			return enums.PaymentProviderMercadoPago
		}
	}

	return enums.PaymentProviderUnknown
}

func isPaymentTopic(value string) bool {
	_, ok := paymentTopics[strings.TrimSpace(value)]
	return ok
}
