package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/domain/enums"
	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/domain/rules"
	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/infra/mercadopago"
)

// reconcileMercadoPago trusts the notification only for the payment id. Status and the
// external reference are read back from the provider.
func (s *Service) reconcileMercadoPago(ctx context.Context, n Notification, result Result) (Result, error) {
	paymentID := mercadoPagoPaymentID(n)
	if paymentID == "" {
		return result, ErrPaymentIDMissing
	}
	result.PaymentID = paymentID

	if s.payments == nil {
		return result, ErrNotConfigured
	}
	payment, err := s.payments.GetPayment(ctx, paymentID)
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrPaymentFetch, err)
	}
	result.PaymentStatus = payment.Status

	if payment.Status != mercadopago.StatusApproved {
		result.Outcome = enums.WebhookOutcomeNotApproved
		return result, nil
	}

	buyerID, seriesID, ok := rules.DecodeExternalReference(payment.ExternalReference)
	if !ok {
		return result, fmt.Errorf("%w: %q", ErrReferenceInvalid, payment.ExternalReference)
	}
	result.UserID = strings.TrimSpace(buyerID)
	result.SeriesID = strings.TrimSpace(seriesID)

	return s.grant(ctx, result)
}

func mercadoPagoPaymentID(n Notification) string {
	for _, key := range []string{"id", "data.id"} {
		if v := strings.TrimSpace(n.Query.Get(key)); v != "" {
			return v
		}
	}
	if v := stringField(objectField(n.Payload, "data"), "id"); v != "" {
		return v
	}
	return stringField(n.Payload, "id")
}
