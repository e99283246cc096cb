package model

import (
	"time"

	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/domain/enums"
)

// Purchase is a persisted premium-access grant ("compra") for a user and a series.
type Purchase struct {
	ID        string                `json:"id"`
	UserID    string                `json:"user_id"`
	SeriesID  string                `json:"series_id"`
	PaymentID string                `json:"payment_id"`
	Provider  enums.PaymentProvider `json:"provider"`
	CreatedAt time.Time             `json:"created_at"`
}
