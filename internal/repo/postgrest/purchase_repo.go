package postgrest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/domain/model"
)

const purchasesTable = "compras"

type PurchaseRepo struct {
	client *Client
	now    func() time.Time
}

type purchaseRow struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	SeriesID  string `json:"series_id"`
	PaymentID string `json:"payment_id"`
	Provider  string `json:"provider,omitempty"`
}

func NewPurchaseRepo(client *Client) *PurchaseRepo {
	return &PurchaseRepo{client: client, now: time.Now}
}

func (r *PurchaseRepo) Insert(ctx context.Context, purchase model.Purchase) (model.Purchase, error) {
	if r.client == nil {
		return model.Purchase{}, fmt.Errorf("postgrest client is nil")
	}
	purchase.UserID = strings.TrimSpace(purchase.UserID)
	purchase.SeriesID = strings.TrimSpace(purchase.SeriesID)
	if purchase.UserID == "" || purchase.SeriesID == "" {
		return model.Purchase{}, fmt.Errorf("invalid purchase insert payload")
	}
	if purchase.ID == "" {
		purchase.ID = uuid.NewString()
	}

	err := r.client.insert(ctx, purchasesTable, purchaseRow{
		ID:        purchase.ID,
		UserID:    purchase.UserID,
		SeriesID:  purchase.SeriesID,
		PaymentID: purchase.PaymentID,
		Provider:  string(purchase.Provider),
	})
	if err != nil {
		return model.Purchase{}, fmt.Errorf("insert purchase: %w", err)
	}

	purchase.CreatedAt = r.now().UTC()
	return purchase, nil
}
