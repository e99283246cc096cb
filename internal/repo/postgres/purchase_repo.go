package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/domain/model"
)

// PurchaseRepo writes entitlement rows into compras. Rows are append-only and the
// table carries no uniqueness on payment_id, so a replayed notification inserts again.
type PurchaseRepo struct {
	pool *pgxpool.Pool
}

func NewPurchaseRepo(pool *pgxpool.Pool) *PurchaseRepo {
	return &PurchaseRepo{pool: pool}
}

func (r *PurchaseRepo) Insert(ctx context.Context, purchase model.Purchase) (model.Purchase, error) {
	if r.pool == nil {
		return model.Purchase{}, fmt.Errorf("postgres pool is nil")
	}
	purchase.UserID = strings.TrimSpace(purchase.UserID)
	purchase.SeriesID = strings.TrimSpace(purchase.SeriesID)
	if purchase.UserID == "" || purchase.SeriesID == "" {
		return model.Purchase{}, fmt.Errorf("invalid purchase insert payload")
	}
	if purchase.ID == "" {
		purchase.ID = uuid.NewString()
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO compras (
	id,
	user_id,
	series_id,
	payment_id,
	provider,
	created_at
) VALUES ($1, $2, $3, $4, $5, NOW())
RETURNING created_at
`, purchase.ID, purchase.UserID, purchase.SeriesID, purchase.PaymentID, string(purchase.Provider)).Scan(&purchase.CreatedAt)
	if err != nil {
		return model.Purchase{}, fmt.Errorf("insert purchase: %w", err)
	}

	return purchase, nil
}
