package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/domain/model"
)

var ErrSeriesNotFound = errors.New("series not found")

type SeriesRepo struct {
	pool *pgxpool.Pool
}

func NewSeriesRepo(pool *pgxpool.Pool) *SeriesRepo {
	return &SeriesRepo{pool: pool}
}

func (r *SeriesRepo) FindByID(ctx context.Context, seriesID string) (model.Series, error) {
	if r.pool == nil {
		return model.Series{}, fmt.Errorf("postgres pool is nil")
	}
	seriesID = strings.TrimSpace(seriesID)
	if seriesID == "" {
		return model.Series{}, fmt.Errorf("invalid series id")
	}

	var (
		series model.Series
		title  *string
		price  *string
	)
	err := r.pool.QueryRow(ctx, `
SELECT id::text, title, price::text
FROM series
WHERE id::text = $1
LIMIT 1
`, seriesID).Scan(&series.ID, &title, &price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Series{}, ErrSeriesNotFound
		}
		return model.Series{}, fmt.Errorf("find series by id: %w", err)
	}

	if title != nil {
		series.Title = *title
	}
	if price != nil {
		parsed, err := decimal.NewFromString(*price)
		if err != nil {
			return model.Series{}, fmt.Errorf("parse series price: %w", err)
		}
		series.Price = decimal.NewNullDecimal(parsed)
	}

	return series, nil
}
