package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/domain/model"
)

const seriesTable = "series"

var ErrSeriesNotFound = errors.New("series not found")

type SeriesRepo struct {
	client *Client
}

type seriesRow struct {
	ID    json.RawMessage     `json:"id"`
	Title *string             `json:"title"`
	Price decimal.NullDecimal `json:"price"`
}

func NewSeriesRepo(client *Client) *SeriesRepo {
	return &SeriesRepo{client: client}
}

func (r *SeriesRepo) FindByID(ctx context.Context, seriesID string) (model.Series, error) {
	if r.client == nil {
		return model.Series{}, fmt.Errorf("postgrest client is nil")
	}
	seriesID = strings.TrimSpace(seriesID)
	if seriesID == "" {
		return model.Series{}, fmt.Errorf("invalid series id")
	}

	filter := url.Values{}
	filter.Set("id", "eq."+seriesID)
	filter.Set("select", "id,title,price")

	var row seriesRow
	found, err := r.client.selectOne(ctx, seriesTable, filter, &row)
	if err != nil {
		return model.Series{}, fmt.Errorf("find series by id: %w", err)
	}
	if !found {
		return model.Series{}, ErrSeriesNotFound
	}

	series := model.Series{
		ID:    rawID(row.ID, seriesID),
		Price: row.Price,
	}
	if row.Title != nil {
		series.Title = *row.Title
	}
	return series, nil
}

// rawID renders a row id that may be a JSON string or number.
func rawID(raw json.RawMessage, fallback string) string {
	if len(raw) == 0 || string(raw) == "null" {
		return fallback
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
