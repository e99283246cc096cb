package model

import "github.com/shopspring/decimal"

// Series is a catalog item. A null price means the series is not for sale.
type Series struct {
	ID    string              `json:"id"`
	Title string              `json:"title"`
	Price decimal.NullDecimal `json:"price"`
}

func (s Series) Purchasable() bool {
	return s.Price.Valid && s.Price.Decimal.IsPositive()
}
