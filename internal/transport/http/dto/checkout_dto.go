package dto

// CheckoutRequest carries no price on purpose: the amount comes from the catalog.
type CheckoutRequest struct {
	SeriesID string `json:"seriesId"`
	UserID   string `json:"userId"`
	Title    string `json:"title,omitempty"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}
