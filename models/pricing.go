package models

// PriceTier maps a bookable duration to a configured price and product.
// Tiers are loaded once from configuration and never mutated; the list is
// unique by DurationMinutes.
type PriceTier struct {
	DurationMinutes int    `json:"duration_minutes" mapstructure:"duration_minutes"`
	UnitAmount      int64  `json:"unit_amount" mapstructure:"unit_amount"`
	Currency        string `json:"currency" mapstructure:"currency"`
	ProductName     string `json:"product_name" mapstructure:"product_name"`
}

// AvailableSlot is a bookable candidate computed per request. It is never
// persisted; clients re-query availability to refresh it.
type AvailableSlot struct {
	Start           string    `json:"start_time"`
	End             string    `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           PriceTier `json:"price"`
}
