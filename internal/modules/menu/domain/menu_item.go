package domain

// MenuItem is a dish or drink offered by the restaurant. ID is assigned by the
// store when omitted on creation.
type MenuItem struct {
	ID          int64   `json:"id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Available   bool    `json:"available"`
}
