package entities

// LineItem is one ordered row of a quote or invoice.
//
// Monetary representation:
//   - UnitPrice and Amount are integer currency units (no minor unit, no float drift).
//   - Amount is always Quantity * UnitPrice.
type LineItem struct {
	ID          string `json:"id"`
	Position    int    `json:"position"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Amount      int64  `json:"amount"`
}

// CopyItems returns a deep copy of items with fresh ids, keeping order and amounts verbatim.
func CopyItems(items []LineItem, newID func() string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for i, it := range items {
		it.ID = newID()
		it.Position = i
		out = append(out, it)
	}
	return out
}
