package cart

import (
	internalcart "github.com/oxygenixlabs/storefront/internal/cart"
	"github.com/oxygenixlabs/storefront/pkg/money"
)

type lineView struct {
	internalcart.LineItem
	HasAddOn  bool  `json:"hasAddOn"`
	LineTotal int64 `json:"lineTotal"`
}

// View is the API shape of a cart. Tax and total are decimal strings.
type View struct {
	CartID       string     `json:"cartId"`
	Items        []lineView `json:"items"`
	ItemCount    int        `json:"itemCount"`
	Subtotal     int64      `json:"subtotal"`
	Tax          string     `json:"tax"`
	Total        string     `json:"total"`
	TotalDisplay string     `json:"totalDisplay"`
}

// NewView renders a consistent snapshot of store.
func NewView(store *internalcart.Store) View {
	items, totals := store.Snapshot()
	lines := make([]lineView, 0, len(items))
	for _, item := range items {
		lines = append(lines, lineView{
			LineItem:  item,
			HasAddOn:  item.HasAddOn(),
			LineTotal: item.LineTotal(),
		})
	}
	return View{
		CartID:       store.ID(),
		Items:        lines,
		ItemCount:    totals.ItemCount,
		Subtotal:     totals.Subtotal,
		Tax:          money.String(totals.Tax),
		Total:        money.String(totals.Total),
		TotalDisplay: money.FormatINR(totals.Total),
	}
}
