package cart

// Key identifies a cart row.
type Key struct {
	ProductID string
	VariantID string
}

// Candidate is the catalog data captured when a variant is added to the cart.
type Candidate struct {
	ProductID      string
	VariantID      string
	ProductName    string
	VariantName    string
	CoverageLabel  string
	Image          string
	UnitPrice      int64
	AddOnUnitPrice *int64
	IncludeAddOn   bool
}

// LineItem is one row of the cart. Display fields are a snapshot taken at add
// time and are never refreshed from the catalog.
type LineItem struct {
	ProductID      string `json:"productId"`
	VariantID      string `json:"variantId"`
	ProductName    string `json:"productName"`
	VariantName    string `json:"variantName"`
	CoverageLabel  string `json:"coverage"`
	Image          string `json:"image,omitempty"`
	UnitPrice      int64  `json:"unitPrice"`
	Quantity       int    `json:"quantity"`
	IncludeAddOn   bool   `json:"includeAddOn"`
	AddOnUnitPrice *int64 `json:"addOnUnitPrice,omitempty"`
}

func (li LineItem) Key() Key {
	return Key{ProductID: li.ProductID, VariantID: li.VariantID}
}

// HasAddOn reports whether the variant offers the maintenance add-on.
func (li LineItem) HasAddOn() bool {
	return li.AddOnUnitPrice != nil
}

// AddOnApplied reports whether the add-on is both offered and selected.
func (li LineItem) AddOnApplied() bool {
	return li.IncludeAddOn && li.AddOnUnitPrice != nil
}

// LineTotal is unit price × quantity plus the add-on when applied.
func (li LineItem) LineTotal() int64 {
	total := li.UnitPrice * int64(li.Quantity)
	if li.AddOnApplied() {
		total += *li.AddOnUnitPrice * int64(li.Quantity)
	}
	return total
}

func newLineItem(c Candidate, quantity int) LineItem {
	item := LineItem{
		ProductID:     c.ProductID,
		VariantID:     c.VariantID,
		ProductName:   c.ProductName,
		VariantName:   c.VariantName,
		CoverageLabel: c.CoverageLabel,
		Image:         c.Image,
		UnitPrice:     c.UnitPrice,
		Quantity:      quantity,
		IncludeAddOn:  c.IncludeAddOn && c.AddOnUnitPrice != nil,
	}
	if c.AddOnUnitPrice != nil {
		price := *c.AddOnUnitPrice
		item.AddOnUnitPrice = &price
	}
	return item
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.AddOnUnitPrice != nil {
			price := *item.AddOnUnitPrice
			out[i].AddOnUnitPrice = &price
		}
	}
	return out
}
