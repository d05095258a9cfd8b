package catalog

import "github.com/oxygenixlabs/storefront/internal/cart"

// Candidate captures the display and price snapshot the cart stores for a
// variant.
func Candidate(p Product, v Variant, includeAddOn bool) cart.Candidate {
	c := cart.Candidate{
		ProductID:     p.ID,
		VariantID:     v.ID,
		ProductName:   p.Name,
		VariantName:   v.Name,
		CoverageLabel: v.Coverage,
		Image:         p.Image,
		UnitPrice:     v.Price,
		IncludeAddOn:  includeAddOn,
	}
	if v.AMCPrice != nil {
		price := *v.AMCPrice
		c.AddOnUnitPrice = &price
	}
	return c
}
