package cart

// Quantity bounds mirror cart.MaxQuantity.
type addItemRequest struct {
	ProductID    string `json:"productId" validate:"required"`
	VariantID    string `json:"variantId" validate:"required"`
	Quantity     int    `json:"quantity" validate:"omitempty,min=1,max=99"`
	IncludeAddOn bool   `json:"includeAddOn"`
}

// Zero removes the row.
type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0,max=99"`
}
