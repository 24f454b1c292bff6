package inventory

// ProductRequest is the payload for creating or updating a product.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

// StockAdjustRequest mutates a product's stock by a named operation.
type StockAdjustRequest struct {
	Quantity  int            `json:"quantity" validate:"required,gt=0"`
	Operation StockOperation `json:"operation" validate:"required"`
}
