package orders

// ItemRequest is one requested line in an order creation payload.
type ItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// PrescriptionRequest is the optional prescription payload attached to an
// order creation request.
type PrescriptionRequest struct {
	RightEyeSphere   string  `json:"right_eye_sphere" validate:"required"`
	RightEyeCylinder string  `json:"right_eye_cylinder" validate:"required"`
	RightEyeAxis     string  `json:"right_eye_axis" validate:"required"`
	RightEyeAdd      *string `json:"right_eye_add,omitempty"`

	LeftEyeSphere   string  `json:"left_eye_sphere" validate:"required"`
	LeftEyeCylinder string  `json:"left_eye_cylinder" validate:"required"`
	LeftEyeAxis     string  `json:"left_eye_axis" validate:"required"`
	LeftEyeAdd      *string `json:"left_eye_add,omitempty"`

	Material    string  `json:"material" validate:"required"`
	Treatment   string  `json:"treatment" validate:"required"`
	RequiresAdd bool    `json:"requires_add"`
	Notes       *string `json:"notes,omitempty"`
}

// CreateOrderRequest is the order creation payload.
type CreateOrderRequest struct {
	Items        []ItemRequest        `json:"items" validate:"required,min=1,dive"`
	Prescription *PrescriptionRequest `json:"prescription,omitempty"`
}
