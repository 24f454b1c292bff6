package orders

import "time"

// Status enumerates the order lifecycle. Creation always produces
// StatusPending; completed and cancelled are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether the status belongs to the closed set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is a persisted sale with its line items and optional prescription.
type Order struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"user_id"`
	TotalAmount  float64       `json:"total_amount"`
	Status       Status        `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Items        []Item        `json:"items"`
	Prescription *Prescription `json:"prescription,omitempty"`
}

// Item is one order line. PriceAtTime is the product price captured when the
// order was created; later product price changes do not touch it.
type Item struct {
	ProductID   int64   `json:"product_id"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"price_at_time"`
}

// Prescription holds optical measurements for both eyes. Values are free-form
// strings since clinical notation varies.
type Prescription struct {
	ID      int64 `json:"id"`
	OrderID int64 `json:"order_id"`

	RightEyeSphere   string  `json:"right_eye_sphere"`
	RightEyeCylinder string  `json:"right_eye_cylinder"`
	RightEyeAxis     string  `json:"right_eye_axis"`
	RightEyeAdd      *string `json:"right_eye_add,omitempty"`

	LeftEyeSphere   string  `json:"left_eye_sphere"`
	LeftEyeCylinder string  `json:"left_eye_cylinder"`
	LeftEyeAxis     string  `json:"left_eye_axis"`
	LeftEyeAdd      *string `json:"left_eye_add,omitempty"`

	Material    string  `json:"material"`
	Treatment   string  `json:"treatment"`
	RequiresAdd bool    `json:"requires_add"`
	Notes       *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
