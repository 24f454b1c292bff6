package expenses

import "time"

// ExpenseRequest is the payload for creating or updating an expense.
type ExpenseRequest struct {
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	Description string    `json:"description" validate:"required"`
	Category    Category  `json:"category" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
}
