package expenses

import "time"

// Category is a closed set of expense buckets.
type Category string

// Categories lists every recognised expense category.
var Categories = []Category{
	"rent",
	"utilities",
	"salaries",
	"supplies",
	"equipment",
	"maintenance",
	"marketing",
	"insurance",
	"taxes",
	"other",
}

// Valid reports whether the category belongs to the closed set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Expense is one recorded business cost.
type Expense struct {
	ID          int64     `json:"id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Date        time.Time `json:"date"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListFilters narrows the expense listing. StartDate and EndDate act together
// as an inclusive day range.
type ListFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  *Category
	Limit     int
	Offset    int
}

// CategoryTotal is one row of the period summary.
type CategoryTotal struct {
	Category Category `json:"category"`
	Total    float64  `json:"total"`
}

// Summary aggregates expenses over a reporting period.
type Summary struct {
	Period        string          `json:"period"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	TotalExpenses float64         `json:"total_expenses"`
	ByCategory    []CategoryTotal `json:"by_category"`
}
