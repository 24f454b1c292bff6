package commissions

import "time"

// UserSales is the per-seller aggregate the commission maths run over.
type UserSales struct {
	UserID      int64
	Username    string
	FullName    string
	TotalOrders int
	TotalSales  float64
}

// Entry is one seller's commission line.
type Entry struct {
	UserID           int64   `json:"user_id"`
	Username         string  `json:"username"`
	FullName         string  `json:"full_name"`
	TotalOrders      int     `json:"total_orders"`
	TotalSales       float64 `json:"total_sales"`
	CommissionAmount float64 `json:"commission_amount"`
}

// Report is the date-range calculation payload.
type Report struct {
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	CommissionRate float64 `json:"commission_rate"`
	Commissions    []Entry `json:"commissions"`
}

// Summary is the period summary payload.
type Summary struct {
	Period          string    `json:"period"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	CommissionRate  float64   `json:"commission_rate"`
	TotalCommission float64   `json:"total_commission"`
	Commissions     []Entry   `json:"commissions"`
}

// TopPerformers is the leaderboard payload.
type TopPerformers struct {
	StartDate      string  `json:"start_date,omitempty"`
	EndDate        string  `json:"end_date,omitempty"`
	Limit          int     `json:"limit"`
	CommissionRate float64 `json:"commission_rate"`
	TopPerformers  []Entry `json:"top_performers"`
}
