package reports

import "time"

// SalesTotals is the count/sum slice every sales report shares.
type SalesTotals struct {
	TotalOrders int     `json:"total_orders"`
	TotalSales  float64 `json:"total_sales"`
}

// HourBucket is one hour of a daily report.
type HourBucket struct {
	Hour   int     `json:"hour"`
	Orders int     `json:"orders"`
	Sales  float64 `json:"sales"`
}

// DailySales is the daily report payload.
type DailySales struct {
	Date            string       `json:"date"`
	TotalOrders     int          `json:"total_orders"`
	TotalSales      float64      `json:"total_sales"`
	HourlyBreakdown []HourBucket `json:"hourly_breakdown"`
}

// DayBucket is one day of a monthly report.
type DayBucket struct {
	Date   string  `json:"date"`
	Orders int     `json:"orders"`
	Sales  float64 `json:"sales"`
}

// MonthlySales is the monthly report payload.
type MonthlySales struct {
	Year           int         `json:"year"`
	Month          int         `json:"month"`
	TotalOrders    int         `json:"total_orders"`
	TotalSales     float64     `json:"total_sales"`
	DailyBreakdown []DayBucket `json:"daily_breakdown"`
}

// ProductSales is one product row in movement and top-product reports.
type ProductSales struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	TimesSold    int     `json:"times_sold"`
	TotalRevenue float64 `json:"total_revenue"`
}

// Movement is the inventory movement report payload.
type Movement struct {
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Products  []ProductSales `json:"products"`
}

// TopProducts is the best-sellers report payload.
type TopProducts struct {
	StartDate string         `json:"start_date,omitempty"`
	EndDate   string         `json:"end_date,omitempty"`
	Limit     int            `json:"limit"`
	Products  []ProductSales `json:"products"`
}

// LowStockProduct is one row of the low-stock report.
type LowStockProduct struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	CurrentStock int       `json:"current_stock"`
	LastUpdated  time.Time `json:"last_updated"`
}

// LowStock is the low-stock report payload.
type LowStock struct {
	Threshold int               `json:"threshold"`
	Products  []LowStockProduct `json:"products"`
}

// SalesSummary is the period summary payload.
type SalesSummary struct {
	Period            string    `json:"period"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	TotalOrders       int       `json:"total_orders"`
	TotalSales        float64   `json:"total_sales"`
	AverageOrderValue float64   `json:"average_order_value"`
}
