package models

// DashboardSummary totals a month's deliveries.
type DashboardSummary struct {
	Sales  float64 `json:"sales"`
	Costs  float64 `json:"costs"`
	Result float64 `json:"result"`
}

// ChartEntry is one slice of the revenue-by-client chart.
type ChartEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// DashboardStats is the dashboard payload for one month.
type DashboardStats struct {
	Summary   DashboardSummary `json:"summary"`
	ChartData []ChartEntry     `json:"chart_data"`
}

// MonthRange is the span of months with recorded deliveries.
type MonthRange struct {
	Min string `json:"min"` // "YYYY-MM"
	Max string `json:"max"`
}
