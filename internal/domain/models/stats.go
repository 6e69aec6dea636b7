package models

// StatsSnapshot holds the dashboard counters.
type StatsSnapshot struct {
	TotalProjects   int `json:"total_projects"`
	TotalResources  int `json:"total_resources"`
	TotalClaims     int `json:"total_claims"`
	OutOfStockItems int `json:"out_of_stock_items"`
}
