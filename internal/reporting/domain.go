package reporting

// Stats is the supervisor dashboard aggregate. Amount fields are
// rounded to whole francs for display.
type Stats struct {
	TotalProducts    int     `json:"totalProducts"`
	TotalStock       int     `json:"totalStock"`
	LowStockCount    int     `json:"lowStockCount"`
	ExpiredCount     int     `json:"expiredCount"`
	TotalSales       int     `json:"totalSales"`
	SalesRevenue     float64 `json:"salesRevenue"`
	TotalEmployees   int     `json:"totalEmployees"`
	ActiveEmployees  int     `json:"activeEmployees"`
	TotalSalaries    float64 `json:"totalSalaries"`
	TotalInvestments float64 `json:"totalInvestments"`
	TotalExpenses    float64 `json:"totalExpenses"`
	NetRevenue       float64 `json:"netRevenue"`
}
