package http

type LatestRequest struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	PriceCents int64  `json:"priceCents"`
	CreatedAt  string `json:"createdAt"`
}

type DashboardResponse struct {
	ContentCount        int             `json:"contentCount"`
	TotalSales          int64           `json:"totalSales"`
	TotalPlatformFees   int64           `json:"totalPlatformFees"`
	TotalCreatorRevenue int64           `json:"totalCreatorRevenue"`
	RequestStats        map[string]int  `json:"requestStats"`
	LatestRequests      []LatestRequest `json:"latestRequests"`
}
