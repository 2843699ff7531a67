package httpadapter

import (
	"context"
	"time"

	"creatorhub/contexts/internal-ops/creator-dashboard-service/application"
	httptransport "creatorhub/contexts/internal-ops/creator-dashboard-service/transport/http"
)

type Handler struct {
	Service application.Service
}

// CreatorDashboardHandler godoc
// @Summary Creator dashboard
// @Description Sales totals in cents, request counts by status and the five latest requests.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httptransport.DashboardResponse
// @Failure 403 {object} httptransport.DashboardResponse
// @Router /api/dashboard/creator [get]
func (h Handler) CreatorDashboardHandler(ctx context.Context, userID string) (httptransport.DashboardResponse, error) {
	dashboard, err := h.Service.CreatorDashboard(ctx, userID)
	if err != nil {
		return httptransport.DashboardResponse{}, err
	}
	latest := make([]httptransport.LatestRequest, 0, len(dashboard.LatestRequests))
	for _, line := range dashboard.LatestRequests {
		latest = append(latest, httptransport.LatestRequest{
			ID:         line.RequestID,
			Status:     line.Status,
			PriceCents: line.PriceCents,
			CreatedAt:  line.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return httptransport.DashboardResponse{
		ContentCount:        dashboard.ContentCount,
		TotalSales:          dashboard.TotalSalesCents,
		TotalPlatformFees:   dashboard.TotalPlatformFees,
		TotalCreatorRevenue: dashboard.TotalCreatorRevenue,
		RequestStats:        dashboard.RequestStats,
		LatestRequests:      latest,
	}, nil
}
