package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"creatorhub/contexts/moderation-safety/moderation-service/application"
	"creatorhub/contexts/moderation-safety/moderation-service/domain/entities"
	httptransport "creatorhub/contexts/moderation-safety/moderation-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateReportHandler(
	ctx context.Context,
	userID string,
	req httptransport.CreateReportRequest,
) (httptransport.CreateReportResponse, error) {
	report, err := h.Service.CreateReport(ctx, entities.Draft{
		ReporterID: userID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		Details:    req.Details,
	})
	if err != nil {
		application.ResolveLogger(h.Logger).Warn("create report rejected",
			"event", "http_create_report_failed",
			"module", "moderation-safety/moderation-service",
			"layer", "transport",
			"user_id", userID,
			"error", err.Error(),
		)
		return httptransport.CreateReportResponse{}, err
	}
	return httptransport.CreateReportResponse{ID: report.ReportID, Status: string(report.Status)}, nil
}

func (h Handler) ListReportsHandler(ctx context.Context, userID string) ([]httptransport.ReportItem, error) {
	reports, err := h.Service.ListReports(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.ReportItem, 0, len(reports))
	for _, report := range reports {
		items = append(items, httptransport.ReportItem{
			ID:         report.ReportID,
			TargetType: string(report.TargetType),
			TargetID:   report.TargetID,
			Reason:     report.Reason,
			Details:    report.Details,
			Status:     string(report.Status),
			CreatedAt:  report.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return items, nil
}

func (h Handler) UpdateReportStatusHandler(
	ctx context.Context,
	userID string,
	reportID string,
	req httptransport.UpdateStatusRequest,
) (httptransport.MessageResponse, error) {
	if err := h.Service.UpdateReportStatus(ctx, userID, reportID, req.Status); err != nil {
		return httptransport.MessageResponse{}, err
	}
	return httptransport.MessageResponse{Message: "Status updated."}, nil
}
