package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateReportRequest struct {
	TargetType string `json:"targetType"`
	TargetID   string `json:"targetId"`
	Reason     string `json:"reason"`
	Details    string `json:"details"`
}

type CreateReportResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ReportItem struct {
	ID         string `json:"id"`
	TargetType string `json:"targetType"`
	TargetID   string `json:"targetId"`
	Reason     string `json:"reason"`
	Details    string `json:"details"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
