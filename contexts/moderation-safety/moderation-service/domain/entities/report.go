package entities

import (
	"strings"
	"time"

	domainerrors "creatorhub/contexts/moderation-safety/moderation-service/domain/errors"
)

type TargetType string

const (
	TargetUser    TargetType = "user"
	TargetContent TargetType = "content"
	TargetMessage TargetType = "message"
	TargetChat    TargetType = "chat"
	TargetRequest TargetType = "request"
)

type Status string

const (
	StatusOpen      Status = "open"
	StatusReviewing Status = "reviewing"
	StatusResolved  Status = "resolved"
	StatusRejected  Status = "rejected"
)

type Report struct {
	ReportID   string
	ReporterID string
	TargetType TargetType
	TargetID   string
	Reason     string
	Details    string
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Draft struct {
	ReporterID string
	TargetType string
	TargetID   string
	Reason     string
	Details    string
}

func ParseTargetType(value string) (TargetType, bool) {
	switch TargetType(strings.ToLower(strings.TrimSpace(value))) {
	case TargetUser:
		return TargetUser, true
	case TargetContent:
		return TargetContent, true
	case TargetMessage:
		return TargetMessage, true
	case TargetChat:
		return TargetChat, true
	case TargetRequest:
		return TargetRequest, true
	default:
		return "", false
	}
}

func ParseStatus(value string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusOpen:
		return StatusOpen, true
	case StatusReviewing:
		return StatusReviewing, true
	case StatusResolved:
		return StatusResolved, true
	case StatusRejected:
		return StatusRejected, true
	default:
		return "", false
	}
}

func NewReport(id string, draft Draft, now time.Time) (Report, error) {
	targetID := strings.TrimSpace(draft.TargetID)
	reason := strings.TrimSpace(draft.Reason)
	if strings.TrimSpace(draft.TargetType) == "" || targetID == "" || reason == "" {
		return Report{}, domainerrors.ErrMissingFields
	}
	targetType, ok := ParseTargetType(draft.TargetType)
	if !ok {
		return Report{}, domainerrors.ErrInvalidTargetType
	}
	return Report{
		ReportID:   id,
		ReporterID: strings.TrimSpace(draft.ReporterID),
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		Details:    strings.TrimSpace(draft.Details),
		Status:     StatusOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
