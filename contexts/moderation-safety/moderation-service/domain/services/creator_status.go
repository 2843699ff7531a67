package services

import "time"

const day = 24 * time.Hour

type Thresholds struct {
	ReportWindow        time.Duration
	ProfileReports      int
	ContentReports      int
	SuspendFor          time.Duration
	MinAccountAge       time.Duration
	MinDeliveredRequest int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		ReportWindow:        7 * day,
		ProfileReports:      5,
		ContentReports:      3,
		SuspendFor:          7 * day,
		MinAccountAge:       7 * day,
		MinDeliveredRequest: 3,
	}
}

// CreatorFacts is everything the status rules look at for one creator.
type CreatorFacts struct {
	AgeVerified       bool
	IsCreator         bool
	CreatedAt         time.Time
	IsSuspended       bool
	SuspendedUntil    *time.Time
	RecentReports     int
	OpenReports       int
	DeliveredRequests int
}

type CreatorStatus struct {
	VerifiedCreator bool
	IsSuspended     bool
	SuspendedUntil  *time.Time
}

// EvaluateCreator applies the suspension rules first and then decides
// verification. A suspension is extended on every evaluation that still
// crosses a threshold; an ended or open-ended suspension below the
// thresholds is lifted.
func EvaluateCreator(facts CreatorFacts, now time.Time, t Thresholds) CreatorStatus {
	status := CreatorStatus{
		IsSuspended:    facts.IsSuspended,
		SuspendedUntil: facts.SuspendedUntil,
	}
	switch {
	case facts.RecentReports >= t.ProfileReports, facts.RecentReports >= t.ContentReports:
		until := now.Add(t.SuspendFor)
		status.IsSuspended = true
		status.SuspendedUntil = &until
	case suspensionEnded(facts, now):
		status.IsSuspended = false
		status.SuspendedUntil = nil
	}

	status.VerifiedCreator = facts.AgeVerified &&
		facts.IsCreator &&
		!facts.CreatedAt.After(now.Add(-t.MinAccountAge)) &&
		facts.DeliveredRequests >= t.MinDeliveredRequest &&
		facts.OpenReports == 0
	return status
}

func suspensionEnded(facts CreatorFacts, now time.Time) bool {
	if !facts.IsSuspended {
		return false
	}
	if facts.SuspendedUntil == nil {
		return true
	}
	return !facts.SuspendedUntil.After(now)
}
