package services

import "creatorhub/contexts/community-experience/custom-request-service/domain/entities"

type RefundAction int

const (
	RefundSkip RefundAction = iota
	// RefundDefer leaves the refund pending until a payment intent exists and
	// the gateway is live.
	RefundDefer
	RefundAttempt
)

func DecideRefund(req entities.Request, gatewayEnabled bool) RefundAction {
	if !req.Paid || req.RefundStatus == entities.RefundProcessed {
		return RefundSkip
	}
	if req.PaymentIntentID == "" || !gatewayEnabled {
		return RefundDefer
	}
	return RefundAttempt
}
