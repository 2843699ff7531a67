package services

import (
	"testing"

	"creatorhub/contexts/community-experience/custom-request-service/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestDecideRefund(t *testing.T) {
	assert.Equal(t, RefundSkip, DecideRefund(entities.Request{Paid: false}, true))
	assert.Equal(t, RefundSkip, DecideRefund(entities.Request{Paid: true, RefundStatus: entities.RefundProcessed}, true))
	assert.Equal(t, RefundDefer, DecideRefund(entities.Request{Paid: true}, true))
	assert.Equal(t, RefundDefer, DecideRefund(entities.Request{Paid: true, PaymentIntentID: "pi"}, false))
	assert.Equal(t, RefundAttempt, DecideRefund(entities.Request{Paid: true, PaymentIntentID: "pi"}, true))
}

func TestSplitFeeRoundsToCents(t *testing.T) {
	fee, creator := SplitFee(2499, 0.2)
	assert.Equal(t, int64(500), fee)
	assert.Equal(t, int64(1999), creator)
}
