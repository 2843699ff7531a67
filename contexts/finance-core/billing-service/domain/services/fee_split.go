package services

import "math"

// SplitFee rounds the platform share to the nearest cent and never lets the
// creator share go negative.
func SplitFee(amountCents int64, rate float64) (feeCents int64, creatorCents int64) {
	if amountCents <= 0 {
		return 0, 0
	}
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	feeCents = int64(math.Round(float64(amountCents) * rate))
	creatorCents = amountCents - feeCents
	if creatorCents < 0 {
		creatorCents = 0
	}
	return feeCents, creatorCents
}
