package entities

import "time"

const LatestRequestCount = 5

type Sale struct {
	AmountCents        int64
	PlatformFeeCents   int64
	CreatorAmountCents int64
}

type RequestLine struct {
	RequestID  string
	Status     string
	PriceCents int64
	CreatedAt  time.Time
}

// Dashboard aggregates a creator's sales and custom-request activity.
// RequestStats holds one counter per observed status plus "total".
type Dashboard struct {
	ContentCount        int
	TotalSalesCents     int64
	TotalPlatformFees   int64
	TotalCreatorRevenue int64
	RequestStats        map[string]int
	LatestRequests      []RequestLine
}

// Summarize expects requests newest first.
func Summarize(contentCount int, sales []Sale, requests []RequestLine) Dashboard {
	d := Dashboard{
		ContentCount: contentCount,
		RequestStats: map[string]int{"total": 0},
	}
	for _, sale := range sales {
		d.TotalSalesCents += sale.AmountCents
		d.TotalPlatformFees += sale.PlatformFeeCents
		d.TotalCreatorRevenue += sale.CreatorAmountCents
	}
	for _, request := range requests {
		d.RequestStats["total"]++
		d.RequestStats[request.Status]++
	}
	latest := requests
	if len(latest) > LatestRequestCount {
		latest = latest[:LatestRequestCount]
	}
	d.LatestRequests = append([]RequestLine{}, latest...)
	return d
}
