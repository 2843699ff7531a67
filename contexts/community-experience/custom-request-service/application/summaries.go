package application

import (
	"creatorhub/contexts/community-experience/custom-request-service/domain/entities"

	requestsv1 "creatorhub/contracts/gen/requests/v1"
)

func SummaryFromRequest(request entities.Request) requestsv1.RequestSummary {
	return requestsv1.RequestSummary{
		RequestID:          request.RequestID,
		ConsumerID:         request.ConsumerID,
		CreatorID:          request.CreatorID,
		Prompt:             request.Prompt,
		PriceCents:         request.PriceCents,
		CreatorAmountCents: request.CreatorAmountCents,
		Status:             string(request.Status),
		Paid:               request.Paid,
		CreatedAt:          request.CreatedAt,
	}
}
