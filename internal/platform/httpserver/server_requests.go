package httpserver

import (
	"errors"
	"net/http"

	requesterrors "creatorhub/contexts/community-experience/custom-request-service/domain/errors"
	requesthttp "creatorhub/contexts/community-experience/custom-request-service/transport/http"
	"creatorhub/internal/platform/auth"
)

func writeRequestDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, requesterrors.ErrInvalidRequest),
		errors.Is(err, requesterrors.ErrMissingFields),
		errors.Is(err, requesterrors.ErrInvalidPrice),
		errors.Is(err, requesterrors.ErrDeliveryURLRequired),
		errors.Is(err, requesterrors.ErrUseCheckout):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, requesterrors.ErrBlockedContent),
		errors.Is(err, requesterrors.ErrOffTopic):
		writeError(w, http.StatusBadRequest, "request_not_allowed", err.Error())
	case errors.Is(err, requesterrors.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, "invalid_transition", err.Error())
	case errors.Is(err, requesterrors.ErrRequestExpired):
		writeError(w, http.StatusBadRequest, "request_expired", err.Error())
	case errors.Is(err, requesterrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, requesterrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, requesterrors.ErrCreatorNotFound):
		writeError(w, http.StatusNotFound, "creator_not_found", err.Error())
	case errors.Is(err, requesterrors.ErrRequestNotFound):
		writeError(w, http.StatusNotFound, "request_not_found", err.Error())
	default:
		writeBillingDomainError(w, err)
	}
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Requests.Handler.ListRequestsHandler(r.Context(), claims.UserID)
	if err != nil {
		writeRequestDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateRequestHint(w http.ResponseWriter, _ *http.Request, _ auth.Claims) {
	writeRequestDomainError(w, requesterrors.ErrUseCheckout)
}

func (s *Server) handleCheckoutRequest(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	var req requesthttp.CreateRequestCheckout
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Requests.Handler.CreateCheckoutHandler(r.Context(), claims.UserID, req)
	if err != nil {
		writeRequestDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAcceptRequest(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Requests.Handler.AcceptRequestHandler(r.Context(), claims.UserID, r.PathValue("id"))
	if err != nil {
		writeRequestDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeclineRequest(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Requests.Handler.DeclineRequestHandler(r.Context(), claims.UserID, r.PathValue("id"))
	if err != nil {
		writeRequestDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeliverRequest(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	var req requesthttp.DeliverRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Requests.Handler.DeliverRequestHandler(r.Context(), claims.UserID, r.PathValue("id"), req)
	if err != nil {
		writeRequestDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
