package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"sombot-backend/event"
	"sombot-backend/factory"
	"sombot-backend/logger"
	"sombot-backend/model"
	"sombot-backend/response"
	"sombot-backend/ticket"

	"github.com/gorilla/mux"
)

// IssueTicket is the standalone issuance endpoint. The webhook is the
// normal caller of the issuer; this surface exists for organizer-driven
// (comped) tickets and carries no sale.
func IssueTicket(issuer *ticket.Issuer, events *event.Service, f factory.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		eventID, ok := pathID(r, "eventID")
		if !ok {
			response.InvalidData(fmt.Sprintf("issueTicket: invalid event id: %v", mux.Vars(r)["eventID"])).Send(ctx, w)
			return
		}

		var req model.IssueTicketRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest("invalid request body", fmt.Sprintf("issueTicket: error unmarshalling request body: %+v", err)).Send(ctx, w)
			return
		}

		if req.UserEmail == "" {
			response.InvalidData("issueTicket: user_email is required").Send(ctx, w)
			return
		}

		ev, err := events.Get(ctx, f.DB(ctx), eventID)
		if errors.Is(err, event.ErrNotFound) {
			response.EventNotFound().Send(ctx, w)
			return
		}
		if err != nil {
			logger.Errorf(ctx, "issueTicket: unable to fetch event: %d: %+v", eventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		issued, err := issuer.Issue(ctx, f.DB(ctx), ticket.IssueParams{
			Event:     ev,
			UserEmail: req.UserEmail,
			UserName:  req.UserName,
		})

		switch err {
		case nil:
		case ticket.ErrAlreadyIssued:
			response.AlreadyPurchased().Send(ctx, w)
			return
		case ticket.ErrSoldOut:
			response.SoldOut().Send(ctx, w)
			return
		default:
			logger.Errorf(ctx, "issueTicket: unable to issue ticket: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Success: true, Ticket: issued},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}
