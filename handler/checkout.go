package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"sombot-backend/checkout"
	"sombot-backend/event"
	"sombot-backend/factory"
	"sombot-backend/logger"
	"sombot-backend/model"
	"sombot-backend/monitoring"
	"sombot-backend/response"
	"sombot-backend/ticket"

	"github.com/gorilla/mux"
)

// Checkout validates the buyer and event, then hands back a Stripe
// checkout session for one ticket.
func Checkout(service *checkout.Service, events *event.Service, f factory.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		eventID, ok := pathID(r, "eventID")
		if !ok {
			response.InvalidData(fmt.Sprintf("checkout: invalid event id: %v", mux.Vars(r)["eventID"])).Send(ctx, w)
			return
		}

		var req model.CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest("invalid request body", fmt.Sprintf("checkout: error unmarshalling request body: %+v", err)).Send(ctx, w)
			return
		}

		if req.UserEmail == "" {
			response.InvalidData("checkout: user_email is required").Send(ctx, w)
			return
		}

		ev, err := events.Get(ctx, f.DB(ctx), eventID)
		if errors.Is(err, event.ErrNotFound) {
			response.EventNotFound().Send(ctx, w)
			return
		}
		if err != nil {
			logger.Errorf(ctx, "checkout: unable to fetch event: %d: %+v", eventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		if ev.Status == nil || *ev.Status != model.StatusApproved {
			response.EventNotApproved().Send(ctx, w)
			return
		}

		if ev.RemainingTickets != nil && *ev.RemainingTickets == 0 {
			monitoring.CheckoutSession("sold_out")
			response.SoldOut().Send(ctx, w)
			return
		}

		held, err := ticket.Exists(f.DB(ctx), eventID, req.UserEmail)
		if err != nil {
			logger.Errorf(ctx, "checkout: unable to check existing ticket: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}
		if held {
			monitoring.CheckoutSession("duplicate")
			response.AlreadyPurchased().Send(ctx, w)
			return
		}

		sessionID, err := service.CreateSession(ctx, ev, req.UserEmail, req.UserName)
		if err != nil {
			monitoring.CheckoutSession("error")
			logger.Errorf(ctx, "checkout: unable to create checkout session: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		monitoring.CheckoutSession("ok")
		response.SuccessResponse{
			Data:       &response.Data{CheckoutSessionID: sessionID, Success: true},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
