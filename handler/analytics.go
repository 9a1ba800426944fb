package handler

import (
	"errors"
	"fmt"
	"net/http"

	"sombot-backend/analytics"
	"sombot-backend/event"
	"sombot-backend/factory"
	"sombot-backend/logger"
	"sombot-backend/response"

	"github.com/gorilla/mux"
)

// EventAnalytics returns sales and attendance totals for one event.
func EventAnalytics(f factory.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if !authorized(r) {
			response.Unauthorized().Send(ctx, w)
			return
		}

		eventID, ok := pathID(r, "eventID")
		if !ok {
			response.InvalidData(fmt.Sprintf("eventAnalytics: invalid event id: %v", mux.Vars(r)["eventID"])).Send(ctx, w)
			return
		}

		a, err := analytics.ForEvent(ctx, f.DB(ctx), eventID)
		if errors.Is(err, event.ErrNotFound) {
			response.EventNotFound().Send(ctx, w)
			return
		}
		if err != nil {
			logger.Errorf(ctx, "eventAnalytics: unable to aggregate: %d: %+v", eventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Analytics: a},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}
