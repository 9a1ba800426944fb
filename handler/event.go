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

	"github.com/gorilla/mux"
)

func CreateEvent(events *event.Service, f factory.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if !authorized(r) {
			response.Unauthorized().Send(ctx, w)
			return
		}

		var req model.EventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest("invalid request body", fmt.Sprintf("createEvent: error unmarshalling request body: %+v", err)).Send(ctx, w)
			return
		}

		if err := validateEvent(req.Event); err != nil {
			response.InvalidData(fmt.Sprintf("createEvent: invalid request: %+v", err)).Send(ctx, w)
			return
		}

		ev, err := events.Create(ctx, f.DB(ctx), req.Event)
		if err != nil {
			logger.Errorf(ctx, "createEvent: unable to create event: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Event: ev},
			StatusCode: http.StatusCreated,
		}.Send(w)
	}
}

func GetEvents(events *event.Service, f factory.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		list, err := events.ListApproved(ctx, f.DB(ctx))
		if err != nil {
			logger.Errorf(ctx, "getEvents: unable to list events: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Events: list},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

func GetEvent(events *event.Service, f factory.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		eventID, ok := pathID(r, "eventID")
		if !ok {
			response.InvalidData(fmt.Sprintf("getEvent: invalid event id: %v", mux.Vars(r)["eventID"])).Send(ctx, w)
			return
		}

		ev, err := events.Get(ctx, f.DB(ctx), eventID)
		if errors.Is(err, event.ErrNotFound) {
			response.EventNotFound().Send(ctx, w)
			return
		}
		if err != nil {
			logger.Errorf(ctx, "getEvent: unable to fetch event: %d: %+v", eventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Event: ev},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

func UpdateEventStatus(events *event.Service, f factory.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if !authorized(r) {
			response.Unauthorized().Send(ctx, w)
			return
		}

		eventID, ok := pathID(r, "eventID")
		if !ok {
			response.InvalidData(fmt.Sprintf("updateEventStatus: invalid event id: %v", mux.Vars(r)["eventID"])).Send(ctx, w)
			return
		}

		var req model.EventStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest("invalid request body", fmt.Sprintf("updateEventStatus: error unmarshalling request body: %+v", err)).Send(ctx, w)
			return
		}

		if req.Status != model.StatusApproved && req.Status != model.StatusRejected && req.Status != model.StatusPending {
			response.InvalidData(fmt.Sprintf("updateEventStatus: unknown status: %q", req.Status)).Send(ctx, w)
			return
		}

		err := events.UpdateStatus(ctx, f.DB(ctx), eventID, req.Status)
		if errors.Is(err, event.ErrNotFound) {
			response.EventNotFound().Send(ctx, w)
			return
		}
		if err != nil {
			logger.Errorf(ctx, "updateEventStatus: unable to update event: %d: %+v", eventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Success: true},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

func validateEvent(ev *model.Event) error {
	if ev == nil {
		return fmt.Errorf("event is required")
	}
	if ev.EventName == nil || *ev.EventName == "" {
		return fmt.Errorf("event_name is required")
	}
	if ev.TicketPrice < 0 {
		return fmt.Errorf("ticket_price must not be negative")
	}
	if ev.TicketAmount <= 0 {
		return fmt.Errorf("ticket_amount must be positive")
	}
	if ev.StartTime == nil || ev.EndTime == nil {
		return fmt.Errorf("start_time and end_time are required")
	}
	if !ev.StartTime.Before(*ev.EndTime) {
		return fmt.Errorf("start_time must be before end_time")
	}
	if ev.OrganizerEmail == nil || *ev.OrganizerEmail == "" {
		return fmt.Errorf("organizer_email is required")
	}
	return nil
}
