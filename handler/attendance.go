package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"sombot-backend/attendance"
	"sombot-backend/factory"
	"sombot-backend/logger"
	"sombot-backend/model"
	"sombot-backend/response"

	"github.com/gorilla/mux"
)

// Scan records attendance for a scanned ticket. The request carries
// either the buyer identity decoded by the scanner client, or the raw
// encrypted QR payload for server-side decryption.
func Scan(scanner *attendance.Scanner, f factory.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if !authorized(r) {
			response.Unauthorized().Send(ctx, w)
			return
		}

		eventID, ok := pathID(r, "eventID")
		if !ok {
			response.InvalidData(fmt.Sprintf("scan: invalid event id: %v", mux.Vars(r)["eventID"])).Send(ctx, w)
			return
		}

		var req model.ScanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest("invalid request body", fmt.Sprintf("scan: error unmarshalling request body: %+v", err)).Send(ctx, w)
			return
		}

		userEmail := req.UserEmail
		if req.Payload != "" {
			payload, err := scanner.DecodePayload(req.Payload)
			if err != nil {
				logger.Errorf(ctx, "scan: unable to decode qr payload: %+v", err)
				response.InvalidData("scan: unreadable qr payload").Send(ctx, w)
				return
			}
			if payload.EventID != eventID {
				response.InvalidData("scan: qr payload does not match this event").Send(ctx, w)
				return
			}
			if req.EventName != "" && payload.EventName != req.EventName {
				response.InvalidData("scan: event name does not match the scanned ticket").Send(ctx, w)
				return
			}
			userEmail = payload.UserEmail
		}

		if userEmail == "" {
			response.InvalidData("scan: user_email is required").Send(ctx, w)
			return
		}

		msg, err := scanner.Scan(ctx, f.DB(ctx), eventID, userEmail)
		if errors.Is(err, attendance.ErrNotFound) {
			response.SuccessResponse{
				Data:       &response.Data{Msg: msg},
				StatusCode: http.StatusNotFound,
			}.Send(w)
			return
		}
		if err != nil {
			logger.Errorf(ctx, "scan: unable to record attendance: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Msg: msg},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}
