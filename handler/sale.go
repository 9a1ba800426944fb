package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"sombot-backend/factory"
	"sombot-backend/logger"
	"sombot-backend/model"
	"sombot-backend/response"
	"sombot-backend/sale"
)

// RecordSale backs the standalone sales endpoint.
func RecordSale(f factory.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.SaleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest("invalid request body", fmt.Sprintf("recordSale: error unmarshalling request body: %+v", err)).Send(ctx, w)
			return
		}

		if req.EventID <= 0 || req.UserEmail == "" {
			response.InvalidData("recordSale: event_id and user_email are required").Send(ctx, w)
			return
		}

		recorded, err := sale.Record(ctx, f.DB(ctx), &model.Sale{
			EventID:   req.EventID,
			UserEmail: req.UserEmail,
			UserName:  req.UserName,
			Price:     req.Price,
		})
		if err != nil {
			logger.Errorf(ctx, "recordSale: unable to record sale: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       &response.Data{Success: true, Sale: recorded},
			StatusCode: http.StatusCreated,
		}.Send(w)
	}
}
