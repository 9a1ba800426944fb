package response

import (
	"encoding/json"
	"net/http"

	"sombot-backend/model"
)

type SuccessResponse struct {
	Data       *Data `json:"data"`
	StatusCode int   `json:"-"`
}

type Data struct {
	Event             *model.Event          `json:"event,omitempty"`
	Events            []model.Event         `json:"events,omitempty"`
	Ticket            *model.Ticket         `json:"ticket,omitempty"`
	Sale              *model.Sale           `json:"sale,omitempty"`
	Analytics         *model.EventAnalytics `json:"analytics,omitempty"`
	URL               string                `json:"url,omitempty"`
	CheckoutSessionID string                `json:"checkout_session_id,omitempty"`
	Msg               string                `json:"msg,omitempty"`
	Success           bool                  `json:"success,omitempty"`
}

func (r SuccessResponse) Send(w http.ResponseWriter) {
	w.WriteHeader(r.StatusCode)
	json.NewEncoder(w).Encode(r)
}
