package model

import (
	"github.com/shopspring/decimal"
)

type EventAnalytics struct {
	EventID          int64           `json:"event_id"`
	TicketsSold      int64           `json:"tickets_sold"`
	RemainingTickets int64           `json:"remaining_tickets"`
	Revenue          decimal.Decimal `json:"revenue"`
	Attended         int64           `json:"attended"`
	Absent           int64           `json:"absent"`
}
