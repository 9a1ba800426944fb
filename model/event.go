package model

import (
	"time"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type Event struct {
	EventID          int64      `json:"event_id,omitempty"`
	EventName        *string    `json:"event_name,omitempty"`
	TicketPrice      int64      `json:"ticket_price,omitempty"`
	TicketAmount     int64      `json:"ticket_amount,omitempty"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	OrganizerEmail   *string    `json:"organizer_email,omitempty"`
	OrganizerAccount *string    `json:"organizer_account,omitempty"`
	Status           *string    `json:"status,omitempty"`
	RemainingTickets *int64     `json:"remaining_tickets,omitempty"`
}
