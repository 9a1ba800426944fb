package model

type CheckoutRequest struct {
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
}

type IssueTicketRequest struct {
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
}

type SaleRequest struct {
	EventID   int64  `json:"event_id"`
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
	Price     int64  `json:"price"`
}

type ScanRequest struct {
	UserEmail string `json:"user_email,omitempty"`
	// EventName, when sent alongside Payload, must match the name
	// sealed in the ticket.
	EventName string `json:"event_name,omitempty"`
	// Payload carries the raw encrypted QR contents when the scanner
	// defers decryption to the server.
	Payload string `json:"payload,omitempty"`
}

type EventRequest struct {
	Event *Event `json:"event"`
}

type EventStatusRequest struct {
	Status string `json:"status"`
}
