package model

const (
	AttendanceAbsent   = "ABSENT"
	AttendanceAttended = "ATTENDED"
)

type Ticket struct {
	TicketID  int64  `json:"ticket_id,omitempty"`
	EventID   int64  `json:"event_id,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	EventName string `json:"event_name,omitempty"`
	QRURL     string `json:"qr_url,omitempty"`
}

type Attendance struct {
	AttendanceID int64  `json:"attendance_id,omitempty"`
	EventID      int64  `json:"event_id,omitempty"`
	UserEmail    string `json:"user_email,omitempty"`
	UserName     string `json:"user_name,omitempty"`
	EventName    string `json:"event_name,omitempty"`
	Status       string `json:"status,omitempty"`
}

type Sale struct {
	SaleID    int64  `json:"sale_id,omitempty"`
	EventID   int64  `json:"event_id,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	UserName  string `json:"user_name,omitempty"`
	Price     int64  `json:"price,omitempty"`
}

// QRPayload is the JSON blob embedded in a ticket's QR code, encrypted
// before encoding.
type QRPayload struct {
	EventID   int64  `json:"eventId"`
	EventName string `json:"eventName"`
	UserEmail string `json:"userEmail"`
}
