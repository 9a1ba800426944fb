package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sombot-backend/cache"
	"sombot-backend/model"
)

const eventTable = "Event"

var ErrNotFound = errors.New("event not found")

var eventCols = []string{"event_name", "ticket_price", "ticket_amount", "start_time", "end_time", "organizer_email", "organizer_account", "status"}

// NewService returns the event read/write service. The cache may be nil
// when redis is not configured.
func NewService(c *cache.Cache) *Service {
	return &Service{cache: c}
}

type Service struct {
	cache *cache.Cache
}

// Get returns the event with its remaining-ticket count, serving from
// the cache when possible.
func (s *Service) Get(ctx context.Context, db *sql.DB, eventID int64) (*model.Event, error) {
	if ev, ok := s.cache.GetEvent(ctx, eventID); ok {
		return ev, nil
	}

	ev, err := fetchEvent(db, eventID)
	if err != nil {
		return nil, fmt.Errorf("get: error fetching event: %d: %w", eventID, err)
	}

	sold, err := SoldCount(db, eventID)
	if err != nil {
		return nil, fmt.Errorf("get: error counting sold tickets: %d: %w", eventID, err)
	}

	remaining := Remaining(ev.TicketAmount, sold)
	ev.RemainingTickets = &remaining

	s.cache.SetEvent(ctx, ev)
	return ev, nil
}

// Create inserts a new event in PENDING state.
func (s *Service) Create(ctx context.Context, db *sql.DB, ev *model.Event) (*model.Event, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create: error begining db transaction: %s", err)
	}

	status := model.StatusPending
	ev.Status = &status

	values := []interface{}{
		ev.EventName,
		ev.TicketPrice,
		ev.TicketAmount,
		ev.StartTime,
		ev.EndTime,
		ev.OrganizerEmail,
		ev.OrganizerAccount,
		ev.Status,
	}

	id, err := create(tx, eventTable, eventCols, values)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("create: error inserting event: %w", err)
	}

	ev.EventID = id

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create: error commiting event: %w", err)
	}

	return ev, nil
}

// UpdateStatus moves an event between PENDING/APPROVED/REJECTED.
func (s *Service) UpdateStatus(ctx context.Context, db *sql.DB, eventID int64, status string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("updateStatus: error begining db transaction: %s", err)
	}

	updated, err := update(tx, eventTable, []string{"status"}, []interface{}{status}, []string{"event_id"}, []interface{}{eventID})
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("updateStatus: error updating event: %d: %w", eventID, err)
	}

	if updated == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("updateStatus: error commiting status update: %w", err)
	}

	s.cache.InvalidateEvent(ctx, eventID)
	return nil
}

// ListApproved returns approved events with their remaining-ticket counts.
func (s *Service) ListApproved(ctx context.Context, db *sql.DB) ([]model.Event, error) {
	q := `SELECT e.event_id, e.event_name, e.ticket_price, e.ticket_amount, e.start_time, e.end_time,
		  e.organizer_email, e.status, COUNT(t.ticket_id) AS sold
		  FROM Event e LEFT JOIN Ticket t ON e.event_id = t.event_id
		  WHERE e.status = ? GROUP BY e.event_id;`

	st, rows, err := query(db, q, []interface{}{model.StatusApproved})
	if err != nil {
		return nil, fmt.Errorf("listApproved: error querying events: %w", err)
	}
	defer st.Close()
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var ev model.Event
		var sold int64
		err := rows.Scan(
			&ev.EventID,
			&ev.EventName,
			&ev.TicketPrice,
			&ev.TicketAmount,
			&ev.StartTime,
			&ev.EndTime,
			&ev.OrganizerEmail,
			&ev.Status,
			&sold,
		)
		if err != nil {
			return nil, fmt.Errorf("listApproved: error scanning event: %w", err)
		}

		remaining := Remaining(ev.TicketAmount, sold)
		ev.RemainingTickets = &remaining
		events = append(events, ev)
	}

	return events, nil
}

// Remaining is the capacity left for sale, never negative.
func Remaining(capacity, sold int64) int64 {
	if sold >= capacity {
		return 0
	}
	return capacity - sold
}

// SoldCount counts issued tickets for the event.
func SoldCount(db *sql.DB, eventID int64) (int64, error) {
	st, rows, err := query(db, `SELECT COUNT(*) FROM Ticket WHERE event_id = ?;`, []interface{}{eventID})
	if err != nil {
		return 0, fmt.Errorf("soldCount: error querying tickets: %w", err)
	}
	defer st.Close()
	defer rows.Close()

	var sold int64
	if rows.Next() {
		if err := rows.Scan(&sold); err != nil {
			return 0, fmt.Errorf("soldCount: error scanning count: %w", err)
		}
	}

	return sold, nil
}

func fetchEvent(db *sql.DB, eventID int64) (*model.Event, error) {
	q := `SELECT event_id, event_name, ticket_price, ticket_amount, start_time, end_time,
		  organizer_email, organizer_account, status FROM Event WHERE event_id = ?;`

	st, rows, err := query(db, q, []interface{}{eventID})
	if err != nil {
		return nil, fmt.Errorf("fetchEvent: error querying event: %w", err)
	}
	defer st.Close()
	defer rows.Close()

	if rows.Next() {
		var ev model.Event
		err := rows.Scan(
			&ev.EventID,
			&ev.EventName,
			&ev.TicketPrice,
			&ev.TicketAmount,
			&ev.StartTime,
			&ev.EndTime,
			&ev.OrganizerEmail,
			&ev.OrganizerAccount,
			&ev.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("fetchEvent: error while scanning row: %s", err)
		}
		return &ev, nil
	}

	return nil, ErrNotFound
}
