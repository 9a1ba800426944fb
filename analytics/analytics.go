package analytics

import (
	"context"
	"database/sql"
	"fmt"

	"sombot-backend/event"
	"sombot-backend/model"

	"github.com/shopspring/decimal"
)

// ForEvent aggregates sales and attendance totals for one event.
func ForEvent(ctx context.Context, db *sql.DB, eventID int64) (*model.EventAnalytics, error) {
	capacity, err := eventCapacity(db, eventID)
	if err != nil {
		return nil, fmt.Errorf("forEvent: %w", err)
	}

	sold, err := event.SoldCount(db, eventID)
	if err != nil {
		return nil, fmt.Errorf("forEvent: %w", err)
	}

	revenueCents, err := revenue(db, eventID)
	if err != nil {
		return nil, fmt.Errorf("forEvent: %w", err)
	}

	attended, absent, err := attendanceCounts(db, eventID)
	if err != nil {
		return nil, fmt.Errorf("forEvent: %w", err)
	}

	return &model.EventAnalytics{
		EventID:          eventID,
		TicketsSold:      sold,
		RemainingTickets: event.Remaining(capacity, sold),
		Revenue:          CentsToDecimal(revenueCents),
		Attended:         attended,
		Absent:           absent,
	}, nil
}

// CentsToDecimal converts an integer cent amount to a currency decimal.
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}

func eventCapacity(db *sql.DB, eventID int64) (int64, error) {
	stmt, err := db.Prepare(`SELECT ticket_amount FROM Event WHERE event_id = ?;`)
	if err != nil {
		return 0, fmt.Errorf("eventCapacity: error preparing query: %w", err)
	}
	defer stmt.Close()

	var capacity int64
	if err := stmt.QueryRow(eventID).Scan(&capacity); err != nil {
		if err == sql.ErrNoRows {
			return 0, event.ErrNotFound
		}
		return 0, fmt.Errorf("eventCapacity: error scanning capacity: %w", err)
	}

	return capacity, nil
}

func revenue(db *sql.DB, eventID int64) (int64, error) {
	stmt, err := db.Prepare(`SELECT COALESCE(SUM(price), 0) FROM Sale WHERE event_id = ?;`)
	if err != nil {
		return 0, fmt.Errorf("revenue: error preparing query: %w", err)
	}
	defer stmt.Close()

	var total int64
	if err := stmt.QueryRow(eventID).Scan(&total); err != nil {
		return 0, fmt.Errorf("revenue: error scanning total: %w", err)
	}

	return total, nil
}

func attendanceCounts(db *sql.DB, eventID int64) (attended, absent int64, err error) {
	stmt, err := db.Prepare(`SELECT status, COUNT(*) FROM Attendance WHERE event_id = ? GROUP BY status;`)
	if err != nil {
		return 0, 0, fmt.Errorf("attendanceCounts: error preparing query: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(eventID)
	if err != nil {
		return 0, 0, fmt.Errorf("attendanceCounts: error querying counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return 0, 0, fmt.Errorf("attendanceCounts: error scanning count: %w", err)
		}
		switch status {
		case model.AttendanceAttended:
			attended = count
		case model.AttendanceAbsent:
			absent = count
		}
	}

	return attended, absent, nil
}
