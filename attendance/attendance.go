package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sombot-backend/codec"
	"sombot-backend/model"
	"sombot-backend/monitoring"
)

// Scan outcome messages, returned verbatim to the scanner client.
const (
	MsgUpdated    = "attendance updated"
	MsgAlready    = "attendance already recorded"
	MsgNotStarted = "event has not started"
	MsgEnded      = "event has ended"
	MsgNotFound   = "no attendance record for this buyer"
)

var ErrNotFound = errors.New("attendance record not found")

// Scanner flips attendance rows from absent to attended while the event
// window is open. Now is overridable for tests.
type Scanner struct {
	key []byte
	Now func() time.Time
}

func NewScanner(key []byte) *Scanner {
	return &Scanner{key: key, Now: time.Now}
}

// DecodePayload decrypts a raw QR payload scanned by the client.
func (s *Scanner) DecodePayload(encrypted string) (*model.QRPayload, error) {
	plain, err := codec.Decrypt(s.key, encrypted)
	if err != nil {
		return nil, fmt.Errorf("decodePayload: error decrypting payload: %w", err)
	}

	var payload model.QRPayload
	if err := json.Unmarshal(plain, &payload); err != nil {
		return nil, fmt.Errorf("decodePayload: error unmarshalling payload: %w", err)
	}

	return &payload, nil
}

// Scan validates the event window and records attendance. The returned
// message describes the outcome whether or not state changed.
func (s *Scanner) Scan(ctx context.Context, db *sql.DB, eventID int64, userEmail string) (string, error) {
	start, end, err := eventWindow(db, eventID)
	if err != nil {
		return "", fmt.Errorf("scan: error fetching event window: %d: %w", eventID, err)
	}

	status, found, err := fetchStatus(db, eventID, userEmail)
	if err != nil {
		return "", fmt.Errorf("scan: error fetching attendance: %w", err)
	}
	if !found {
		monitoring.Scan("not_found")
		return MsgNotFound, ErrNotFound
	}

	msg, transition := outcome(s.Now(), start, end, status)
	if !transition {
		monitoring.Scan(scanResult(msg))
		return msg, nil
	}

	updated, err := markAttended(db, eventID, userEmail)
	if err != nil {
		return "", fmt.Errorf("scan: error updating attendance: %w", err)
	}

	msg = scanMessage(updated)
	monitoring.Scan(scanResult(msg))
	return msg, nil
}

// scanMessage resolves the message after the update ran. Zero changed
// rows means a concurrent scan marked the buyer attended between our
// status read and the update.
func scanMessage(updated bool) string {
	if updated {
		return MsgUpdated
	}
	return MsgAlready
}

// outcome decides the state transition for one scan. Attended is
// terminal; a second in-window scan is a no-op.
func outcome(now, start, end time.Time, status string) (msg string, transition bool) {
	if now.Before(start) {
		return MsgNotStarted, false
	}
	if now.After(end) {
		return MsgEnded, false
	}
	if status == model.AttendanceAttended {
		return MsgAlready, false
	}
	return MsgUpdated, true
}

func scanResult(msg string) string {
	switch msg {
	case MsgNotStarted:
		return "not_started"
	case MsgEnded:
		return "ended"
	case MsgAlready:
		return "already"
	default:
		return "attended"
	}
}

func eventWindow(db *sql.DB, eventID int64) (start, end time.Time, err error) {
	stmt, err := db.Prepare(`SELECT start_time, end_time FROM Event WHERE event_id = ?;`)
	if err != nil {
		return start, end, fmt.Errorf("eventWindow: error preparing query: %w", err)
	}
	defer stmt.Close()

	if err := stmt.QueryRow(eventID).Scan(&start, &end); err != nil {
		return start, end, fmt.Errorf("eventWindow: error scanning window: %w", err)
	}

	return start, end, nil
}

func fetchStatus(db *sql.DB, eventID int64, userEmail string) (string, bool, error) {
	stmt, err := db.Prepare(`SELECT status FROM Attendance WHERE event_id = ? AND user_email = ?;`)
	if err != nil {
		return "", false, fmt.Errorf("fetchStatus: error preparing query: %w", err)
	}
	defer stmt.Close()

	var status string
	err = stmt.QueryRow(eventID, userEmail).Scan(&status)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("fetchStatus: error scanning status: %w", err)
	}

	return status, true, nil
}

// markAttended reports whether the update changed the row. MySQL counts
// only changed rows, so a row already set to ATTENDED by a concurrent
// scan yields false, not an error.
func markAttended(db *sql.DB, eventID int64, userEmail string) (bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return false, fmt.Errorf("markAttended: error begining db transaction: %s", err)
	}

	stmt, err := tx.Prepare(`UPDATE Attendance SET status = ? WHERE event_id = ? AND user_email = ?;`)
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("markAttended: error preparing update: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(model.AttendanceAttended, eventID, userEmail)
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("markAttended: error updating attendance: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("markAttended: error reading rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("markAttended: error commiting attendance update: %w", err)
	}

	return updated > 0, nil
}
