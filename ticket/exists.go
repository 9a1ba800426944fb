package ticket

import (
	"database/sql"
	"fmt"
)

// Exists reports whether a ticket is already held for (event, buyer).
// Checkout uses it for a friendly early rejection; the unique key on the
// Ticket table is the guard that holds under concurrency.
func Exists(db *sql.DB, eventID int64, userEmail string) (bool, error) {
	stmt, err := db.Prepare(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE event_id = ? AND user_email = ?;`, ticketTable))
	if err != nil {
		return false, fmt.Errorf("exists: error preparing query: %w", err)
	}
	defer stmt.Close()

	var count int64
	if err := stmt.QueryRow(eventID, userEmail).Scan(&count); err != nil {
		return false, fmt.Errorf("exists: error scanning count: %w", err)
	}

	return count > 0, nil
}
