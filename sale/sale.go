package sale

import (
	"context"
	"database/sql"
	"fmt"

	"sombot-backend/model"
)

// Record persists one sale row. The webhook path writes sales inside the
// issuance transaction; this standalone insert backs the /sales endpoint.
func Record(ctx context.Context, db *sql.DB, s *model.Sale) (*model.Sale, error) {
	if s == nil || s.EventID == 0 || s.UserEmail == "" {
		return nil, fmt.Errorf("record: invalid sale")
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("record: error begining db transaction: %s", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO Sale(event_id, user_email, user_name, price) VALUES (?, ?, ?, ?);`)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("record: error preparing insert: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(s.EventID, s.UserEmail, s.UserName, s.Price)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("record: error inserting sale: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("record: error reading insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("record: error commiting sale: %w", err)
	}

	s.SaleID = id
	return s, nil
}
