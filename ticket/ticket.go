package ticket

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"sombot-backend/cache"
	"sombot-backend/codec"
	c "sombot-backend/context"
	"sombot-backend/logger"
	"sombot-backend/model"
	"sombot-backend/monitoring"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	ticketTable     = "Ticket"
	attendanceTable = "Attendance"
	saleTable       = "Sale"
	webhookTable    = "Processed_Webhook"

	qrImageSize = 512

	mysqlDuplicateEntry = 1062
)

var (
	// ErrAlreadyIssued signals the unique (event_id, user_email) key fired.
	ErrAlreadyIssued = errors.New("ticket already issued for this event and buyer")
	// ErrAlreadyProcessed signals a webhook delivery that was handled before.
	ErrAlreadyProcessed = errors.New("webhook event already processed")
	// ErrSoldOut signals the event has no remaining capacity.
	ErrSoldOut = errors.New("event is sold out")
)

// ObjectStore uploads rendered QR images and removes them when issuance
// fails after the upload.
type ObjectStore interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
	Delete(ctx context.Context, name string) error
}

// Notifier delivers the ticket email once issuance committed.
type Notifier interface {
	SendTicket(ctx context.Context, toEmail, toName string, ev *model.Event, qrURL string) error
}

// IssueParams carries one issuance request. Price is nil when no sale row
// should be recorded (direct API issuance); WebhookEventID is the
// idempotency key and is empty outside the webhook path.
type IssueParams struct {
	Event          *model.Event
	UserEmail      string
	UserName       string
	Price          *int64
	WebhookEventID string
}

func NewIssuer(store ObjectStore, notifier Notifier, cache *cache.Cache, key []byte) *Issuer {
	return &Issuer{store: store, notifier: notifier, cache: cache, key: key}
}

type Issuer struct {
	store    ObjectStore
	notifier Notifier
	cache    *cache.Cache
	key      []byte
}

// Issue renders and uploads the QR image, then creates the ticket,
// attendance and sale rows in one transaction. The uploaded object is
// deleted again when the transaction does not commit.
func (i *Issuer) Issue(ctx context.Context, db *sql.DB, p IssueParams) (*model.Ticket, error) {
	if p.Event == nil || p.UserEmail == "" {
		return nil, fmt.Errorf("issue: invalid params")
	}

	eventName := ""
	if p.Event.EventName != nil {
		eventName = *p.Event.EventName
	}

	png, err := i.renderQR(p.Event.EventID, eventName, p.UserEmail)
	if err != nil {
		return nil, fmt.Errorf("issue: %w", err)
	}

	objectName := fmt.Sprintf("tickets/%s.png", uuid.New().String())
	qrURL, err := i.store.Upload(ctx, objectName, png)
	if err != nil {
		return nil, fmt.Errorf("issue: error uploading qr image: %w", err)
	}

	ticket, err := i.persist(ctx, db, p, eventName, qrURL)
	if err != nil {
		if delErr := i.store.Delete(ctx, objectName); delErr != nil {
			logger.Warnf(ctx, "issue: could not delete orphaned qr object: %s: %+v", objectName, delErr)
		}
		return nil, err
	}

	monitoring.TicketIssued()
	i.cache.InvalidateEvent(ctx, p.Event.EventID)

	go i.notify(ctx, p, ticket)

	return ticket, nil
}

func (i *Issuer) persist(ctx context.Context, db *sql.DB, p IssueParams, eventName, qrURL string) (*model.Ticket, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("persist: error begining db transaction: %s", err)
	}

	if p.WebhookEventID != "" {
		if err := recordWebhook(tx, p.WebhookEventID); err != nil {
			tx.Rollback()
			if isDuplicateEntry(err) {
				return nil, ErrAlreadyProcessed
			}
			return nil, fmt.Errorf("persist: error recording webhook event: %w", err)
		}
	}

	ticketID, err := insert(tx,
		fmt.Sprintf(`INSERT INTO %s(event_id, user_email, event_name, qr_url) VALUES (?, ?, ?, ?);`, ticketTable),
		p.Event.EventID, p.UserEmail, eventName, qrURL,
	)
	if err != nil {
		tx.Rollback()
		if isDuplicateEntry(err) {
			return nil, ErrAlreadyIssued
		}
		return nil, fmt.Errorf("persist: error inserting ticket: %w", err)
	}

	sold, err := countTickets(tx, p.Event.EventID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("persist: error counting tickets: %w", err)
	}
	if sold > p.Event.TicketAmount {
		tx.Rollback()
		return nil, ErrSoldOut
	}

	_, err = insert(tx,
		fmt.Sprintf(`INSERT INTO %s(event_id, user_email, user_name, event_name, status) VALUES (?, ?, ?, ?, ?);`, attendanceTable),
		p.Event.EventID, p.UserEmail, p.UserName, eventName, model.AttendanceAbsent,
	)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("persist: error inserting attendance: %w", err)
	}

	if p.Price != nil {
		_, err = insert(tx,
			fmt.Sprintf(`INSERT INTO %s(event_id, user_email, user_name, price) VALUES (?, ?, ?, ?);`, saleTable),
			p.Event.EventID, p.UserEmail, p.UserName, *p.Price,
		)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("persist: error inserting sale: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("persist: error commiting issuance: %w", err)
	}

	return &model.Ticket{
		TicketID:  ticketID,
		EventID:   p.Event.EventID,
		UserEmail: p.UserEmail,
		EventName: eventName,
		QRURL:     qrURL,
	}, nil
}

func (i *Issuer) renderQR(eventID int64, eventName, userEmail string) ([]byte, error) {
	payload, err := json.Marshal(model.QRPayload{
		EventID:   eventID,
		EventName: eventName,
		UserEmail: userEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("renderQR: error marshalling payload: %w", err)
	}

	encrypted, err := codec.Encrypt(i.key, payload)
	if err != nil {
		return nil, fmt.Errorf("renderQR: error encrypting payload: %w", err)
	}

	png, err := qrcode.Encode(encrypted, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("renderQR: error encoding qr image: %w", err)
	}

	return png, nil
}

// notify runs detached from the request; a failed email is logged, never
// surfaced to the buyer.
func (i *Issuer) notify(ctx context.Context, p IssueParams, ticket *model.Ticket) {
	mailCtx, cancel := c.NewContextWithTimeOut(c.NewContext(c.GetContextValue(ctx, c.ContextKeyCorrelationID)), c.DefaultMailTimeout)
	defer cancel()

	if err := i.notifier.SendTicket(mailCtx, p.UserEmail, p.UserName, p.Event, ticket.QRURL); err != nil {
		monitoring.Email("ticket", "error")
		logger.Errorf(mailCtx, "notify: error sending ticket email to %s: %+v", p.UserEmail, err)
		return
	}
	monitoring.Email("ticket", "ok")
}

func recordWebhook(tx *sql.Tx, webhookEventID string) error {
	_, err := insert(tx,
		fmt.Sprintf(`INSERT INTO %s(webhook_event_id) VALUES (?);`, webhookTable),
		webhookEventID,
	)
	return err
}

func countTickets(tx *sql.Tx, eventID int64) (int64, error) {
	stmt, err := tx.Prepare(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE event_id = ?;`, ticketTable))
	if err != nil {
		return 0, fmt.Errorf("countTickets: error preparing query: %w", err)
	}
	defer stmt.Close()

	var count int64
	if err := stmt.QueryRow(eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("countTickets: error scanning count: %w", err)
	}

	return count, nil
}

func insert(tx *sql.Tx, query string, args ...interface{}) (int64, error) {
	stmt, err := tx.Prepare(query)
	if err != nil {
		return -1, fmt.Errorf("insert: error preparing sql query: %s", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(args...)
	if err != nil {
		return -1, err
	}

	return result.LastInsertId()
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return false
}
