package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sombot-backend/cache"
	"sombot-backend/config"
	"sombot-backend/model"
	"sombot-backend/ticket"

	firebase "firebase.google.com/go"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

const webhookTestSecret = "whsec_test_secret"

const completedSessionPayload = `{"id":"evt_replay_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","metadata":{"event_id":"7","price":"2000","user_email":"a@x.com","user_name":"Dara"}}}}`

type issuerStub struct {
	err    error
	issued int
	last   ticket.IssueParams
}

func (s *issuerStub) Issue(ctx context.Context, db *sql.DB, p ticket.IssueParams) (*model.Ticket, error) {
	s.issued++
	s.last = p
	if s.err != nil {
		return nil, s.err
	}
	return &model.Ticket{TicketID: 1, EventID: p.Event.EventID, UserEmail: p.UserEmail}, nil
}

type eventsStub struct {
	ev *model.Event
}

func (s eventsStub) Get(ctx context.Context, db *sql.DB, eventID int64) (*model.Event, error) {
	return s.ev, nil
}

type factoryStub struct{}

func (factoryStub) DB(ctx context.Context) *sql.DB                { return nil }
func (factoryStub) FirebaseApp(ctx context.Context) *firebase.App { return nil }
func (factoryStub) Cache(ctx context.Context) *cache.Cache        { return nil }

func approvedEvent() *model.Event {
	name := "Water Festival"
	status := model.StatusApproved
	return &model.Event{
		EventID:      7,
		EventName:    &name,
		TicketPrice:  2000,
		TicketAmount: 100,
		Status:       &status,
	}
}

// signedWebhookRequest signs payload the way Stripe does: the v1
// signature is an HMAC-SHA256 of "<timestamp>.<payload>".
func signedWebhookRequest(t *testing.T, secret, payload string) *http.Request {
	t.Helper()

	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)

	r := httptest.NewRequest(http.MethodPost, "/v1/webhook/stripe", strings.NewReader(payload))
	r.Header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil))))
	return r
}

func TestStripeWebhookAcknowledgesReplayedDelivery(t *testing.T) {
	viper.Set(config.StripeWebhookSecret, webhookTestSecret)
	defer viper.Set(config.StripeWebhookSecret, "")

	issuer := &issuerStub{err: ticket.ErrAlreadyProcessed}
	h := StripeWebhook(issuer, eventsStub{ev: approvedEvent()}, nil, factoryStub{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, signedWebhookRequest(t, webhookTestSecret, completedSessionPayload))

	assert.Equal(t, http.StatusOK, w.Code, "replay must be acknowledged so Stripe stops retrying")
	assert.Empty(t, w.Body.String())
	assert.Equal(t, 1, issuer.issued)
	assert.Equal(t, "evt_replay_1", issuer.last.WebhookEventID, "delivery id must reach the issuer as the idempotency key")
}

func TestStripeWebhookAcknowledgesAlreadyIssuedTicket(t *testing.T) {
	viper.Set(config.StripeWebhookSecret, webhookTestSecret)
	defer viper.Set(config.StripeWebhookSecret, "")

	issuer := &issuerStub{err: ticket.ErrAlreadyIssued}
	h := StripeWebhook(issuer, eventsStub{ev: approvedEvent()}, nil, factoryStub{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, signedWebhookRequest(t, webhookTestSecret, completedSessionPayload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestStripeWebhookIgnoresOtherEventTypes(t *testing.T) {
	viper.Set(config.StripeWebhookSecret, webhookTestSecret)
	defer viper.Set(config.StripeWebhookSecret, "")

	issuer := &issuerStub{}
	h := StripeWebhook(issuer, eventsStub{ev: approvedEvent()}, nil, factoryStub{})

	payload := `{"id":"evt_other","type":"payment_intent.created","data":{"object":{}}}`
	w := httptest.NewRecorder()
	h.ServeHTTP(w, signedWebhookRequest(t, webhookTestSecret, payload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, issuer.issued, "only completed checkouts may issue tickets")
}

func TestStripeWebhookCarriesSalePrice(t *testing.T) {
	viper.Set(config.StripeWebhookSecret, webhookTestSecret)
	defer viper.Set(config.StripeWebhookSecret, "")

	issuer := &issuerStub{err: ticket.ErrAlreadyProcessed}
	h := StripeWebhook(issuer, eventsStub{ev: approvedEvent()}, nil, factoryStub{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, signedWebhookRequest(t, webhookTestSecret, completedSessionPayload))

	if assert.NotNil(t, issuer.last.Price) {
		assert.Equal(t, int64(2000), *issuer.last.Price)
	}
	assert.Equal(t, "a@x.com", issuer.last.UserEmail)
}
