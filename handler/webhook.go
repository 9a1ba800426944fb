package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"io/ioutil"
	"net/http"

	"sombot-backend/checkout"
	"sombot-backend/config"
	c "sombot-backend/context"
	"sombot-backend/factory"
	"sombot-backend/logger"
	"sombot-backend/mailer"
	"sombot-backend/model"
	"sombot-backend/monitoring"
	"sombot-backend/response"
	"sombot-backend/ticket"

	"github.com/spf13/viper"
	"github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/webhook"
)

const maxWebhookBodyBytes = int64(65536)

const checkoutCompleted = "checkout.session.completed"

// ticketIssuer and eventGetter are what the webhook needs from the
// ticket and event services.
type ticketIssuer interface {
	Issue(ctx context.Context, db *sql.DB, p ticket.IssueParams) (*model.Ticket, error)
}

type eventGetter interface {
	Get(ctx context.Context, db *sql.DB, eventID int64) (*model.Event, error)
}

// StripeWebhook verifies the processor signature and, on a completed
// checkout, issues the ticket and sends the receipt. Replayed
// deliveries and already-issued tickets are acknowledged with 200 so
// Stripe stops retrying.
func StripeWebhook(issuer ticketIssuer, events eventGetter, m *mailer.Mailer, f factory.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
		payload, err := ioutil.ReadAll(r.Body)
		if err != nil {
			response.BadRequest("error reading request body", "").Send(ctx, w)
			return
		}

		evt, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), viper.GetString(config.StripeWebhookSecret))
		if err != nil {
			monitoring.WebhookEvent("invalid_signature")
			logger.Errorf(ctx, "stripeWebhook: signature verification failed: %+v", err)
			response.InvalidSignature().Send(ctx, w)
			return
		}

		if evt.Type != checkoutCompleted {
			logger.Debugf(ctx, "stripeWebhook: ignoring event %s of type %s", evt.ID, evt.Type)
			monitoring.WebhookEvent("ignored")
			w.WriteHeader(http.StatusOK)
			return
		}

		var session stripe.CheckoutSession
		if err := json.Unmarshal(evt.Data.Raw, &session); err != nil {
			monitoring.WebhookEvent("error")
			response.BadRequest("invalid event payload", "").Send(ctx, w)
			return
		}

		eventID, price, userEmail, userName, err := checkout.ParseMetadata(session.Metadata)
		if err != nil {
			monitoring.WebhookEvent("error")
			logger.Errorf(ctx, "stripeWebhook: bad session metadata on %s: %+v", evt.ID, err)
			response.BadRequest("invalid session metadata", "").Send(ctx, w)
			return
		}

		ev, err := events.Get(ctx, f.DB(ctx), eventID)
		if err != nil {
			monitoring.WebhookEvent("error")
			logger.Errorf(ctx, "stripeWebhook: unable to fetch event %d for %s: %+v", eventID, evt.ID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		issued, err := issuer.Issue(ctx, f.DB(ctx), ticket.IssueParams{
			Event:          ev,
			UserEmail:      userEmail,
			UserName:       userName,
			Price:          &price,
			WebhookEventID: evt.ID,
		})

		switch err {
		case nil:
		case ticket.ErrAlreadyProcessed:
			logger.Infof(ctx, "stripeWebhook: event %s already processed, acknowledging", evt.ID)
			monitoring.WebhookEvent("duplicate")
			w.WriteHeader(http.StatusOK)
			return
		case ticket.ErrAlreadyIssued:
			logger.Infof(ctx, "stripeWebhook: ticket already issued for event %d and %s, acknowledging", eventID, userEmail)
			monitoring.WebhookEvent("duplicate")
			w.WriteHeader(http.StatusOK)
			return
		default:
			monitoring.WebhookEvent("error")
			logger.Errorf(ctx, "stripeWebhook: unable to issue ticket for %s: %+v", evt.ID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		monitoring.WebhookEvent("ok")

		// Receipt goes out only after the payment is confirmed here, never
		// at session-creation time.
		go sendReceipt(ctx, m, userEmail, userName, ev, price)

		logger.Infof(ctx, "stripeWebhook: issued ticket %d for event %d", issued.TicketID, eventID)
		response.SuccessResponse{
			Data:       &response.Data{Success: true, Ticket: issued},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

// sendReceipt runs detached from the webhook request; failures are
// logged, never surfaced to Stripe.
func sendReceipt(ctx context.Context, m *mailer.Mailer, userEmail, userName string, ev *model.Event, price int64) {
	mailCtx, cancel := c.NewContextWithTimeOut(c.NewContext(c.GetContextValue(ctx, c.ContextKeyCorrelationID)), c.DefaultMailTimeout)
	defer cancel()

	if err := m.SendReceipt(mailCtx, userEmail, userName, ev, price); err != nil {
		monitoring.Email("receipt", "error")
		logger.Errorf(mailCtx, "sendReceipt: error sending receipt to %s: %+v", userEmail, err)
		return
	}
	monitoring.Email("receipt", "ok")
}
