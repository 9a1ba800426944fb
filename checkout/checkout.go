package checkout

import (
	"context"
	"fmt"
	"strconv"

	"sombot-backend/logger"
	"sombot-backend/model"

	"github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/checkout/session"
)

// Service creates Stripe hosted checkout sessions. The session metadata
// is the only carrier of purchase intent to the webhook receiver.
type Service struct {
	successURL string
	cancelURL  string
	currency   string
}

func NewService(publicBaseURL, currency string) *Service {
	return &Service{
		successURL: fmt.Sprintf("%s/checkout/success", publicBaseURL),
		cancelURL:  fmt.Sprintf("%s/checkout/cancel", publicBaseURL),
		currency:   currency,
	}
}

// CreateSession returns the ID of a new checkout session for one ticket.
func (s *Service) CreateSession(ctx context.Context, ev *model.Event, userEmail, userName string) (string, error) {
	if ev == nil || userEmail == "" {
		return "", fmt.Errorf("createSession: invalid params")
	}

	name := "Event ticket"
	if ev.EventName != nil {
		name = fmt.Sprintf("%s ticket", *ev.EventName)
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(userEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Name:     stripe.String(name),
				Amount:   stripe.Int64(ev.TicketPrice),
				Currency: stripe.String(s.currency),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
	}

	if ev.OrganizerAccount != nil && *ev.OrganizerAccount != "" {
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(*ev.OrganizerAccount),
			},
		}
	}

	for key, value := range Metadata(ev, userEmail, userName) {
		params.AddMetadata(key, value)
	}

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("createSession: error creating stripe session: %w", err)
	}

	logger.Infof(ctx, "createSession: created checkout session %s for event %d", sess.ID, ev.EventID)
	return sess.ID, nil
}

// Metadata builds the purchase-intent metadata attached to the session
// and read back by the webhook receiver.
func Metadata(ev *model.Event, userEmail, userName string) map[string]string {
	return map[string]string{
		"event_id":   strconv.FormatInt(ev.EventID, 10),
		"user_email": userEmail,
		"user_name":  userName,
		"price":      strconv.FormatInt(ev.TicketPrice, 10),
	}
}

// ParseMetadata reverses Metadata on the webhook side.
func ParseMetadata(metadata map[string]string) (eventID, price int64, userEmail, userName string, err error) {
	eventID, err = strconv.ParseInt(metadata["event_id"], 10, 64)
	if err != nil {
		return 0, 0, "", "", fmt.Errorf("parseMetadata: invalid event_id: %q", metadata["event_id"])
	}

	price, err = strconv.ParseInt(metadata["price"], 10, 64)
	if err != nil {
		return 0, 0, "", "", fmt.Errorf("parseMetadata: invalid price: %q", metadata["price"])
	}

	userEmail = metadata["user_email"]
	if userEmail == "" {
		return 0, 0, "", "", fmt.Errorf("parseMetadata: missing user_email")
	}

	return eventID, price, userEmail, metadata["user_name"], nil
}
