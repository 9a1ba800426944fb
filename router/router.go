package router

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"

	"sombot-backend/attendance"
	"sombot-backend/checkout"
	"sombot-backend/config"
	"sombot-backend/event"
	"sombot-backend/factory"
	"sombot-backend/firebase"
	"sombot-backend/handler"
	"sombot-backend/healthcheck"
	"sombot-backend/logger"
	"sombot-backend/mailer"
	"sombot-backend/middleware"
	"sombot-backend/response"
	"sombot-backend/ticket"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

// Router returns the router for all the API handlers.
func Router(ctx context.Context) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.SetCorrelationIDHeader)
	r.Use(middleware.PanicHandler)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.ResourceNotFound(fmt.Sprintf("The requested resource was not found: path: %s, method: %s", req.URL.Path, req.Method), "The requested resource was not found!").Send(req.Context(), w)
	})

	r.Use(middleware.ResponseTimeLogging)
	r.Use(middleware.RequestLogging)
	r.Use(middleware.SetContentTypeHeader)

	key, err := hex.DecodeString(viper.GetString(config.TicketEncryptionKey))
	if err != nil || len(key) != 32 {
		logger.Fatalf(ctx, "router: ticket encryption key must be 32 hex-encoded bytes")
	}

	f := factory.NewFactory()
	store := firebase.NewStore(f.FirebaseApp(ctx), viper.GetString(config.FirebaseStorageBucket))
	mail := mailer.New(
		viper.GetString(config.MailerAPIKey),
		viper.GetString(config.MailerFromName),
		viper.GetString(config.MailerFromAddress),
	)

	events := event.NewService(f.Cache(ctx))
	issuer := ticket.NewIssuer(store, mail, f.Cache(ctx), key)
	scanner := attendance.NewScanner(key)
	checkoutService := checkout.NewService(
		viper.GetString(config.PublicBaseURL),
		viper.GetString(config.StripeCurrency),
	)

	r.HandleFunc("/healthcheck", healthcheck.Self).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	baseRouter := r.PathPrefix("/v1").Subrouter()

	eventRouter := baseRouter.PathPrefix("/events").Subrouter()
	eventRouter.HandleFunc("", handler.GetEvents(events, f)).Methods(http.MethodGet)
	eventRouter.HandleFunc("", handler.CreateEvent(events, f)).Methods(http.MethodPost)
	eventRouter.HandleFunc("/{eventID}", handler.GetEvent(events, f)).Methods(http.MethodGet)
	eventRouter.HandleFunc("/{eventID}/status", handler.UpdateEventStatus(events, f)).Methods(http.MethodPatch)
	eventRouter.HandleFunc("/mail/{eventID}", handler.IssueTicket(issuer, events, f)).Methods(http.MethodPost)

	baseRouter.HandleFunc("/checkout/{eventID}", handler.Checkout(checkoutService, events, f)).Methods(http.MethodPost)
	baseRouter.HandleFunc("/webhook/stripe", handler.StripeWebhook(issuer, events, mail, f)).Methods(http.MethodPost)
	baseRouter.HandleFunc("/sales", handler.RecordSale(f)).Methods(http.MethodPost)
	baseRouter.HandleFunc("/attendance/events/{eventID}", handler.Scan(scanner, f)).Methods(http.MethodPost)
	baseRouter.HandleFunc("/analytics/events/{eventID}", handler.EventAnalytics(f)).Methods(http.MethodGet)

	return r
}
