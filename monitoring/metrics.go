package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkoutSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_sessions_total",
			Help: "Checkout sessions created, by outcome",
		},
		[]string{"status"},
	)

	webhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Stripe webhook deliveries, by outcome",
		},
		[]string{"status"},
	)

	ticketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Tickets issued successfully",
		},
	)

	scans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_scans_total",
			Help: "QR scans, by result",
		},
		[]string{"result"},
	)

	emails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Emails sent, by kind and outcome",
		},
		[]string{"kind", "status"},
	)
)

func CheckoutSession(status string) {
	checkoutSessions.WithLabelValues(status).Inc()
}

func WebhookEvent(status string) {
	webhookEvents.WithLabelValues(status).Inc()
}

func TicketIssued() {
	ticketsIssued.Inc()
}

func Scan(result string) {
	scans.WithLabelValues(result).Inc()
}

func Email(kind, status string) {
	emails.WithLabelValues(kind, status).Inc()
}
