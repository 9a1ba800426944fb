package mailer

import (
	"testing"
	"time"

	"sombot-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptPDF(t *testing.T) {
	name := "Water Festival"
	start := time.Date(2025, time.November, 1, 18, 0, 0, 0, time.UTC)
	ev := &model.Event{EventID: 3, EventName: &name, StartTime: &start}

	pdf, err := ReceiptPDF("Dara", ev, 2000)
	require.Nil(t, err, "expected err to be nil")
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestReceiptPDFWithoutEvent(t *testing.T) {
	pdf, err := ReceiptPDF("Dara", nil, 500)
	require.Nil(t, err, "expected err to be nil")
	assert.NotEmpty(t, pdf)
}

func TestTicketHTMLContainsQRURL(t *testing.T) {
	name := "Water Festival"
	ev := &model.Event{EventID: 3, EventName: &name}

	html := ticketHTML("Dara", ev, "https://storage.googleapis.com/sombot/tickets/x.png")
	assert.Contains(t, html, "https://storage.googleapis.com/sombot/tickets/x.png")
	assert.Contains(t, html, "Water Festival")
}
