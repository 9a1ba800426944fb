package checkout

import (
	"testing"

	"sombot-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataRoundTrip(t *testing.T) {
	name := "Sombot Launch Night"
	ev := &model.Event{EventID: 42, EventName: &name, TicketPrice: 2000}

	metadata := Metadata(ev, "a@x.com", "Dara")
	assert.Equal(t, "42", metadata["event_id"])
	assert.Equal(t, "2000", metadata["price"])

	eventID, price, userEmail, userName, err := ParseMetadata(metadata)
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, int64(42), eventID)
	assert.Equal(t, int64(2000), price)
	assert.Equal(t, "a@x.com", userEmail)
	assert.Equal(t, "Dara", userName)
}

func TestParseMetadataRejectsMissingFields(t *testing.T) {
	_, _, _, _, err := ParseMetadata(map[string]string{})
	assert.NotNil(t, err)

	_, _, _, _, err = ParseMetadata(map[string]string{"event_id": "7", "price": "100"})
	assert.NotNil(t, err, "missing user_email must be rejected")

	_, _, _, _, err = ParseMetadata(map[string]string{"event_id": "x", "price": "100", "user_email": "a@x.com"})
	assert.NotNil(t, err)
}

func TestCreateSessionRejectsInvalidParams(t *testing.T) {
	s := NewService("https://sombot.example.com", "usd")

	_, err := s.CreateSession(nil, nil, "", "")
	assert.NotNil(t, err)
}
