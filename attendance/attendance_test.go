package attendance

import (
	"encoding/json"
	"testing"
	"time"

	"sombot-backend/codec"
	"sombot-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func window(t *testing.T) (start, end time.Time) {
	t.Helper()
	start = time.Date(2025, time.March, 1, 18, 0, 0, 0, time.UTC)
	return start, start.Add(3 * time.Hour)
}

func TestOutcomeBeforeStart(t *testing.T) {
	start, end := window(t)

	msg, transition := outcome(start.Add(-time.Minute), start, end, model.AttendanceAbsent)
	assert.Equal(t, MsgNotStarted, msg)
	assert.False(t, transition, "attendance must stay unchanged before the window")
}

func TestOutcomeAfterEnd(t *testing.T) {
	start, end := window(t)

	msg, transition := outcome(end.Add(time.Minute), start, end, model.AttendanceAbsent)
	assert.Equal(t, MsgEnded, msg)
	assert.False(t, transition, "attendance must stay unchanged after the window")
}

func TestOutcomeInWindow(t *testing.T) {
	start, end := window(t)

	msg, transition := outcome(start.Add(time.Hour), start, end, model.AttendanceAbsent)
	assert.Equal(t, MsgUpdated, msg)
	assert.True(t, transition)
}

func TestOutcomeWindowBoundsInclusive(t *testing.T) {
	start, end := window(t)

	msg, transition := outcome(start, start, end, model.AttendanceAbsent)
	assert.Equal(t, MsgUpdated, msg)
	assert.True(t, transition)

	msg, transition = outcome(end, start, end, model.AttendanceAbsent)
	assert.Equal(t, MsgUpdated, msg)
	assert.True(t, transition)
}

func TestOutcomeSecondScanIsNoOp(t *testing.T) {
	start, end := window(t)

	msg, transition := outcome(start.Add(time.Hour), start, end, model.AttendanceAttended)
	assert.Equal(t, MsgAlready, msg)
	assert.False(t, transition, "attended is terminal")
}

func TestScanMessageAfterConcurrentUpdate(t *testing.T) {
	assert.Equal(t, MsgUpdated, scanMessage(true))
	// Zero rows changed: another scanner marked the buyer attended first.
	assert.Equal(t, MsgAlready, scanMessage(false))
}

func TestDecodePayload(t *testing.T) {
	scanner := NewScanner(testKey)

	plain, err := json.Marshal(model.QRPayload{EventID: 9, EventName: "Sombot Gala", UserEmail: "a@x.com"})
	require.Nil(t, err, "expected err to be nil")

	encrypted, err := codec.Encrypt(testKey, plain)
	require.Nil(t, err, "expected err to be nil")

	payload, err := scanner.DecodePayload(encrypted)
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, int64(9), payload.EventID)
	assert.Equal(t, "Sombot Gala", payload.EventName)
	assert.Equal(t, "a@x.com", payload.UserEmail)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	scanner := NewScanner(testKey)

	_, err := scanner.DecodePayload("zz-not-hex")
	assert.NotNil(t, err)
}
