package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sombot-backend/attendance"
	"sombot-backend/codec"
	"sombot-backend/model"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripeWebhookRejectsInvalidSignature(t *testing.T) {
	h := StripeWebhook(nil, nil, nil, nil)

	r := httptest.NewRequest(http.MethodPost, "/v1/webhook/stripe", strings.NewReader(`{"type":"checkout.session.completed"}`))
	r.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "INVALID_SIGNATURE", body["status"])
}

func TestCheckoutRejectsInvalidEventID(t *testing.T) {
	h := Checkout(nil, nil, nil)

	for _, id := range []string{"abc", "0", "-4", ""} {
		r := httptest.NewRequest(http.MethodPost, "/v1/checkout/"+id, strings.NewReader(`{"user_email":"a@b.com"}`))
		r = mux.SetURLVars(r, map[string]string{"eventID": id})
		w := httptest.NewRecorder()

		h.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code, "eventID %q", id)
	}
}

func TestCheckoutRejectsMissingEmail(t *testing.T) {
	h := Checkout(nil, nil, nil)

	r := httptest.NewRequest(http.MethodPost, "/v1/checkout/7", strings.NewReader(`{"user_name":"Dara"}`))
	r = mux.SetURLVars(r, map[string]string{"eventID": "7"})
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "INVALID_DATA", body["status"])
}

func TestCheckoutRejectsMalformedBody(t *testing.T) {
	h := Checkout(nil, nil, nil)

	r := httptest.NewRequest(http.MethodPost, "/v1/checkout/7", strings.NewReader(`{not json`))
	r = mux.SetURLVars(r, map[string]string{"eventID": "7"})
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScanRejectsUnreadablePayload(t *testing.T) {
	scanner := attendance.NewScanner(bytes.Repeat([]byte{0x42}, 32))
	h := Scan(scanner, nil)

	body, err := json.Marshal(model.ScanRequest{Payload: "not-hex-ciphertext"})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/v1/attendance/events/3", bytes.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"eventID": "3"})
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScanRejectsPayloadForOtherEvent(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	scanner := attendance.NewScanner(key)
	h := Scan(scanner, nil)

	payload := encryptPayload(t, key, model.QRPayload{EventID: 9, EventName: "Water Festival", UserEmail: "a@b.com"})
	body, err := json.Marshal(model.ScanRequest{Payload: payload})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/v1/attendance/events/3", bytes.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"eventID": "3"})
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScanRejectsMismatchedEventName(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	scanner := attendance.NewScanner(key)
	h := Scan(scanner, nil)

	payload := encryptPayload(t, key, model.QRPayload{EventID: 3, EventName: "Water Festival", UserEmail: "a@b.com"})
	body, err := json.Marshal(model.ScanRequest{EventName: "Boat Race", Payload: payload})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/v1/attendance/events/3", bytes.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"eventID": "3"})
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScanRequiresIdentity(t *testing.T) {
	scanner := attendance.NewScanner(bytes.Repeat([]byte{0x42}, 32))
	h := Scan(scanner, nil)

	r := httptest.NewRequest(http.MethodPost, "/v1/attendance/events/3", strings.NewReader(`{}`))
	r = mux.SetURLVars(r, map[string]string{"eventID": "3"})
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func encryptPayload(t *testing.T, key []byte, payload model.QRPayload) string {
	t.Helper()

	plain, err := json.Marshal(payload)
	require.NoError(t, err)

	encrypted, err := codec.Encrypt(key, plain)
	require.NoError(t, err)

	return encrypted
}

func TestValidateEvent(t *testing.T) {
	start := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)
	name := "Water Festival"
	organizer := "org@sombot.com"

	valid := func() *model.Event {
		return &model.Event{
			EventName:      &name,
			TicketPrice:    2000,
			TicketAmount:   100,
			StartTime:      &start,
			EndTime:        &end,
			OrganizerEmail: &organizer,
		}
	}

	assert.NoError(t, validateEvent(valid()))

	assert.Error(t, validateEvent(nil))

	ev := valid()
	ev.EventName = nil
	assert.Error(t, validateEvent(ev))

	ev = valid()
	ev.TicketPrice = -1
	assert.Error(t, validateEvent(ev))

	ev = valid()
	ev.TicketAmount = 0
	assert.Error(t, validateEvent(ev))

	ev = valid()
	ev.StartTime, ev.EndTime = &end, &start
	assert.Error(t, validateEvent(ev))

	ev = valid()
	ev.OrganizerEmail = nil
	assert.Error(t, validateEvent(ev))
}

func TestPathID(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"12", 12, true},
		{"1", 1, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"twelve", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/v1/events/"+tc.raw, nil)
		r = mux.SetURLVars(r, map[string]string{"eventID": tc.raw})

		id, ok := pathID(r, "eventID")
		assert.Equal(t, tc.ok, ok, "raw %q", tc.raw)
		assert.Equal(t, tc.want, id, "raw %q", tc.raw)
	}
}
