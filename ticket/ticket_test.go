package ticket

import (
	"encoding/json"
	"fmt"
	"testing"

	"sombot-backend/codec"
	"sombot-backend/model"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestIsDuplicateEntry(t *testing.T) {
	assert.True(t, isDuplicateEntry(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.True(t, isDuplicateEntry(fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062})))
	assert.False(t, isDuplicateEntry(&mysql.MySQLError{Number: 1452}))
	assert.False(t, isDuplicateEntry(fmt.Errorf("plain error")))
	assert.False(t, isDuplicateEntry(nil))
}

func TestRenderQRProducesDecryptablePayload(t *testing.T) {
	issuer := NewIssuer(nil, nil, nil, testKey)

	png, err := issuer.renderQR(7, "Water Festival", "a@x.com")
	require.Nil(t, err, "expected err to be nil")
	assert.NotEmpty(t, png)
	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestQRPayloadRoundTrip(t *testing.T) {
	payload, err := json.Marshal(model.QRPayload{EventID: 7, EventName: "Water Festival", UserEmail: "a@x.com"})
	require.Nil(t, err, "expected err to be nil")

	encrypted, err := codec.Encrypt(testKey, payload)
	require.Nil(t, err, "expected err to be nil")

	decrypted, err := codec.Decrypt(testKey, encrypted)
	require.Nil(t, err, "expected err to be nil")

	var got model.QRPayload
	require.Nil(t, json.Unmarshal(decrypted, &got), "expected err to be nil")
	assert.Equal(t, int64(7), got.EventID)
	assert.Equal(t, "a@x.com", got.UserEmail)
}

func TestIssueRejectsInvalidParams(t *testing.T) {
	issuer := NewIssuer(nil, nil, nil, testKey)

	_, err := issuer.Issue(nil, nil, IssueParams{})
	assert.NotNil(t, err)

	_, err = issuer.Issue(nil, nil, IssueParams{Event: &model.Event{EventID: 1}})
	assert.NotNil(t, err)
}
