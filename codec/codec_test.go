package codec

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"sombot-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var key = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecryptRoundTrip(t *testing.T) {
	payload := model.QRPayload{
		EventID:   42,
		EventName: "Sombot Launch Night",
		UserEmail: "a@x.com",
	}
	plain, err := json.Marshal(payload)
	require.Nil(t, err, "expected err to be nil")

	encrypted, err := Encrypt(key, plain)
	require.Nil(t, err, "expected err to be nil")

	decrypted, err := Decrypt(key, encrypted)
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, plain, decrypted)

	var got model.QRPayload
	err = json.Unmarshal(decrypted, &got)
	require.Nil(t, err, "expected err to be nil")
	assert.Equal(t, payload, got)
}

func TestEncryptUsesFreshIV(t *testing.T) {
	plain := []byte(`{"eventId":1,"eventName":"e","userEmail":"a@x.com"}`)

	first, err := Encrypt(key, plain)
	require.Nil(t, err, "expected err to be nil")
	second, err := Encrypt(key, plain)
	require.Nil(t, err, "expected err to be nil")

	assert.NotEqual(t, first, second, "equal payloads must not share ciphertext")
}

func TestEncryptRejectsBadKeyLength(t *testing.T) {
	_, err := Encrypt([]byte("short"), []byte("data"))
	assert.NotNil(t, err)
}

func TestDecryptRejectsBadHex(t *testing.T) {
	_, err := Decrypt(key, "not-hex!")
	assert.NotNil(t, err)
}

func TestDecryptRejectsShortCiphertext(t *testing.T) {
	_, err := Decrypt(key, hex.EncodeToString([]byte("0123456789abcdef")))
	assert.NotNil(t, err)
}

func TestUnpadRejectsCorruptPadding(t *testing.T) {
	data := make([]byte, 16)
	data[15] = 200
	_, err := unpad(data, 16)
	assert.NotNil(t, err)
}
