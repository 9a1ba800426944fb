package codec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// Encrypt seals text with AES-256-CBC and returns hex(iv || ciphertext).
// A fresh IV is drawn for every call so equal payloads never produce
// equal ciphertexts.
func Encrypt(key, text []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("encrypt: could not create cipher: %w", err)
	}

	padded := pad(text, aes.BlockSize)
	ciphertext := make([]byte, aes.BlockSize+len(padded))
	iv := ciphertext[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("encrypt: could not generate iv: %w", err)
	}

	cbc := cipher.NewCBCEncrypter(block, iv)
	cbc.CryptBlocks(ciphertext[aes.BlockSize:], padded)
	return hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt: it expects hex(iv || ciphertext) and returns
// the original plaintext.
func Decrypt(key []byte, text string) ([]byte, error) {
	cipherText, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("decrypt: error decoding hex: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("decrypt: could not create cipher: %w", err)
	}

	if len(cipherText) < 2*aes.BlockSize || len(cipherText)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("decrypt: ciphertext too short")
	}

	iv := cipherText[:aes.BlockSize]
	cipherText = cipherText[aes.BlockSize:]

	cbc := cipher.NewCBCDecrypter(block, iv)
	plain := make([]byte, len(cipherText))
	cbc.CryptBlocks(plain, cipherText)

	return unpad(plain, aes.BlockSize)
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("unpad: invalid padded length: %d", len(data))
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("unpad: invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("unpad: invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
