package util

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
)

// CryptoRandomBytes generates cryptographically secure random bytes
func CryptoRandomBytes(length int64) ([]byte, error) {
	buf := make([]byte, length)
	_, err := rand.Read(buf)
	return buf, err
}

// CryptoRandomString generates a random hex string of the given length
func CryptoRandomString(length int) (string, error) {
	bytes, err := CryptoRandomBytes(int64((length + 1) / 2))
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes)[:length], nil
}

// RandomPassword returns a URL-safe random password of exactly length characters
func RandomPassword(length int) (string, error) {
	bytes, err := CryptoRandomBytes(int64(length))
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes)[:length], nil
}

// RandomState returns a URL-safe token carrying n bytes of entropy
func RandomState(n int) (string, error) {
	bytes, err := CryptoRandomBytes(int64(n))
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
