package utils

import (
	"github.com/matthewhartstonge/argon2"
)

// HashPassword encodes the password with argon2id using the library's
// recommended defaults.
func HashPassword(password string) (string, error) {
	cfg := argon2.DefaultConfig()
	encoded, err := cfg.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// VerifyPassword checks a plaintext password against a stored encoded hash.
func VerifyPassword(encodedHash, password string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}
