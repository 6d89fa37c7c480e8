package service

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"

	"superlists/internal/domain"
)

const confirmationAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateConfirmationCode() (string, error) {
	max := big.NewInt(int64(len(confirmationAlphabet)))
	code := make([]byte, domain.ConfirmationCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = confirmationAlphabet[n.Int64()]
	}
	return string(code), nil
}

func codesEqual(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
