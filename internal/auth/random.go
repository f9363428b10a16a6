package auth

import (
	"crypto/rand"
	"encoding/base64"
)

const (
	refreshSecretSize     = 32
	verificationTokenSize = 32
	resetTokenSize        = 16
)

func randomToken(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewRefreshSecret генерирует секрет refresh-токена (32 байта энтропии).
// Сырое значение уходит в подписанный токен, в БД хранится только хеш.
func NewRefreshSecret() (string, error) {
	return randomToken(refreshSecretSize)
}

// NewVerificationToken генерирует токен подтверждения email
func NewVerificationToken() (string, error) {
	return randomToken(verificationTokenSize)
}

// NewResetToken генерирует токен сброса пароля (16 байт)
func NewResetToken() (string, error) {
	return randomToken(resetTokenSize)
}
