package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret создает bcrypt хеш секрета.
// Используется и для паролей, и для одноразовых токенов (refresh,
// верификация email, сброс пароля) - в БД никогда не попадает plaintext.
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckSecret проверяет кандидата против хеша.
// На битом хеше не возвращает ошибку - просто false.
func CheckSecret(hash, candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate))
	return err == nil
}

// ValidatePassword проверяет сложность пароля
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	return nil
}
