package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Токены подписываются двумя независимыми секретами (access / refresh):
// компрометация одного не дает возможности подделать второй тип.
const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// AccessClaims - полезная нагрузка access-токена
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Email  string `json:"email"`
}

// RefreshClaims - полезная нагрузка refresh-токена.
// RefreshSecret - сырое значение секрета, сгенерированное при выдаче;
// при проверке оно сверяется с хешем в записи пользователя, что делает
// отозванный (ротированный) токен бесполезным даже до истечения срока.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID        string `json:"uid"`
	RefreshSecret string `json:"secret"`
}

// GenerateAccessToken выпускает подписанный access-токен
func GenerateAccessToken(userID, email string, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
		Email:  email,
	})
	return token.SignedString(secret)
}

// ParseAccessToken проверяет подпись и срок действия access-токена
func ParseAccessToken(tokenString string, secret []byte) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateRefreshToken выпускает подписанный refresh-токен с вшитым
// сырым секретом
func GenerateRefreshToken(userID, refreshSecret string, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:        userID,
		RefreshSecret: refreshSecret,
	})
	return token.SignedString(secret)
}

// ParseRefreshToken проверяет подпись и срок действия refresh-токена
func ParseRefreshToken(tokenString string, secret []byte) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
