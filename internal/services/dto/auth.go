package dto

import (
	"time"

	"roomly_backend/internal/models"
)

// SignUpRequest - запрос регистрации.
// Role можно не передавать - пустая роль трактуется как tenant.
type SignUpRequest struct {
	Role      models.UserRole `json:"role" validate:"is-user-role"`
	FirstName string          `json:"firstName" binding:"required" validate:"required,min=1,max=100"`
	Email     string          `json:"email" binding:"required" validate:"required,email"`
	Password  string          `json:"password" binding:"required" validate:"required,min=8"`
}

// SignInRequest - запрос входа
type SignInRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// ConfirmEmailRequest - параметры подтверждения email
type ConfirmEmailRequest struct {
	EmailVerificationID string `form:"emailVerificationId" validate:"required"`
	Token               string `form:"token" validate:"required"`
}

// SendResetTokenRequest - запрос выдачи токена сброса пароля
type SendResetTokenRequest struct {
	Email string `form:"email" validate:"required,email"`
}

// ResetPasswordRequest - применение сброса пароля
type ResetPasswordRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required,min=8"`
	Token    string `json:"token" binding:"required" validate:"required"`
}

// TokenPair - пара выданных токенов
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"-"` // уходит только в httpOnly cookie
}

// UserResponse - публичное представление пользователя
type UserResponse struct {
	ID         string          `json:"id"`
	Email      string          `json:"email"`
	FirstName  string          `json:"first_name"`
	Role       models.UserRole `json:"role"`
	IsVerified bool            `json:"is_verified"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewUserResponse строит UserResponse из модели
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		Role:       user.Role,
		IsVerified: user.IsVerified(),
		CreatedAt:  user.CreatedAt,
	}
}
