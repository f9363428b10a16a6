package services

import "roomly_backend/internal/pkg/email"

// ServiceContainer - контейнер всех сервисов приложения
type ServiceContainer struct {
	AuthService  AuthService
	UserService  UserService
	EmailService email.Provider
}
