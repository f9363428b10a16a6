package app

import "roomly_backend/internal/pkg/email"

// MockEmailProvider используется для тестов и локальной разработки.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(msg *email.Email) error { return nil }
func (m *MockEmailProvider) SendVerification(to, verificationID, token string) error {
	return nil
}
func (m *MockEmailProvider) SendPasswordReset(to, token string) error { return nil }
