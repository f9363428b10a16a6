package models

import "time"

// Окно действия токена сброса пароля с момента создания записи
const PasswordResetTTL = 15 * time.Minute

// PasswordReset - одноразовая запись сброса пароля, привязанная к email.
// При выдаче нового токена старые записи не удаляются: при проверке
// учитывается только самая свежая (по created_at), остальные
// удаляются все разом после успешного сброса.
type PasswordReset struct {
	BaseModel
	Email     string `gorm:"not null;index"`
	TokenHash string `gorm:"not null"`
}

// Expired сообщает, истекло ли окно действия записи.
// Граница включающая: запись возрастом ровно PasswordResetTTL еще валидна.
func (r *PasswordReset) Expired(now time.Time) bool {
	return now.Sub(r.CreatedAt) > PasswordResetTTL
}
