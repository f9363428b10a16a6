package models

// EmailVerification - одноразовая запись подтверждения email.
// Email может отличаться от текущего адреса пользователя: тот же механизм
// используется для смены адреса с повторной верификацией.
// Запись не имеет срока действия и живет до подтверждения или удаления
// аккаунта; TODO: добавить TTL после миграции старых записей.
type EmailVerification struct {
	BaseModel
	UserID    string `gorm:"type:uuid;not null;index"`
	Email     string `gorm:"not null"`
	TokenHash string `gorm:"not null"`
}
