package models

import "time"

type UserRole string

const (
	UserRoleTenant   UserRole = "tenant"
	UserRoleLandlord UserRole = "landlord"
	UserRoleAdmin    UserRole = "admin"
)

// User - учетная запись пользователя.
// RefreshTokenHash хранит bcrypt-хеш секрета текущего refresh-токена:
// у пользователя одновременно валиден максимум один refresh-токен.
// EmailVerifiedAt == nil означает, что email не подтвержден и вход запрещен.
type User struct {
	BaseModel
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	FirstName        string     `gorm:"not null" json:"first_name"`
	PasswordHash     string     `gorm:"not null" json:"-"`
	Role             UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	RefreshTokenHash *string    `gorm:"" json:"-"`
	EmailVerifiedAt  *time.Time `json:"email_verified_at"`
}

// IsVerified сообщает, подтвержден ли email пользователя
func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}
