package repositories

import (
	"errors"
	"time"

	"roomly_backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrPasswordResetNotFound возвращается, когда для email нет ни одной
	// записи сброса пароля
	ErrPasswordResetNotFound = errors.New("password reset not found")
)

// PasswordResetRepository определяет интерфейс для записей сброса пароля
type PasswordResetRepository interface {
	Create(db *gorm.DB, reset *models.PasswordReset) error

	// FindLatestByEmail возвращает самую свежую запись для email
	// (сортировка по created_at по убыванию)
	FindLatestByEmail(db *gorm.DB, email string) (*models.PasswordReset, error)

	// DeleteByID удаляет конкретную запись (обнаружение истечения)
	DeleteByID(db *gorm.DB, id string) error

	// DeleteByEmail удаляет все записи для email: после успешного сброса
	// ни одна ранее выданная ссылка не должна остаться рабочей
	DeleteByEmail(db *gorm.DB, email string) error

	// DeleteExpired удаляет записи старше olderThan (фоновая чистка)
	DeleteExpired(db *gorm.DB, olderThan time.Time) (int64, error)
}

type passwordResetRepository struct{}

// NewPasswordResetRepository создает новый экземпляр репозитория
func NewPasswordResetRepository() PasswordResetRepository {
	return &passwordResetRepository{}
}

func (r *passwordResetRepository) Create(db *gorm.DB, reset *models.PasswordReset) error {
	return db.Create(reset).Error
}

func (r *passwordResetRepository) FindLatestByEmail(db *gorm.DB, email string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	err := db.Where("email = ?", email).
		Order("created_at DESC").
		First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPasswordResetNotFound
		}
		return nil, err
	}
	return &reset, nil
}

func (r *passwordResetRepository) DeleteByID(db *gorm.DB, id string) error {
	return db.Where("id = ?", id).Delete(&models.PasswordReset{}).Error
}

func (r *passwordResetRepository) DeleteByEmail(db *gorm.DB, email string) error {
	return db.Where("email = ?", email).Delete(&models.PasswordReset{}).Error
}

func (r *passwordResetRepository) DeleteExpired(db *gorm.DB, olderThan time.Time) (int64, error) {
	result := db.Where("created_at < ?", olderThan).Delete(&models.PasswordReset{})
	return result.RowsAffected, result.Error
}
