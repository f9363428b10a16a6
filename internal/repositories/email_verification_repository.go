package repositories

import (
	"errors"

	"roomly_backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrEmailVerificationNotFound возвращается, когда запись подтверждения
	// отсутствует (или уже потреблена - для вызывающего это одно и то же)
	ErrEmailVerificationNotFound = errors.New("email verification not found")
)

// EmailVerificationRepository определяет интерфейс для записей
// подтверждения email
type EmailVerificationRepository interface {
	Create(db *gorm.DB, verification *models.EmailVerification) error

	FindByID(db *gorm.DB, id string) (*models.EmailVerification, error)

	// DeleteByID возвращает ErrEmailVerificationNotFound, если запись уже
	// удалена: на этом строится атомарность потребления - из двух
	// конкурентных подтверждений удаление пройдет только у одного
	DeleteByID(db *gorm.DB, id string) error

	// DeleteByUserID удаляет все незавершенные подтверждения пользователя
	DeleteByUserID(db *gorm.DB, userID string) error
}

type emailVerificationRepository struct{}

// NewEmailVerificationRepository создает новый экземпляр репозитория
func NewEmailVerificationRepository() EmailVerificationRepository {
	return &emailVerificationRepository{}
}

func (r *emailVerificationRepository) Create(db *gorm.DB, verification *models.EmailVerification) error {
	return db.Create(verification).Error
}

func (r *emailVerificationRepository) FindByID(db *gorm.DB, id string) (*models.EmailVerification, error) {
	var verification models.EmailVerification
	if err := db.First(&verification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmailVerificationNotFound
		}
		return nil, err
	}
	return &verification, nil
}

func (r *emailVerificationRepository) DeleteByID(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.EmailVerification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEmailVerificationNotFound
	}
	return nil
}

func (r *emailVerificationRepository) DeleteByUserID(db *gorm.DB, userID string) error {
	return db.Where("user_id = ?", userID).Delete(&models.EmailVerification{}).Error
}
