package repositories

import (
	"errors"
	"time"

	"roomly_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepository определяет узкий контракт поиска/изменения учетных записей.
// Репозиторий не хранит *gorm.DB: соединение или транзакция передается
// в каждый вызов, чтобы сервис мог оборачивать операции в db.Transaction.
type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)

	// Create возвращает ErrUserAlreadyExists при нарушении уникальности email
	Create(db *gorm.DB, user *models.User) error

	// UpdateEmailVerified атомарно проставляет целевой email и отметку
	// подтверждения
	UpdateEmailVerified(db *gorm.DB, userID, email string, verifiedAt time.Time) error

	UpdatePasswordHash(db *gorm.DB, userID, passwordHash string) error

	// UpdateRefreshTokenHash перезаписывает хеш refresh-секрета одним
	// UPDATE по id: это точка ротации/отзыва, побеждает последняя запись.
	// nil сбрасывает хеш (logout).
	UpdateRefreshTokenHash(db *gorm.DB, userID string, hash *string) error

	Delete(db *gorm.DB, userID string) error
}

type userRepository struct{}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		// Конфликт отдает констрейнт БД, а не предварительный SELECT:
		// при двух конкурентных регистрациях ровно одна получает конфликт
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) UpdateEmailVerified(db *gorm.DB, userID, email string, verifiedAt time.Time) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"email":             email,
		"email_verified_at": verifiedAt,
		"updated_at":        time.Now(),
	})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdatePasswordHash(db *gorm.DB, userID, passwordHash string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdateRefreshTokenHash(db *gorm.DB, userID string, hash *string) error {
	// Update по одной колонке, без read-modify-write
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("refresh_token_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Delete(db *gorm.DB, userID string) error {
	result := db.Where("id = ?", userID).Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
