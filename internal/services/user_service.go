package services

import (
	"roomly_backend/internal/appErrors"
	"roomly_backend/internal/models"
	"roomly_backend/internal/repositories"

	"gorm.io/gorm"
)

// UserService - чтение профиля текущего пользователя
type UserService interface {
	GetByID(db *gorm.DB, userID string) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}
	return user, nil
}
