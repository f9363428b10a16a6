package services

import (
	"time"

	"roomly_backend/internal/appErrors"
	"roomly_backend/internal/auth"
	"roomly_backend/internal/emailcheck"
	"roomly_backend/internal/logger"
	"roomly_backend/internal/models"
	"roomly_backend/internal/pkg/email"
	"roomly_backend/internal/repositories"
	"roomly_backend/internal/services/dto"

	"gorm.io/gorm"
)

// AuthService - движок жизненного цикла учетных данных и токенов.
//
// Регистрация верификационная: токены не выдаются, пока email не
// подтвержден, и вход с неподтвержденным адресом запрещен.
type AuthService interface {
	SignUp(db *gorm.DB, req *dto.SignUpRequest) (*models.User, error)
	SignIn(db *gorm.DB, req *dto.SignInRequest) (*dto.TokenPair, error)

	// VerifyRefreshToken аутентифицирует предъявленный refresh-токен и
	// возвращает пользователя; вызывается слоем авторизации перед
	// RefreshTokens
	VerifyRefreshToken(db *gorm.DB, refreshToken string) (*models.User, error)

	// RefreshTokens выдает новую пару с полной ротацией: старый
	// refresh-токен становится бесполезным, даже если еще не истек
	RefreshTokens(db *gorm.DB, user *models.User) (*dto.TokenPair, error)

	// Logout сбрасывает refresh-хеш; идемпотентен
	Logout(db *gorm.DB, userID string) error

	// RequestEmailVerification создает одноразовую запись подтверждения
	// для (user, targetEmail) и отправляет письмо; используется и при
	// регистрации, и при смене адреса
	RequestEmailVerification(db *gorm.DB, user *models.User, targetEmail string) error

	// ConfirmUserEmail потребляет запись подтверждения и возвращает
	// подтвержденный адрес
	ConfirmUserEmail(db *gorm.DB, verificationID, token string) (string, error)

	IssuePasswordResetToken(db *gorm.DB, emailAddr string) error
	ResetUserPassword(db *gorm.DB, req *dto.ResetPasswordRequest) error

	// DeleteAccount удаляет учетную запись вместе с ее одноразовыми
	// записями; все выданные токены неявно теряют силу
	DeleteAccount(db *gorm.DB, userID string) error
}

type authService struct {
	userRepo         repositories.UserRepository
	verificationRepo repositories.EmailVerificationRepository
	resetRepo        repositories.PasswordResetRepository
	emailProvider    email.Provider
	emailChecker     emailcheck.Checker

	accessSecret  []byte
	refreshSecret []byte
}

// NewAuthService создает AuthService; все зависимости передаются явно
func NewAuthService(
	userRepo repositories.UserRepository,
	verificationRepo repositories.EmailVerificationRepository,
	resetRepo repositories.PasswordResetRepository,
	emailProvider email.Provider,
	emailChecker emailcheck.Checker,
	accessSecret, refreshSecret string,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		resetRepo:        resetRepo,
		emailProvider:    emailProvider,
		emailChecker:     emailChecker,
		accessSecret:     []byte(accessSecret),
		refreshSecret:    []byte(refreshSecret),
	}
}

// SignUp - регистрация нового пользователя
func (s *authService) SignUp(db *gorm.DB, req *dto.SignUpRequest) (*models.User, error) {
	// Проверка доставляемости адреса до любых побочных эффектов
	if err := s.emailChecker.Validate(req.Email); err != nil {
		return nil, appErrors.ErrInvalidEmail
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.ErrWeakPassword
	}

	passwordHash, err := auth.HashSecret(req.Password)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	// Роль при регистрации необязательна
	role := req.Role
	if role == "" {
		role = models.UserRoleTenant
	}

	user := &models.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		PasswordHash: passwordHash,
		Role:         role,
		// EmailVerifiedAt остается nil: вход до подтверждения запрещен
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if appErrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, appErrors.ErrEmailAlreadyExists
		}
		return nil, appErrors.InternalError(err)
	}

	// Письмо с подтверждением - единственный путь к активации аккаунта.
	// Провал отправки не откатывает регистрацию: аккаунт остается
	// неподтвержденным, письмо можно выслать повторно.
	if err := s.RequestEmailVerification(db, user, user.Email); err != nil {
		logger.Warn("sign-up verification email failed",
			"user_id", user.ID,
			"error", err.Error(),
		)
	}

	return user, nil
}

// SignIn - аутентификация по email и паролю
func (s *authService) SignIn(db *gorm.DB, req *dto.SignInRequest) (*dto.TokenPair, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}

	if !user.IsVerified() {
		return nil, appErrors.ErrUserNotVerified
	}

	if !auth.CheckSecret(user.PasswordHash, req.Password) {
		return nil, appErrors.ErrInvalidCredentials
	}

	return s.issueTokenPair(db, user)
}

// VerifyRefreshToken - двухступенчатая проверка refresh-токена:
// подпись+срок действия, затем сверка вшитого секрета с хешем в записи
// пользователя. Украденный, но уже ротированный токен второй шаг
// не пройдет.
func (s *authService) VerifyRefreshToken(db *gorm.DB, refreshToken string) (*models.User, error) {
	claims, err := auth.ParseRefreshToken(refreshToken, s.refreshSecret)
	if err != nil {
		return nil, appErrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(db, claims.UserID)
	if err != nil {
		// Пользователь удален - все его токены мертвы
		return nil, appErrors.ErrUnauthorized
	}

	if user.RefreshTokenHash == nil || !auth.CheckSecret(*user.RefreshTokenHash, claims.RefreshSecret) {
		return nil, appErrors.ErrUnauthorized
	}

	return user, nil
}

// RefreshTokens - выдача новой пары; вызывающий уже аутентифицировал
// предъявленный refresh-токен через VerifyRefreshToken
func (s *authService) RefreshTokens(db *gorm.DB, user *models.User) (*dto.TokenPair, error) {
	return s.issueTokenPair(db, user)
}

// Logout - сброс refresh-хеша
func (s *authService) Logout(db *gorm.DB, userID string) error {
	if err := s.userRepo.UpdateRefreshTokenHash(db, userID, nil); err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			// Пользователя уже нет - выходить не из чего
			return nil
		}
		return appErrors.InternalError(err)
	}
	return nil
}

// RequestEmailVerification - выдача одноразового токена подтверждения.
// Для пользователя существует не более одной ожидающей записи: старые
// удаляются перед созданием новой.
func (s *authService) RequestEmailVerification(db *gorm.DB, user *models.User, targetEmail string) error {
	token, err := auth.NewVerificationToken()
	if err != nil {
		return appErrors.InternalError(err)
	}

	tokenHash, err := auth.HashSecret(token)
	if err != nil {
		return appErrors.InternalError(err)
	}

	verification := &models.EmailVerification{
		UserID:    user.ID,
		Email:     targetEmail,
		TokenHash: tokenHash,
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := s.verificationRepo.DeleteByUserID(tx, user.ID); err != nil {
			return err
		}
		return s.verificationRepo.Create(tx, verification)
	}); err != nil {
		return appErrors.InternalError(err)
	}

	// Отправка вне транзакции; сырой токен существует только в письме
	if err := s.emailProvider.SendVerification(targetEmail, verification.ID, token); err != nil {
		return appErrors.ErrMailDispatchFailed.WithError(err)
	}
	return nil
}

// ConfirmUserEmail - атомарное потребление записи подтверждения.
// Применение email к пользователю и удаление записи происходят в одной
// транзакции: из двух конкурентных подтверждений одного id второе
// увидит "не найдено".
func (s *authService) ConfirmUserEmail(db *gorm.DB, verificationID, token string) (string, error) {
	var confirmedEmail string

	err := db.Transaction(func(tx *gorm.DB) error {
		verification, err := s.verificationRepo.FindByID(tx, verificationID)
		if err != nil {
			if appErrors.Is(err, repositories.ErrEmailVerificationNotFound) {
				return appErrors.ErrVerificationNotFound
			}
			return appErrors.InternalError(err)
		}

		if !auth.CheckSecret(verification.TokenHash, token) {
			return appErrors.ErrUnauthorized
		}

		if err := s.userRepo.UpdateEmailVerified(tx, verification.UserID, verification.Email, time.Now()); err != nil {
			if appErrors.Is(err, repositories.ErrUserAlreadyExists) {
				return appErrors.ErrEmailAlreadyExists
			}
			return appErrors.InternalError(err)
		}

		if err := s.verificationRepo.DeleteByID(tx, verification.ID); err != nil {
			if appErrors.Is(err, repositories.ErrEmailVerificationNotFound) {
				// Конкурентное подтверждение успело первым
				return appErrors.ErrVerificationNotFound
			}
			return appErrors.InternalError(err)
		}

		confirmedEmail = verification.Email
		return nil
	})
	if err != nil {
		return "", err
	}

	return confirmedEmail, nil
}

// IssuePasswordResetToken - выдача токена сброса пароля.
// Старые неистекшие записи не удаляются: они будут вытеснены при
// успешном сбросе или удалены поштучно при обнаружении истечения.
func (s *authService) IssuePasswordResetToken(db *gorm.DB, emailAddr string) error {
	if _, err := s.userRepo.FindByEmail(db, emailAddr); err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return appErrors.InternalError(err)
	}

	token, err := auth.NewResetToken()
	if err != nil {
		return appErrors.InternalError(err)
	}

	tokenHash, err := auth.HashSecret(token)
	if err != nil {
		return appErrors.InternalError(err)
	}

	reset := &models.PasswordReset{
		Email:     emailAddr,
		TokenHash: tokenHash,
	}
	if err := s.resetRepo.Create(db, reset); err != nil {
		return appErrors.InternalError(err)
	}

	// Запись уже создана; провал отправки наружу, но без отката
	if err := s.emailProvider.SendPasswordReset(emailAddr, token); err != nil {
		return appErrors.ErrMailDispatchFailed.WithError(err)
	}
	return nil
}

// ResetUserPassword - применение сброса пароля.
// Учитывается только самая свежая запись для email. Истекшая запись
// удаляется в момент обнаружения - повторная попытка тем же токеном
// невозможна. Успешный сброс удаляет все записи для email.
func (s *authService) ResetUserPassword(db *gorm.DB, req *dto.ResetPasswordRequest) error {
	reset, err := s.resetRepo.FindLatestByEmail(db, req.Email)
	if err != nil {
		if appErrors.Is(err, repositories.ErrPasswordResetNotFound) {
			return appErrors.ErrResetTokenNotFound
		}
		return appErrors.InternalError(err)
	}

	if !auth.CheckSecret(reset.TokenHash, req.Token) {
		return appErrors.ErrUnauthorized
	}

	if reset.Expired(time.Now()) {
		// Деструктивное чтение: запись удаляется вне транзакции сброса,
		// удаление атомарно само по себе
		if err := s.resetRepo.DeleteByID(db, reset.ID); err != nil {
			return appErrors.InternalError(err)
		}
		return appErrors.ErrUnauthorized
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return appErrors.ErrWeakPassword
	}

	passwordHash, err := auth.HashSecret(req.Password)
	if err != nil {
		return appErrors.InternalError(err)
	}

	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return appErrors.InternalError(err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.UpdatePasswordHash(tx, user.ID, passwordHash); err != nil {
			return err
		}
		// Отзываем действующий refresh-токен: старые сессии после смены
		// пароля жить не должны
		if err := s.userRepo.UpdateRefreshTokenHash(tx, user.ID, nil); err != nil {
			return err
		}
		// Все записи сброса для email, не только потребленная: ни одна
		// ранее выданная ссылка не должна остаться рабочей
		return s.resetRepo.DeleteByEmail(tx, req.Email)
	}); err != nil {
		return appErrors.InternalError(err)
	}

	return nil
}

// DeleteAccount - удаление учетной записи
func (s *authService) DeleteAccount(db *gorm.DB, userID string) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return appErrors.InternalError(err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := s.verificationRepo.DeleteByUserID(tx, user.ID); err != nil {
			return err
		}
		if err := s.resetRepo.DeleteByEmail(tx, user.Email); err != nil {
			return err
		}
		return s.userRepo.Delete(tx, user.ID)
	}); err != nil {
		return appErrors.InternalError(err)
	}

	return nil
}

// issueTokenPair - выдача access и refresh токенов.
// Выдача refresh - точка ротации: новый секрет генерируется, хешируется
// и перезаписывает предыдущий хеш одним UPDATE, после чего сырое
// значение вшивается в подписанный токен.
func (s *authService) issueTokenPair(db *gorm.DB, user *models.User) (*dto.TokenPair, error) {
	accessToken, err := auth.GenerateAccessToken(user.ID, user.Email, s.accessSecret, auth.AccessTokenTTL)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	refreshToken, err := s.issueRefreshToken(db, user)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) issueRefreshToken(db *gorm.DB, user *models.User) (string, error) {
	secret, err := auth.NewRefreshSecret()
	if err != nil {
		return "", appErrors.InternalError(err)
	}

	secretHash, err := auth.HashSecret(secret)
	if err != nil {
		return "", appErrors.InternalError(err)
	}

	if err := s.userRepo.UpdateRefreshTokenHash(db, user.ID, &secretHash); err != nil {
		return "", appErrors.InternalError(err)
	}

	refreshToken, err := auth.GenerateRefreshToken(user.ID, secret, s.refreshSecret, auth.RefreshTokenTTL)
	if err != nil {
		return "", appErrors.InternalError(err)
	}
	return refreshToken, nil
}
