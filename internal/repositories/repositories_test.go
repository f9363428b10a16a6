package repositories

import (
	"testing"
	"time"

	"roomly_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.EmailVerification{},
		&models.PasswordReset{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		FirstName:    "Ann",
		PasswordHash: "$2a$10$fakehashfortests",
		Role:         models.UserRoleTenant,
	}
	require.NoError(t, NewUserRepository().Create(db, user))
	return user
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewUserRepository()
	createUser(t, db, "dup@example.com")

	err := repo.Create(db, &models.User{
		Email:        "dup@example.com",
		FirstName:    "Other",
		PasswordHash: "hash",
		Role:         models.UserRoleLandlord,
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestUserRepository_UpdateRefreshTokenHash(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewUserRepository()
	user := createUser(t, db, "ann@example.com")

	hash := "bcrypt-hash-of-secret"
	require.NoError(t, repo.UpdateRefreshTokenHash(db, user.ID, &hash))

	stored, err := repo.FindByID(db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshTokenHash)
	assert.Equal(t, hash, *stored.RefreshTokenHash)

	// nil сбрасывает хеш
	require.NoError(t, repo.UpdateRefreshTokenHash(db, user.ID, nil))
	stored, err = repo.FindByID(db, user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RefreshTokenHash)

	// Несуществующий пользователь
	err = repo.UpdateRefreshTokenHash(db, "no-such-id", &hash)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_UpdateEmailVerified(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewUserRepository()
	user := createUser(t, db, "old@example.com")

	now := time.Now()
	require.NoError(t, repo.UpdateEmailVerified(db, user.ID, "new@example.com", now))

	stored, err := repo.FindByEmail(db, "new@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.EmailVerifiedAt)

	// Смена на занятый email упирается в констрейнт
	createUser(t, db, "taken@example.com")
	err = repo.UpdateEmailVerified(db, user.ID, "taken@example.com", now)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

// Потребление записи подтверждения держится на том, что удаление уже
// удаленной записи отличимо от успешного
func TestEmailVerificationRepository_DeleteByID_Consumed(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewEmailVerificationRepository()
	user := createUser(t, db, "ann@example.com")

	verification := &models.EmailVerification{
		UserID:    user.ID,
		Email:     "ann@example.com",
		TokenHash: "hash",
	}
	require.NoError(t, repo.Create(db, verification))

	require.NoError(t, repo.DeleteByID(db, verification.ID))
	assert.ErrorIs(t, repo.DeleteByID(db, verification.ID), ErrEmailVerificationNotFound)

	_, err := repo.FindByID(db, verification.ID)
	assert.ErrorIs(t, err, ErrEmailVerificationNotFound)
}

func TestPasswordResetRepository_FindLatestByEmail(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewPasswordResetRepository()

	older := &models.PasswordReset{Email: "ann@example.com", TokenHash: "older"}
	require.NoError(t, repo.Create(db, older))
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(-time.Minute)).Error)

	newer := &models.PasswordReset{Email: "ann@example.com", TokenHash: "newer"}
	require.NoError(t, repo.Create(db, newer))

	latest, err := repo.FindLatestByEmail(db, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "newer", latest.TokenHash)

	_, err = repo.FindLatestByEmail(db, "ghost@example.com")
	assert.ErrorIs(t, err, ErrPasswordResetNotFound)
}

func TestPasswordResetRepository_DeleteExpired(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewPasswordResetRepository()

	stale := &models.PasswordReset{Email: "stale@example.com", TokenHash: "stale"}
	require.NoError(t, repo.Create(db, stale))
	require.NoError(t, db.Model(stale).Update("created_at", time.Now().Add(-time.Hour)).Error)

	fresh := &models.PasswordReset{Email: "fresh@example.com", TokenHash: "fresh"}
	require.NoError(t, repo.Create(db, fresh))

	deleted, err := repo.DeleteExpired(db, time.Now().Add(-models.PasswordResetTTL))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, err = repo.FindLatestByEmail(db, "fresh@example.com")
	assert.NoError(t, err)
	_, err = repo.FindLatestByEmail(db, "stale@example.com")
	assert.ErrorIs(t, err, ErrPasswordResetNotFound)
}
