package workers

import (
	"time"

	"roomly_backend/internal/logger"
	"roomly_backend/internal/models"
	"roomly_backend/internal/repositories"

	"gorm.io/gorm"
)

// cleanupInterval - период между проходами чистки.
// Истечение проверяется и в момент использования токена, воркер лишь
// убирает мусор за теми, кто так и не перешел по ссылке.
const cleanupInterval = 10 * time.Minute

// ResetCleanupWorker периодически удаляет истекшие записи сброса пароля.
type ResetCleanupWorker struct {
	db        *gorm.DB
	resetRepo repositories.PasswordResetRepository
	stop      chan struct{}
}

func NewResetCleanupWorker(db *gorm.DB, resetRepo repositories.PasswordResetRepository) *ResetCleanupWorker {
	return &ResetCleanupWorker{
		db:        db,
		resetRepo: resetRepo,
		stop:      make(chan struct{}),
	}
}

// Run блокируется до вызова Stop; запускать в отдельной горутине
func (w *ResetCleanupWorker) Run() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stop:
			return
		}
	}
}

func (w *ResetCleanupWorker) Stop() {
	close(w.stop)
}

func (w *ResetCleanupWorker) sweep() {
	olderThan := time.Now().Add(-models.PasswordResetTTL)
	deleted, err := w.resetRepo.DeleteExpired(w.db, olderThan)
	if err != nil {
		logger.Error("Password reset cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		logger.Info("Expired password reset records removed", "count", deleted)
	}
}
