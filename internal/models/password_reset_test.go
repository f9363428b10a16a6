package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPasswordReset_Expired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	reset := PasswordReset{
		BaseModel: BaseModel{CreatedAt: now.Add(-PasswordResetTTL)},
	}

	// Граница включительная: ровно 15 минут - еще не истек
	assert.False(t, reset.Expired(now))
	assert.True(t, reset.Expired(now.Add(time.Nanosecond)))

	fresh := PasswordReset{BaseModel: BaseModel{CreatedAt: now}}
	assert.False(t, fresh.Expired(now))

	stale := PasswordReset{BaseModel: BaseModel{CreatedAt: now.Add(-time.Hour)}}
	assert.True(t, stale.Expired(now))
}
