// Package emailcheck проверяет доставляемость email-адреса до создания
// учетной записи: синтаксис и наличие MX-записей у домена.
package emailcheck

import (
	"errors"
	"strings"

	"github.com/badoux/checkmail"
)

var ErrUndeliverable = errors.New("email address is not deliverable")

// Checker проверяет, что на адрес в принципе можно доставить письмо
type Checker interface {
	Validate(email string) error
}

// MXChecker - проверка формата + DNS/MX домена
type MXChecker struct {
	// Домены одноразовой почты, отклоняемые сразу
	disposableDomains map[string]struct{}
}

// Минимальный список известных доменов одноразовой почты
var defaultDisposableDomains = []string{
	"mailinator.com",
	"guerrillamail.com",
	"10minutemail.com",
	"tempmail.com",
	"throwawaymail.com",
	"yopmail.com",
}

// NewMXChecker создает проверку со встроенным списком одноразовых доменов
func NewMXChecker() *MXChecker {
	domains := make(map[string]struct{}, len(defaultDisposableDomains))
	for _, d := range defaultDisposableDomains {
		domains[d] = struct{}{}
	}
	return &MXChecker{disposableDomains: domains}
}

func (c *MXChecker) Validate(email string) error {
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrUndeliverable
	}

	at := strings.LastIndex(email, "@")
	domain := strings.ToLower(email[at+1:])
	if _, ok := c.disposableDomains[domain]; ok {
		return ErrUndeliverable
	}

	// MX-lookup; ходит в DNS, поэтому в тестах используется заглушка
	if err := checkmail.ValidateHost(email); err != nil {
		return ErrUndeliverable
	}
	return nil
}

// AllowAll пропускает любой адрес; используется в dev-окружении и тестах
type AllowAll struct{}

func (AllowAll) Validate(email string) error { return nil }
