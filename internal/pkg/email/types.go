package email

// Email представляет структуру email сообщения
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData базовая структура для данных шаблонов
type TemplateData struct {
	UserName   string
	Subject    string
	Message    string
	ActionURL  string
	ActionText string
	FromName   string
}

// Config конфигурация email сервиса
type Config struct {
	SMTPHost  string
	SMTPPort  int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	BaseURL   string
}

// Provider определяет интерфейс для отправки email.
// Во время отправки не удерживаются никакие блокировки: вызовы
// выполняются вне транзакций БД.
type Provider interface {
	// Send отправляет простое email сообщение
	Send(email *Email) error

	// SendVerification отправляет письмо подтверждения email со ссылкой,
	// несущей id записи и сырой токен
	SendVerification(to, verificationID, token string) error

	// SendPasswordReset отправляет письмо сброса пароля с сырым токеном
	SendPasswordReset(to, token string) error
}
