package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// TemplateManager рендерит html-шаблоны писем
type TemplateManager struct {
	templates map[string]*template.Template
}

// Встроенные шаблоны по умолчанию
var defaultTemplates = map[string]string{
	"verification": `
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Подтверждение Email</h2>
	<p>Здравствуйте{{if .UserName}}, {{.UserName}}{{end}}!</p>
	<p>Чтобы подтвердить адрес электронной почты, перейдите по ссылке:</p>
	<p><a href="{{.ActionURL}}" style="background: #2d6cdf; color: #fff; padding: 10px 20px; text-decoration: none; border-radius: 4px;">{{.ActionText}}</a></p>
	<p>Если вы не регистрировались, просто проигнорируйте это письмо.</p>
	<p>— {{.FromName}}</p>
</body>
</html>`,

	"password_reset": `
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Сброс пароля</h2>
	<p>Мы получили запрос на сброс пароля для вашего аккаунта.</p>
	<p>{{.Message}}</p>
	<p><a href="{{.ActionURL}}" style="background: #2d6cdf; color: #fff; padding: 10px 20px; text-decoration: none; border-radius: 4px;">{{.ActionText}}</a></p>
	<p>Ссылка действует 15 минут. Если вы не запрашивали сброс, проигнорируйте это письмо.</p>
	<p>— {{.FromName}}</p>
</body>
</html>`,
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{templates: make(map[string]*template.Template)}
	for name, text := range defaultTemplates {
		tmpl, err := template.New(name).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %q: %w", name, err)
		}
		tm.templates[name] = tmpl
	}
	return tm, nil
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(name string, data TemplateData) (string, error) {
	tmpl, ok := tm.templates[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", name, err)
	}
	return buf.String(), nil
}
