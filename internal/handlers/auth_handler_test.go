package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"roomly_backend/internal/config"
	"roomly_backend/internal/emailcheck"
	"roomly_backend/internal/middleware"
	"roomly_backend/internal/models"
	"roomly_backend/internal/pkg/email"
	"roomly_backend/internal/repositories"
	"roomly_backend/internal/services"
	"roomly_backend/internal/services/dto"
	"roomly_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testAccessSecret  = "access_secret_for_tests_12345"
	testRefreshSecret = "refresh_secret_for_tests_12345"
)

// mailbox перехватывает исходящие письма
type mailbox struct {
	verificationID    string
	verificationToken string
	resetToken        string
}

func (m *mailbox) Send(msg *email.Email) error { return nil }
func (m *mailbox) SendVerification(to, verificationID, token string) error {
	m.verificationID = verificationID
	m.verificationToken = token
	return nil
}
func (m *mailbox) SendPasswordReset(to, token string) error {
	m.resetToken = token
	return nil
}

type testEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	svc     services.AuthService
	mailbox *mailbox
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.JWT.AccessSecret = testAccessSecret
	cfg.JWT.RefreshSecret = testRefreshSecret
	config.AppConfig = cfg

	os.Exit(m.Run())
}

// newTestEnv поднимает полный HTTP-стек на in-memory sqlite
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.EmailVerification{}, &models.PasswordReset{}))

	mb := &mailbox{}
	authService := services.NewAuthService(
		repositories.NewUserRepository(),
		repositories.NewEmailVerificationRepository(),
		repositories.NewPasswordResetRepository(),
		mb,
		emailcheck.AllowAll{},
		testAccessSecret,
		testRefreshSecret,
	)
	userService := services.NewUserService(repositories.NewUserRepository())

	base := NewBaseHandler(validator.New())
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.DBMiddleware(db))

	api := router.Group("/api/v1")
	NewAuthHandler(base, authService).RegisterRoutes(api)
	NewUserHandler(base, userService, authService).RegisterRoutes(api)

	return &testEnv{router: router, db: db, svc: authService, mailbox: mb}
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) signUpAndConfirm(t *testing.T, emailAddr string) {
	t.Helper()

	res := e.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"role":      "tenant",
		"firstName": "Ann",
		"email":     emailAddr,
		"password":  "super_password123",
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	_, err := e.svc.ConfirmUserEmail(e.db, e.mailbox.verificationID, e.mailbox.verificationToken)
	require.NoError(t, err)
}

func (e *testEnv) signIn(t *testing.T, emailAddr, password string) (accessToken string, refreshCookie *http.Cookie) {
	t.Helper()

	res := e.do(t, http.MethodPost, "/api/v1/auth/signin", "", gin.H{
		"email":    emailAddr,
		"password": password,
	})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.NotEmpty(t, body.AccessToken)

	for _, c := range res.Result().Cookies() {
		if c.Name == refreshCookieName {
			refreshCookie = c
		}
	}
	require.NotNil(t, refreshCookie, "refresh cookie not set")
	return body.AccessToken, refreshCookie
}

func TestSignUpEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	res := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"role":      "tenant",
		"firstName": "Ann",
		"email":     "ann@example.com",
		"password":  "super_password123",
	})
	assert.Equal(t, http.StatusCreated, res.Code)
	assert.Contains(t, res.Body.String(), "Registration successful")
	// Токены при регистрации не выдаются
	assert.NotContains(t, res.Body.String(), "access_token")
	assert.Empty(t, res.Result().Cookies())
}

// Роль в теле регистрации необязательна: без нее создается tenant
func TestSignUpEndpoint_RoleOptional(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	res := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"firstName": "Ann",
		"email":     "ann@example.com",
		"password":  "super_password123",
	})
	assert.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	assert.Contains(t, res.Body.String(), `"role":"tenant"`)
}

func TestSignUpEndpoint_InvalidRole(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	res := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"role":      "admin",
		"firstName": "Ann",
		"email":     "ann@example.com",
		"password":  "super_password123",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestSignInEndpoint_SetsRefreshCookie(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.signUpAndConfirm(t, "ann@example.com")

	_, cookie := env.signIn(t, "ann@example.com", "super_password123")

	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.NotEmpty(t, cookie.Value)

	// refresh-токен не должен попадать в тело ответа
	res := env.do(t, http.MethodPost, "/api/v1/auth/signin", "", gin.H{
		"email":    "ann@example.com",
		"password": "super_password123",
	})
	assert.NotContains(t, res.Body.String(), "refresh")
}

func TestSignInEndpoint_Unverified(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	res := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"role":      "tenant",
		"firstName": "Ann",
		"email":     "ann@example.com",
		"password":  "super_password123",
	})
	require.Equal(t, http.StatusCreated, res.Code)

	res = env.do(t, http.MethodPost, "/api/v1/auth/signin", "", gin.H{
		"email":    "ann@example.com",
		"password": "super_password123",
	})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRefreshEndpoint_RotatesCookie(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.signUpAndConfirm(t, "ann@example.com")
	_, oldCookie := env.signIn(t, "ann@example.com", "super_password123")

	res := env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", nil, oldCookie)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.Contains(t, res.Body.String(), "access_token")

	var newCookie *http.Cookie
	for _, c := range res.Result().Cookies() {
		if c.Name == refreshCookieName {
			newCookie = c
		}
	}
	require.NotNil(t, newCookie)
	assert.NotEqual(t, oldCookie.Value, newCookie.Value)

	// Старый cookie ротирован и больше не принимается
	res = env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", nil, oldCookie)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRefreshEndpoint_MissingCookie(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	res := env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLogoutEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.signUpAndConfirm(t, "ann@example.com")
	accessToken, refreshCookie := env.signIn(t, "ann@example.com", "super_password123")

	res := env.do(t, http.MethodPost, "/api/v1/auth/logout", accessToken, nil)
	assert.Equal(t, http.StatusNoContent, res.Code)

	// refresh-токен отозван
	res = env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", nil, refreshCookie)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	// Без access-токена logout недоступен
	res = env.do(t, http.MethodPost, "/api/v1/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestConfirmEmailEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	res := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"role":      "tenant",
		"firstName": "Ann",
		"email":     "ann@example.com",
		"password":  "super_password123",
	})
	require.Equal(t, http.StatusCreated, res.Code)

	url := "/api/v1/auth/confirm-email?emailVerificationId=" + env.mailbox.verificationID + "&token=" + env.mailbox.verificationToken
	res = env.do(t, http.MethodGet, url, "", nil)
	assert.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.Contains(t, res.Body.String(), "ann@example.com")

	// Повторное подтверждение: запись уже потреблена
	res = env.do(t, http.MethodGet, url, "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestPasswordResetEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.signUpAndConfirm(t, "ann@example.com")

	res := env.do(t, http.MethodGet, "/api/v1/auth/reset-password/send-token?email=ann@example.com", "", nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	require.NotEmpty(t, env.mailbox.resetToken)

	res = env.do(t, http.MethodPost, "/api/v1/auth/reset-password", "", gin.H{
		"email":    "ann@example.com",
		"password": "brand_new_password",
		"token":    env.mailbox.resetToken,
	})
	assert.Equal(t, http.StatusOK, res.Code, res.Body.String())

	// Вход по новому паролю
	env.signIn(t, "ann@example.com", "brand_new_password")
}

func TestPasswordResetEndpoint_UnknownEmail(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	res := env.do(t, http.MethodGet, "/api/v1/auth/reset-password/send-token?email=ghost@example.com", "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestUsersMeEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.signUpAndConfirm(t, "ann@example.com")
	accessToken, _ := env.signIn(t, "ann@example.com", "super_password123")

	res := env.do(t, http.MethodGet, "/api/v1/users/me", accessToken, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var me dto.UserResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &me))
	assert.Equal(t, "ann@example.com", me.Email)
	assert.True(t, me.IsVerified)

	// Без токена доступа нет
	res = env.do(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = env.do(t, http.MethodDelete, "/api/v1/users/me", accessToken, nil)
	assert.Equal(t, http.StatusNoContent, res.Code)

	res = env.do(t, http.MethodPost, "/api/v1/auth/signin", "", gin.H{
		"email":    "ann@example.com",
		"password": "super_password123",
	})
	assert.Equal(t, http.StatusNotFound, res.Code)
}
