package handlers

import (
	"net/http"

	"roomly_backend/internal/auth"
	"roomly_backend/internal/config"
	"roomly_backend/internal/logger"
	"roomly_backend/internal/middleware"
	"roomly_backend/internal/services"
	"roomly_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// refreshCookieName - httpOnly cookie, в которой живет refresh-токен.
// В тело ответа refresh-токен не попадает никогда.
const refreshCookieName = "refresh_token"

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes регистрирует все маршруты для аутентификации
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/signup", h.SignUp)
		authGroup.POST("/signin", h.SignIn)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.GET("/confirm-email", h.ConfirmEmail)
		authGroup.GET("/reset-password/send-token", h.SendResetToken)
		authGroup.POST("/reset-password", h.ResetPassword)

		protected := authGroup.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/logout", h.Logout)
		}
	}
}

// SignUp - регистрация. Токены не выдаются: аккаунт активируется только
// через подтверждение email.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	user, err := h.authService.SignUp(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful. Please check your email to verify your account.",
		"user":    dto.NewUserResponse(user),
	})
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	tokens, err := h.authService.SignIn(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	setRefreshCookie(c, tokens.RefreshToken)
	c.JSON(http.StatusOK, tokens)
}

// Refresh - обмен refresh-токена из cookie на новую пару.
// Старый токен после ответа мертв независимо от срока действия.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		logger.CtxWarn(c.Request.Context(), "Refresh attempt without cookie", "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token missing"})
		return
	}

	db := h.GetDB(c)

	user, err := h.authService.VerifyRefreshToken(db, refreshToken)
	if err != nil {
		clearRefreshCookie(c)
		h.HandleServiceError(c, err)
		return
	}

	tokens, err := h.authService.RefreshTokens(db, user)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	setRefreshCookie(c, tokens.RefreshToken)
	c.JSON(http.StatusOK, tokens)
}

// Logout - отзыв refresh-токена; требует действующего access-токена
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	if err := h.authService.Logout(db, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

// ConfirmEmail - потребление токена подтверждения из ссылки в письме
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	var req dto.ConfirmEmailRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	db := h.GetDB(c)

	email, err := h.authService.ConfirmUserEmail(db, req.EmailVerificationID, req.Token)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": email})
}

// SendResetToken - запрос письма со ссылкой на сброс пароля
func (h *AuthHandler) SendResetToken(c *gin.Context) {
	var req dto.SendResetTokenRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	db := h.GetDB(c)

	if err := h.authService.IssuePasswordResetToken(db, req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "A password reset link has been sent",
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	if err := h.authService.ResetUserPassword(db, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password has been reset",
	})
}

func setRefreshCookie(c *gin.Context, token string) {
	secure := !config.GetConfig().IsDevelopment()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, token, int(auth.RefreshTokenTTL.Seconds()), "/", "", secure, true)
}

func clearRefreshCookie(c *gin.Context) {
	secure := !config.GetConfig().IsDevelopment()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, "", -1, "/", "", secure, true)
}
