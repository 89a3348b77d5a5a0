package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taivex/taivex/internal/container"
	handlers "github.com/taivex/taivex/internal/interface/http"
	"github.com/taivex/taivex/internal/interface/middleware"
)

// AuthModule wires the account lifecycle routes.
// Public: register, login, verify-otp, resend-otp, forgot/reset password,
// refresh. Protected: logout, profile.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(_, api *gin.RouterGroup) {
	rdb := container.GetRedis()
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	otpLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)

	api.POST("/register", registerLimiter, m.Handler.Register)
	api.POST("/login", loginLimiter, m.Handler.Login)
	api.POST("/verify-otp", otpLimiter, m.Handler.VerifyOTP)
	api.GET("/verify-otp", otpLimiter, m.Handler.ChallengeState)
	api.POST("/resend-otp", otpLimiter, m.Handler.ResendOTP)
	api.POST("/forgot-password", resetLimiter, m.Handler.ForgotPassword)
	api.POST("/reset-password", resetLimiter, m.Handler.ResetPassword)
	api.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := protect(api)
	auth.POST("/logout", m.Handler.Logout)
	auth.GET("/profile", m.Handler.Profile)
}
