package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/taivex/taivex/internal/application"
	"github.com/taivex/taivex/internal/interface/middleware"
	"github.com/taivex/taivex/pkg/helpers"
	"github.com/taivex/taivex/pkg/response"
	"github.com/taivex/taivex/pkg/validation"
)

type AuthHandler struct {
	Svc     *app.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc *app.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Username        string `json:"username" form:"username" binding:"required,min=2"`
	Email           string `json:"email" form:"email" binding:"required,email"`
	Password        string `json:"password" form:"password" binding:"required,pwd"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
	Remember bool   `json:"remember" form:"remember"`
}

type verifyOTPRequest struct {
	Code  string `json:"code" form:"code" binding:"required,otp"`
	Token string `json:"token" form:"token"`
}

type resendOTPRequest struct {
	Token string `json:"token" form:"token"`
}

type forgotRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token" form:"token" binding:"required"`
	Password        string `json:"password" form:"password" binding:"required,pwd"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" binding:"required"`
}

// challengeMeta is attached when an OTP step is required next. DevCode is
// only populated when no mail transport is wired.
func challengeMeta(ch *app.ChallengeResult) map[string]any {
	meta := map[string]any{"otp_required": true}
	if ch.DevCode != "" {
		meta["dev_code"] = ch.DevCode
	}
	return meta
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, ch, err := h.Svc.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmailTaken):
			response.Error(c, http.StatusConflict, "email already registered", nil)
		case errors.Is(err, app.ErrPasswordMismatch):
			response.Error(c, http.StatusBadRequest, "passwords do not match", nil)
		default:
			h.Logger.WithError(err).Error("register failed")
			response.Error(c, http.StatusInternalServerError, "registration failed", nil)
		}
		return
	}
	h.Cookies.SetChallenge(c, ch.Token, h.Svc.ChallengeTTL)
	response.Success(c, http.StatusCreated, gin.H{
		"id":    a.ID,
		"email": a.Email,
		"token": ch.Token,
	}, "account created, verify the code sent to your email", challengeMeta(ch))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ch, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		var locked *app.LockedError
		switch {
		case errors.As(err, &locked):
			response.Error(c, http.StatusLocked, "account locked due to repeated failures",
				map[string]any{"locked_until": locked.Until})
		case errors.Is(err, app.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Error(c, http.StatusInternalServerError, "login failed", nil)
		}
		return
	}
	h.Cookies.SetChallenge(c, ch.Token, h.Svc.ChallengeTTL)
	response.Success(c, http.StatusOK, gin.H{"token": ch.Token}, "code sent, verify to continue", challengeMeta(ch))
}

// challengeToken prefers the body token, falling back to the challenge cookie
// set by Login/Register.
func (h *AuthHandler) challengeToken(c *gin.Context, body string) string {
	if body != "" {
		return body
	}
	token, _ := c.Cookie(helpers.CookieChallenge)
	return token
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	token := h.challengeToken(c, req.Token)
	if token == "" {
		response.Error(c, http.StatusBadRequest, "missing challenge token", nil)
		return
	}

	a, result, pair, err := h.Svc.VerifyOTP(c.Request.Context(), token, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrChallengeExpired):
			response.Error(c, http.StatusUnauthorized, "challenge expired, log in again", nil)
		case errors.Is(err, app.ErrOTPInvalid):
			response.Error(c, http.StatusUnauthorized, "invalid or expired code", nil)
		default:
			h.Logger.WithError(err).Error("verify otp failed")
			response.Error(c, http.StatusInternalServerError, "verification failed", nil)
		}
		return
	}

	h.Cookies.ClearChallenge(c)
	if pair != nil {
		h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
		response.Success(c, http.StatusOK, gin.H{
			"id":       a.ID,
			"username": a.Username,
			"email":    a.Email,
		}, "login successful", map[string]any{
			"access_expires_at":  pair.AccessTokenExpiry,
			"refresh_expires_at": pair.RefreshTokenExpiry,
		})
		return
	}
	// reset flow: hand back the verified grant for the final step
	response.Success(c, http.StatusOK, gin.H{"reset_token": result}, "code verified, set a new password", nil)
}

// ChallengeState lets the client check whether its pending challenge is still
// alive before showing the code entry screen.
func (h *AuthHandler) ChallengeState(c *gin.Context) {
	token := h.challengeToken(c, c.Query("token"))
	if token == "" {
		response.Success(c, http.StatusOK, gin.H{"pending": false}, "no challenge in progress", nil)
		return
	}
	purpose, ok, err := h.Svc.ChallengeState(c.Request.Context(), token)
	if err != nil {
		h.Logger.WithError(err).Error("challenge lookup failed")
		response.Error(c, http.StatusInternalServerError, "could not check challenge", nil)
		return
	}
	if !ok {
		response.Success(c, http.StatusOK, gin.H{"pending": false}, "challenge expired", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pending": true, "purpose": purpose}, "challenge pending", nil)
}

func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req resendOTPRequest
	_ = c.ShouldBind(&req)
	token := h.challengeToken(c, req.Token)
	if token == "" {
		response.Error(c, http.StatusBadRequest, "missing challenge token", nil)
		return
	}
	ch, err := h.Svc.ResendOTP(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, app.ErrChallengeExpired) {
			response.Error(c, http.StatusUnauthorized, "challenge expired, log in again", nil)
			return
		}
		h.Logger.WithError(err).Error("resend otp failed")
		response.Error(c, http.StatusInternalServerError, "could not resend code", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": ch.Token}, "a new code has been sent", challengeMeta(ch))
}

// ForgotPassword always answers the same way so the endpoint cannot be used
// to probe which emails are registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ch, err := h.Svc.RequestReset(c.Request.Context(), req.Email)
	if err != nil {
		h.Logger.WithError(err).Error("request reset failed")
		response.Error(c, http.StatusInternalServerError, "could not process request", nil)
		return
	}
	msg := "if the email is registered, a code has been sent"
	if ch == nil {
		response.Success[any](c, http.StatusOK, nil, msg, nil)
		return
	}
	h.Cookies.SetChallenge(c, ch.Token, h.Svc.ChallengeTTL)
	response.Success(c, http.StatusOK, gin.H{"token": ch.Token}, msg, challengeMeta(ch))
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.ResetPassword(c.Request.Context(), req.Token, req.Password, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrPasswordMismatch):
			response.Error(c, http.StatusBadRequest, "passwords do not match", nil)
		case errors.Is(err, app.ErrChallengeExpired):
			response.Error(c, http.StatusUnauthorized, "reset link expired, request a new code", nil)
		default:
			h.Logger.WithError(err).Error("reset password failed")
			response.Error(c, http.StatusInternalServerError, "could not reset password", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password updated, log in with the new password", nil)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.CookieRefresh)
	if err != nil || refresh == "" {
		response.Error(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), middleware.AccountID(c)); err != nil {
		h.Logger.WithError(err).Warn("logout session drop failed")
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	a, err := h.Svc.GetProfile(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		response.Error(c, http.StatusNotFound, "account not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":          a.ID,
		"username":    a.Username,
		"email":       a.Email,
		"is_verified": a.IsVerified,
		"role":        a.Role,
		"created_at":  a.CreatedAt,
	}, "profile", nil)
}
