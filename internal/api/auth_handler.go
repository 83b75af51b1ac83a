package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobhelper/internal/api/middleware"
	"jobhelper/internal/auth"
	"jobhelper/internal/service"
)

// AuthHandler 处理 Google OAuth 登录、回调与会话管理。
type AuthHandler struct {
	authService  *auth.Service
	users        *service.UserService
	logger       *slog.Logger
	frontendURL  string
	cookieDomain string
}

// NewAuthHandler 构造认证处理器。
func NewAuthHandler(authService *auth.Service, users *service.UserService, logger *slog.Logger, frontendURL, cookieDomain string) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		users:        users,
		logger:       logger,
		frontendURL:  strings.TrimRight(strings.TrimSpace(frontendURL), "/"),
		cookieDomain: strings.TrimSpace(cookieDomain),
	}
}

// Login 生成带 state 的 Google 授权地址并重定向。
func (h *AuthHandler) Login(c *gin.Context) {
	url, err := h.authService.AuthURL(c.Request.Context())
	if err != nil {
		h.loggerFromContext(c).Error("build auth url failed", slog.Any("error", err))
		Internal(c, "failed to start login")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback 用授权码换取用户信息，按邮箱取回或创建账号，
// 颁发会话 Cookie 后跳回前端。
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	logger := h.loggerFromContext(c)

	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		BadRequest(c, "missing state or code")
		return
	}

	ctx := c.Request.Context()
	googleUser, err := h.authService.Exchange(ctx, state, code)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidState) {
			logger.Info("oauth callback with invalid state")
			BadRequest(c, "invalid oauth state")
			return
		}
		logger.Error("oauth exchange failed", slog.Any("error", err))
		Internal(c, "oauth exchange failed")
		return
	}

	user, err := h.users.GetOrCreate(ctx, googleUser.Email)
	if err != nil {
		if errors.Is(err, service.ErrEmailRequired) {
			BadRequest(c, "google account has no email")
			return
		}
		logger.Error("get or create user failed", slog.Any("error", err))
		Internal(c, "failed to resolve user")
		return
	}

	token, err := h.authService.IssueSession(user.ID, user.Email, googleUser.Name, googleUser.Picture)
	if err != nil {
		logger.Error("issue session failed", slog.Any("error", err))
		Internal(c, "failed to issue session")
		return
	}

	h.setSessionCookie(c, token)
	logger.Info("user logged in", slog.String("user_id", user.ID.String()))

	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/")
}

// Me 返回当前会话对应的用户信息。
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		// 会话有效但账号已被删除。
		Unauthorized(c)
		return
	case err != nil:
		Internal(c, "failed to query user")
		return
	}

	c.JSON(http.StatusOK, UserToAPI(*user))
}

// Logout 清除会话 Cookie。
func (h *AuthHandler) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Secure:   h.isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Domain:   h.cookieDomain,
	})
	c.Status(http.StatusOK)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.authService.SessionTTL().Seconds())
	if maxAge <= 0 {
		maxAge = int(time.Hour.Seconds())
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   h.isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Domain:   h.cookieDomain,
		Expires:  time.Now().Add(h.authService.SessionTTL()),
	})
}

func (h *AuthHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}

func (h *AuthHandler) isHTTPSRequest(c *gin.Context) bool {
	if c.Request == nil {
		return false
	}
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.Request.Header.Get("X-Forwarded-Proto"), "https")
}
