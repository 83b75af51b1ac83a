package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"jobhelper/internal/api/middleware"
	"jobhelper/internal/service"
	"jobhelper/internal/tasks"
)

// UserHandler 负责处理账号相关的 API 请求。
type UserHandler struct {
	users       *service.UserService
	asynqClient *asynq.Client
}

// NewUserHandler 构造 UserHandler。
func NewUserHandler(users *service.UserService, asynqClient *asynq.Client) *UserHandler {
	return &UserHandler{users: users, asynqClient: asynqClient}
}

type createUserRequest struct {
	Email string `json:"email"`
}

// CreateUser 按邮箱创建账号。邮箱为空返回 400，已存在返回 409。
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Email)
	switch {
	case errors.Is(err, service.ErrEmailRequired):
		BadRequest(c, "email is required")
		return
	case errors.Is(err, service.ErrEmailTaken):
		Conflict(c, "user already exists")
		return
	case err != nil:
		Internal(c, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, UserToAPI(*user))
}

// GetUser 返回账号及其全部简历与测验。
func (h *UserHandler) GetUser(c *gin.Context) {
	sessionUserID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	userID, ok := uuidParam(c, "userId")
	if !ok {
		BadRequest(c, "invalid user id")
		return
	}
	if userID != sessionUserID {
		NotFound(c, "user not found")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		NotFound(c, "user not found")
		return
	case err != nil:
		Internal(c, "failed to query user")
		return
	}

	c.JSON(http.StatusOK, UserToAPI(*user))
}

// DeleteUser 删除账号并级联删除其简历与测验，随后异步清理 CV 附件。
func (h *UserHandler) DeleteUser(c *gin.Context) {
	sessionUserID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	userID, ok := uuidParam(c, "userId")
	if !ok {
		BadRequest(c, "invalid user id")
		return
	}
	if userID != sessionUserID {
		NotFound(c, "user not found")
		return
	}

	found, err := h.users.Delete(c.Request.Context(), userID)
	if err != nil {
		Internal(c, "failed to delete user")
		return
	}
	if !found {
		NotFound(c, "user not found")
		return
	}

	if h.asynqClient != nil {
		log := middleware.LoggerFromContext(c)
		task, err := tasks.NewCVPurgeTask(userID, middleware.GetCorrelationID(c))
		if err != nil {
			log.Error("create cv purge task failed", slog.Any("error", err))
		} else if _, err := h.asynqClient.Enqueue(task, asynq.MaxRetry(5)); err != nil {
			log.Error("enqueue cv purge task failed", slog.Any("error", err))
		}
	}

	c.Status(http.StatusNoContent)
}
