package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobhelper/internal/service"
)

// QuizHandler 负责处理测验结果的 API 请求。测验只增不改。
type QuizHandler struct {
	quizzes *service.QuizService
}

// NewQuizHandler 构造 QuizHandler。
func NewQuizHandler(quizzes *service.QuizService) *QuizHandler {
	return &QuizHandler{quizzes: quizzes}
}

// ListQuizzes 列出用户全部测验结果。
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
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

	quizzes, err := h.quizzes.ListByUser(c.Request.Context(), userID)
	if err != nil {
		Internal(c, "failed to list quizzes")
		return
	}

	items := make([]APIQuiz, 0, len(quizzes))
	for _, q := range quizzes {
		items = append(items, QuizToAPI(q))
	}

	c.JSON(http.StatusOK, items)
}

// CreateQuiz 记录一次测验结果。
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
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

	var req APIQuiz
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	created, err := h.quizzes.Create(c.Request.Context(), userID, QuizFromAPI(req))
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		BadRequest(c, "user not found")
		return
	case err != nil:
		Internal(c, "failed to create quiz")
		return
	}

	c.JSON(http.StatusCreated, QuizToAPI(*created))
}
