package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"jobhelper/internal/ai"
	"jobhelper/internal/api/middleware"
)

// AIHandler 把请求转发给外部 AI 服务，本身不保存任何会话状态。
type AIHandler struct {
	client          *ai.Client
	redis           redis.UniversalClient
	quizRatePerHour int
}

// NewAIHandler 构造 AIHandler。
func NewAIHandler(client *ai.Client, redisClient redis.UniversalClient, quizRatePerHour int) *AIHandler {
	return &AIHandler{
		client:          client,
		redis:           redisClient,
		quizRatePerHour: quizRatePerHour,
	}
}

type chatRequest struct {
	ChatID  *string `json:"chatId"`
	Message string  `json:"message" binding:"required"`
}

// Chat 代理一轮模拟面试对话，chat_id 原样透传以维持远端会话。
func (h *AIHandler) Chat(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		AbortUnauthorized(c)
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	resp, err := h.client.Chat(c.Request.Context(), ai.ChatRequest{
		ChatID:  req.ChatID,
		Message: req.Message,
	})
	if err != nil {
		middleware.LoggerFromContext(c).Error("ai chat failed", slog.Any("error", err))
		Internal(c, "ai service unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chatId":   resp.ChatID,
		"response": resp.Response,
		"finished": resp.Finished,
	})
}

type quizGenerateRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// GenerateQuiz 请求 AI 生成一套测验题，按用户限流。
func (h *AIHandler) GenerateQuiz(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req quizGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	if h.quizRatePerHour > 0 && h.redis != nil {
		rateKey := "rate:quiz:" + userID.String() + ":" + time.Now().UTC().Format("2006010215")
		count, err := incrWithTTL(ctx, h.redis, rateKey, time.Hour)
		if err != nil {
			// Redis 故障时放行请求，但必须留下痕迹。
			middleware.LoggerFromContext(c).Error("quiz rate limit check failed", slog.Any("error", err))
			count = 0
		}
		if count > int64(h.quizRatePerHour) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
	}

	resp, err := h.client.GenerateQuiz(ctx, req.Theme)
	if err != nil {
		middleware.LoggerFromContext(c).Error("ai quiz generation failed", slog.Any("error", err))
		Internal(c, "ai service unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quizId":   resp.QuizID,
		"response": resp.Response,
	})
}

type enhanceRequest struct {
	Field   string `json:"field" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// Enhance 请求 AI 润色简历的某个字段。
func (h *AIHandler) Enhance(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		AbortUnauthorized(c)
		return
	}

	var req enhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	enhanced, err := h.client.Enhance(c.Request.Context(), req.Field, req.Content)
	if err != nil {
		middleware.LoggerFromContext(c).Error("ai enhance failed", slog.Any("error", err))
		Internal(c, "ai service unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": enhanced})
}

type parseCVRequest struct {
	Text string `json:"text" binding:"required"`
}

// ParseCV 把纯文本简历交给 AI 解析为结构化 JSON，结果原样透传。
func (h *AIHandler) ParseCV(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		AbortUnauthorized(c)
		return
	}

	var req parseCVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	parsed, err := h.client.ParseCV(c.Request.Context(), req.Text)
	if err != nil {
		middleware.LoggerFromContext(c).Error("ai parse cv failed", slog.Any("error", err))
		Internal(c, "ai service unavailable")
		return
	}

	c.Data(http.StatusOK, "application/json", parsed)
}
