package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"jobhelper/internal/ai"
	"jobhelper/internal/api/middleware"
	"jobhelper/internal/config"
)

func newQuizAIServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quiz" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"quiz_id":  "quiz-1",
			"response": `[{"question":"q"}]`,
		})
	}))
}

func TestGenerateQuiz_FailsOpenWhenRedisUnavailable(t *testing.T) {
	aiServer := newQuizAIServer(t)
	defer aiServer.Close()

	aiClient := ai.NewClient(config.AIConfig{BaseURL: aiServer.URL, Timeout: 5 * time.Second})
	// 指向未监听的端口，INCR 必定失败。
	deadRedis := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	defer deadRedis.Close()

	handler := NewAIHandler(aiClient, deadRedis, 5)

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.SlogLoggerMiddleware(logger))
	router.Use(func(c *gin.Context) {
		c.Set("userID", uuid.New())
		c.Next()
	})
	router.POST("/api/ai/quiz", handler.GenerateQuiz)

	body := strings.NewReader(`{"theme":"golang"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/ai/quiz", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 when limiter backend is down, got %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		QuizID   string `json:"quizId"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.QuizID != "quiz-1" {
		t.Fatalf("unexpected quiz id: %q", resp.QuizID)
	}

	if !strings.Contains(logBuf.String(), "quiz rate limit check failed") {
		t.Fatalf("expected limiter failure to be logged, got: %s", logBuf.String())
	}
}
