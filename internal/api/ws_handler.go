package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"jobhelper/internal/ai"
	"jobhelper/internal/auth"
)

// WsHandler 通过 WebSocket 转发模拟面试对话。
// 会话状态保存在 AI 服务侧，本端只维护 chat_id 透传。
type WsHandler struct {
	aiClient       *ai.Client
	authService    *auth.Service
	logger         *slog.Logger
	upgrader       websocket.Upgrader
	allowedOrigins []string
}

// NewWsHandler 构造 WebSocket 处理器。
func NewWsHandler(aiClient *ai.Client, authService *auth.Service, logger *slog.Logger, allowedOrigins []string) *WsHandler {
	h := &WsHandler{
		aiClient:       aiClient,
		authService:    authService,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if len(h.allowedOrigins) == 0 {
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
	return h
}

type interviewReply struct {
	Response string `json:"response"`
	Finished bool   `json:"finished"`
}

// HandleInterview 升级连接后逐条转发面试消息。
// 鉴权基于会话 Cookie，在升级前完成。
func (h *WsHandler) HandleInterview(c *gin.Context) {
	rawToken, err := c.Cookie(auth.SessionCookieName)
	if err != nil || rawToken == "" {
		AbortUnauthorized(c)
		return
	}
	claims, err := h.authService.ValidateSession(rawToken)
	if err != nil {
		AbortUnauthorized(c)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("upgrade websocket failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	log := h.logger.With(
		slog.String("client_ip", c.ClientIP()),
		slog.String("user_id", claims.UserID.String()),
	)
	log.Info("interview session started")

	ctx := c.Request.Context()
	var chatID *string

	for {
		msgType, message, err := conn.ReadMessage()
		if err != nil {
			log.Info("interview connection closed", slog.Any("error", err))
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		text := strings.TrimSpace(string(message))
		if text == "" {
			continue
		}

		resp, err := h.aiClient.Chat(ctx, ai.ChatRequest{ChatID: chatID, Message: text})
		if err != nil {
			log.Error("ai chat failed", slog.Any("error", err))
			writeClose(conn, websocket.CloseInternalServerErr, "ai service unavailable")
			return
		}
		if resp.ChatID != "" {
			id := resp.ChatID
			chatID = &id
		}

		reply, err := json.Marshal(interviewReply{Response: resp.Response, Finished: resp.Finished})
		if err != nil {
			log.Error("encode reply failed", slog.Any("error", err))
			writeClose(conn, websocket.CloseInternalServerErr, "internal error")
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
			log.Info("interview connection closed", slog.Any("error", fmt.Errorf("write message: %w", err)))
			return
		}

		if resp.Finished {
			log.Info("interview finished")
			writeClose(conn, websocket.CloseNormalClosure, "interview finished")
			return
		}
	}
}

func writeClose(conn *websocket.Conn, code int, text string) {
	deadline := time.Now().Add(5 * time.Second)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
}
