package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jobhelper/internal/config"
)

// Client 调用外部 AI 服务（模拟面试聊天、测验生成、CV 字段增强与解析）。
// 该服务是黑盒，这里只做受控转发：固定超时，不重试，错误原样上抛。
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 构造 AI 服务客户端。
func NewClient(cfg config.AIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ChatRequest 是一轮面试聊天的入参；ChatID 为空表示开启新会话。
type ChatRequest struct {
	ChatID  *string `json:"chat_id"`
	Message string  `json:"message"`
}

// ChatResponse 是 AI 服务的聊天回复。
type ChatResponse struct {
	ChatID   string `json:"chat_id"`
	Response string `json:"response"`
	Finished bool   `json:"finished"`
	Error    string `json:"error,omitempty"`
}

// Chat 转发一轮模拟面试消息。
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.postJSON(ctx, "/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QuizResponse 携带生成的测验内容（JSON 文本）及其会话标识。
type QuizResponse struct {
	QuizID   string `json:"quiz_id"`
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// GenerateQuiz 按主题生成一份测验。
func (c *Client) GenerateQuiz(ctx context.Context, theme string) (*QuizResponse, error) {
	req := struct {
		QuizID  *string `json:"quiz_id"`
		Message string  `json:"message"`
	}{Message: theme}

	var resp QuizResponse
	if err := c.postJSON(ctx, "/quiz", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Enhance 请求 AI 润色简历的单个字段。
func (c *Client) Enhance(ctx context.Context, field, content string) (string, error) {
	req := struct {
		Field        string `json:"field"`
		FieldContent string `json:"field_content"`
	}{Field: field, FieldContent: content}

	var resp struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/enhance", req, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// ParseCV 将纯文本 CV 交给 AI 抽取结构化字段，返回原始 JSON。
func (c *Client) ParseCV(ctx context.Context, text string) (json.RawMessage, error) {
	req := struct {
		Text string `json:"text"`
	}{Text: text}

	var resp json.RawMessage
	if err := c.postJSON(ctx, "/parse-cv", req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call ai service %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ai service %s: %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode ai response: %w", err)
	}
	return nil
}
