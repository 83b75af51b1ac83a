package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"jobhelper/internal/config"
)

const (
	// SessionCookieName 是会话 Cookie 的名称。
	SessionCookieName = "jobhelper_session"

	stateKeyPrefix = "auth:state:"
	stateTTL       = 10 * time.Minute

	userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// ErrInvalidState 表示回调携带的 state 不存在或已过期。
var ErrInvalidState = errors.New("invalid oauth state")

// Service 负责 Google OAuth 流程与会话令牌的签发、校验。
// state 随机数存放在 Redis 并带 TTL，防回放；会话是 HMAC 签名的 JWT。
type Service struct {
	oauth      *oauth2.Config
	redis      redis.UniversalClient
	secret     []byte
	sessionTTL time.Duration
}

// GoogleUser 是从 Google userinfo 端点取回的身份信息。
type GoogleUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	GivenName string `json:"given_name"`
	Surname   string `json:"family_name"`
	Picture   string `json:"picture"`
}

// SessionClaims 是会话 JWT 的业务字段。
type SessionClaims struct {
	UserID  uuid.UUID `json:"user_id"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	Picture string    `json:"picture"`
	jwt.RegisteredClaims
}

// NewService 构造认证服务。
func NewService(googleCfg config.GoogleConfig, sessionCfg config.SessionConfig, redisClient redis.UniversalClient) (*Service, error) {
	if sessionCfg.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	if sessionCfg.TTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}

	return &Service{
		oauth: &oauth2.Config{
			ClientID:     googleCfg.ClientID,
			ClientSecret: googleCfg.ClientSecret,
			RedirectURL:  googleCfg.RedirectURL,
			Scopes:       []string{"email", "profile"},
			Endpoint:     google.Endpoint,
		},
		redis:      redisClient,
		secret:     []byte(sessionCfg.Secret),
		sessionTTL: sessionCfg.TTL,
	}, nil
}

// AuthURL 生成带一次性 state 的 Google 授权跳转地址。
func (s *Service) AuthURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.redis.Set(ctx, stateKeyPrefix+state, "1", stateTTL).Err(); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	return s.oauth.AuthCodeURL(state), nil
}

// Exchange 校验 state 并用授权码换取用户信息。state 一次性消费。
func (s *Service) Exchange(ctx context.Context, state, code string) (*GoogleUser, error) {
	if state == "" {
		return nil, ErrInvalidState
	}
	deleted, err := s.redis.Del(ctx, stateKeyPrefix+state).Result()
	if err != nil {
		return nil, fmt.Errorf("consume oauth state: %w", err)
	}
	if deleted == 0 {
		return nil, ErrInvalidState
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	return s.fetchUserInfo(ctx, token)
}

func (s *Service) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*GoogleUser, error) {
	client := s.oauth.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: %s", resp.Status)
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if user.Email == "" {
		return nil, errors.New("userinfo missing email")
	}
	return &user, nil
}

// IssueSession 为用户签发会话 JWT。
func (s *Service) IssueSession(userID uuid.UUID, email, name, picture string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID:  userID,
		Email:   email,
		Name:    name,
		Picture: picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ValidateSession 解析并验证会话 JWT。
func (s *Service) ValidateSession(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// SessionTTL 暴露会话有效期。
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}
