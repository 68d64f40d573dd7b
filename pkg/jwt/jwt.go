package jwt

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// ScopeWrite 允许调用写接口（POST/PUT/DELETE）
const ScopeWrite = "catalog:write"

// Manager JWT管理器
// 设计说明：
// 1. 目录服务只有一种Token：写权限的Access Token，读接口不需要Token
// 2. Token由运维通过cmd/apitoken签发，签名密钥与服务共享同一份配置
// 3. 签名算法固定为HS256，解析时拒绝其他算法
type Manager struct {
	secret []byte
	issuer string
	expire time.Duration
	now    func() time.Time
}

// NewManager 创建JWT管理器
func NewManager(secret, issuer string, expire time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		issuer: issuer,
		expire: expire,
		now:    time.Now,
	}
}

// Claims 自定义JWT Claims
// 嵌入jwt.RegisteredClaims获取标准字段（exp、iat、nbf、iss、sub）
type Claims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// HasScope 是否包含指定权限
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// Token 签发结果
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// GenerateToken 为subject（调用方标识，如服务名）签发Token
func (m *Manager) GenerateToken(subject string, scopes ...string) (*Token, error) {
	if len(scopes) == 0 {
		scopes = []string{ScopeWrite}
	}

	now := m.now()
	expiresAt := now.Add(m.expire)
	claims := Claims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   subject,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, &apperrors.AppError{Code: apperrors.ErrCodeInternal, Message: "生成Token失败", Err: err}
	}

	return &Token{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

// ParseToken 解析并验证Token
// 验证内容：签名、算法、exp、nbf、iss
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, apperrors.ErrInvalidToken
}
