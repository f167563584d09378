package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"nany-todo/internal/models"
)

const (
	// RoleAnon は読み取り専用のキーです。
	RoleAnon = "anon"
	// RoleService は読み書きできるキーです。
	RoleService = "service_role"

	apiKeyIssuer = "nany-todo"
)

// ErrMissingSecret は署名用シークレットが未設定の場合のエラーです。
var ErrMissingSecret = errors.New("JWT_SECRET is not set")

// apiKeyClaims はAPIキーのJWTクレームです。
type apiKeyClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// APIKeyService は /api/todos 用のAPIキー (HS256 JWT) の発行と検証を扱います。
type APIKeyService struct {
	secret []byte
}

// NewAPIKeyService は新しいAPIKeyServiceを作成します。
func NewAPIKeyService(secret string) (*APIKeyService, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &APIKeyService{secret: []byte(secret)}, nil
}

// GenerateKey は role のキーを発行します。ttl が 0 以下なら無期限です。
func (s *APIKeyService) GenerateKey(role string, ttl time.Duration) (string, error) {
	if role != RoleAnon && role != RoleService {
		return "", fmt.Errorf("unknown role: %q", role)
	}
	now := time.Now()
	claims := &apiKeyClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   apiKeyIssuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign API key: %w", err)
	}
	return tokenString, nil
}

// ValidateKey はAPIキーを検証し、クレームを返します。
func (s *APIKeyService) ValidateKey(tokenString string) (*models.APIKeyClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &apiKeyClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(apiKeyIssuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*apiKeyClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Role != RoleAnon && claims.Role != RoleService {
		return nil, fmt.Errorf("invalid role: %q", claims.Role)
	}
	return &models.APIKeyClaims{Role: claims.Role}, nil
}
