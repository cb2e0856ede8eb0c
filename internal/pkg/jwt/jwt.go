package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dbfleet/internal/pkg/config"
	"dbfleet/pkg/constants"
	"dbfleet/pkg/responses"
)

// UserClaims 用户Claims
type UserClaims struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AuthType    string `json:"auth_type"` // ldap or local
	Type        string `json:"type"`      // access or refresh
	jwt.RegisteredClaims
}

// GenerateAccessToken 生成访问Token
func GenerateAccessToken(username, email, displayName, authType string) (string, error) {
	return generateToken(username, email, displayName, authType,
		constants.JWTTypeAccess, config.GlobalConfig.Auth.JWT.AccessTokenExpire)
}

// GenerateRefreshToken 生成刷新Token
func GenerateRefreshToken(username, email, displayName, authType string) (string, error) {
	return generateToken(username, email, displayName, authType,
		constants.JWTTypeRefresh, config.GlobalConfig.Auth.JWT.RefreshTokenExpire)
}

func generateToken(username, email, displayName, authType, tokenType string, expireSeconds int) (string, error) {
	cfg := config.GlobalConfig.Auth.JWT

	claims := UserClaims{
		Username:    username,
		Email:       email,
		DisplayName: displayName,
		AuthType:    authType,
		Type:        tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireSeconds) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ValidateToken 验证并解析Token
func ValidateToken(tokenString string) (*UserClaims, error) {
	cfg := config.GlobalConfig.Auth.JWT

	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	})

	if err != nil {
		return nil, responses.Wrap(responses.CodeUnauthorized, "解析Token失败", err)
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, responses.ErrInvalidToken
	}

	return claims, nil
}
