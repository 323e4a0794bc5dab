package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"socialhub/internal/apperr"
	"socialhub/internal/constants"
	"socialhub/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims 令牌中携带的身份信息
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenIssuer 负责签发和校验访问令牌
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// GenerateToken 生成 JWT token
func (i *TokenIssuer) GenerateToken(userID uint) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ValidateToken 验证JWT token，返回用户ID
func (i *TokenIssuer) ValidateToken(tokenString string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("意外的签名方法: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, errors.New("无效的token")
	}
	if claims.UserID == 0 {
		return 0, errors.New("无效的用户ID")
	}
	return claims.UserID, nil
}

// JWT 中间件验证 Bearer token，并把用户ID写入上下文
func JWT(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Error(c, apperr.Unauthenticated(constants.ErrUnauthorized))
			c.Abort()
			return
		}

		userID, err := issuer.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, apperr.Wrap(err, apperr.KindUnauthenticated, constants.ErrUnauthorized))
			c.Abort()
			return
		}

		c.Set(constants.ContextUserID, userID)
		c.Next()
	}
}

// CurrentUserID 读取 JWT 中间件写入的用户ID
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(constants.ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
