package authtoken

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/tiredaf123/fitflow--G3-sub001/pkg/config"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

// Claims is the authenticated session context carried by a bearer token.
type Claims struct {
	UserID string
	Role   types.Role
}

func Issue(cfg *config.Config, userID string, role types.Role) (string, error) {
	if cfg.JWT.Secret == "" {
		return "", fmt.Errorf("jwt secret not configured")
	}
	ttl := time.Duration(cfg.JWT.TTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(cfg.JWT.Secret))
}

func Parse(cfg *config.Config, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, fmt.Errorf("token missing user identifier")
	}
	role, _ := claims["role"].(string)
	return &Claims{UserID: userID, Role: types.Role(role)}, nil
}
