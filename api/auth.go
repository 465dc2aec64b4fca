package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const serviceRole = "service_role"

// ServiceJWT is the token schedulers and operators send to trigger
// rebalances. Only HS256 tokens signed with the shared secret are
// accepted.
type ServiceJWT struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

func parseServiceJWT(jwtStr string, decodeToken string) (*ServiceJWT, error) {
	if decodeToken == "" {
		return nil, fmt.Errorf("failed to parse token: no signing secret configured")
	}

	claims := &ServiceJWT{}
	token, err := jwt.ParseWithClaims(jwtStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(decodeToken), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("failed to parse token: invalid")
	}

	return claims, nil
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("authorization header must be a bearer token")
	}
	return strings.TrimSpace(parts[1]), nil
}

func (m ApiHandler) requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := bearerToken(c)
		if err != nil {
			returnErrorJsonCode(err, c, http.StatusUnauthorized)
			return
		}

		claims, err := parseServiceJWT(tokenStr, m.JwtDecodeToken)
		if err != nil {
			returnErrorJsonCode(err, c, http.StatusUnauthorized)
			return
		}
		if claims.Role != role {
			returnErrorJsonCode(fmt.Errorf("role %q is not allowed", claims.Role), c, http.StatusForbidden)
			return
		}

		c.Set("subject", claims.Subject)
		c.Next()
	}
}
