package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin = "admin"
	RoleHost  = "host"
)

const audience = "visitor-management"

type Claims struct {
	Sub         int64  `json:"sub"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	CompanyID   int64  `json:"company_id"`
	CompanyName string `json:"company_name"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool { return c.Role == RoleAdmin }

// Identity is the subset of a user that ends up inside a token.
type Identity struct {
	UserID      int64
	Email       string
	Name        string
	Role        string
	CompanyID   int64
	CompanyName string
}

func NewAccessToken(id Identity, secret, issuer string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Sub:         id.UserID,
		Email:       id.Email,
		Name:        id.Name,
		Role:        id.Role,
		CompanyID:   id.CompanyID,
		CompanyName: id.CompanyName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Audience:  []string{audience},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func Parse(tokenString, secret string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
	)
	if err != nil {
		return nil, err
	}
	if claims, ok := tok.Claims.(*Claims); ok && tok.Valid {
		if claims.Sub == 0 || claims.CompanyID == 0 {
			return nil, errors.New("token missing subject or company")
		}
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
