package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
	ErrForbidden    = errors.New("token lacks admin role")
	ErrMissingKey   = errors.New("jwt secret key not configured")
)

//go:generate mockery --name=Manager --dir=. --output=mocks/ --filename=jwt_manager_mock.go --case=underscore --with-expecter
type (
	Manager interface {
		CreateToken(subject string, role string, ttl time.Duration) (string, error)
		ValidateToken(tokenString string) (*Claims, error)
		ValidateAdmin(tokenString string) (*Claims, error)
	}
	manager struct {
		secret []byte
	}
)

func NewJwtManager(secretKey string) Manager {
	return &manager{secret: []byte(secretKey)}
}

type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// CreateToken signs an HS256 token. A zero ttl produces a token without expiry.
func (m *manager) CreateToken(subject string, role string, ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrMissingKey
	}
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *manager) ValidateToken(tokenString string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, ErrMissingKey
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return m.secret, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *manager) ValidateAdmin(tokenString string) (*Claims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Role != RoleAdmin {
		return nil, ErrForbidden
	}
	return claims, nil
}
