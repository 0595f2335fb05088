package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"workly/backend/config"
)

var (
	ErrTokenExpired = errors.New("token scaduto")
	ErrTokenInvalid = errors.New("token non valido")
)

// Claims are the platform-issued JWT claims this service understands.
// Tokens are minted by the Workly authentication service; the coverage
// engine only validates them and reads the tenant/role context.
type Claims struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"` // "access" | "refresh"
	jwtv5.RegisteredClaims
}

// Manager validates tokens against the shared platform secret.
type Manager struct {
	secret    []byte
	issuer    string
	clockSkew time.Duration
}

// NewManager creates a token validator from the auth configuration.
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:    []byte(cfg.JWTSecret),
		issuer:    cfg.Issuer,
		clockSkew: cfg.ClockSkew,
	}
}

// ParseToken parses and verifies a token string.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{},
		func(t *jwtv5.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
				return nil, ErrTokenInvalid
			}
			return m.secret, nil
		},
		jwtv5.WithIssuer(m.issuer),
		jwtv5.WithLeeway(m.clockSkew),
	)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
