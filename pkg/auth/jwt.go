package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors for token validation failures
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// JWTConfig holds the JWT validation configuration
type JWTConfig struct {
	SecretKey string
	Issuer    string
	Audience  string
}

// JWTVerifier validates HS256 bearer tokens issued by the identity provider.
type JWTVerifier struct {
	config JWTConfig
}

// idTokenClaims mirrors the identity provider's token payload. Cognito-issued
// tokens carry the username under "cognito:username"; other providers use
// plain "username".
type idTokenClaims struct {
	jwt.RegisteredClaims
	Username        string `json:"username,omitempty"`
	CognitoUsername string `json:"cognito:username,omitempty"`
}

// NewJWTVerifier creates a JWT verifier from configuration
func NewJWTVerifier(config JWTConfig) (*JWTVerifier, error) {
	if config.SecretKey == "" {
		return nil, fmt.Errorf("jwt secret key is required")
	}
	return &JWTVerifier{config: config}, nil
}

// Verify implements the Verifier interface.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
	}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}
	if v.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.config.Audience))
	}

	parsed := &idTokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, parsed, func(token *jwt.Token) (interface{}, error) {
		return []byte(v.config.SecretKey), nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	if parsed.Subject == "" {
		return nil, ErrInvalidToken
	}

	username := parsed.CognitoUsername
	if username == "" {
		username = parsed.Username
	}

	return &Claims{
		Subject:  parsed.Subject,
		Username: username,
	}, nil
}
