package service

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/guttosm/packing-slip-service/internal/domain/dto"
)

// ErrInvalidToken is returned when a token is malformed, badly signed or expired.
var ErrInvalidToken = errors.New("invalid or expired token")

// tokenClaims is the JWT body issued by the identity provider.
type tokenClaims struct {
	Email string   `json:"email,omitempty"`
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HMAC-signed access tokens. Tokens are issued elsewhere;
// this service never signs them.
type JWTVerifier struct {
	secretKey []byte
	parser    *jwt.Parser
}

// NewJWTVerifier creates a verifier for the given shared secret. When issuer is
// set, tokens from any other issuer are rejected.
func NewJWTVerifier(secretKey, issuer string) *JWTVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &JWTVerifier{
		secretKey: []byte(secretKey),
		parser:    jwt.NewParser(opts...),
	}
}

// ValidateToken parses and verifies tokenString and returns its claims.
func (v *JWTVerifier) ValidateToken(_ context.Context, tokenString string) (*dto.Claims, error) {
	if len(v.secretKey) == 0 {
		return nil, ErrInvalidToken
	}

	claims := &tokenClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secretKey, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &dto.Claims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Roles:   claims.Roles,
	}, nil
}
