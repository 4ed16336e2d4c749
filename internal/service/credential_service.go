package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/idea-observation-api/internal/models"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
)

const defaultBcryptCost = 12

// CredentialConfig holds the single password and token policy applied to every auth flow.
type CredentialConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
	BcryptCost int
}

// CredentialService hashes passwords and issues and verifies bearer tokens.
type CredentialService struct {
	config CredentialConfig
	now    func() time.Time
}

// NewCredentialService constructs a CredentialService with sane fallbacks.
func NewCredentialService(config CredentialConfig) *CredentialService {
	if config.Expiration <= 0 {
		config.Expiration = 7 * 24 * time.Hour
	}
	if config.BcryptCost < bcrypt.MinCost || config.BcryptCost > bcrypt.MaxCost {
		config.BcryptCost = defaultBcryptCost
	}
	return &CredentialService{config: config, now: time.Now}
}

// Expiration returns the configured token lifetime.
func (s *CredentialService) Expiration() time.Duration {
	return s.config.Expiration
}

// Hash derives a bcrypt hash for password.
func (s *CredentialService) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", appErrors.Validation(err, "password must be at most 72 bytes")
		}
		return "", appErrors.Internal(err, "failed to hash password")
	}
	return string(hashed), nil
}

// Verify reports whether password matches hash. Malformed hashes never match.
func (s *CredentialService) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs an HS256 token carrying the observer identity.
func (s *CredentialService) IssueToken(user *models.User) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiration)
	claims := models.JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		District:  user.District,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.config.Issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	if user.Title != nil {
		claims.Title = *user.Title
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a token. Every failure maps to Unauthorized.
func (s *CredentialService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "token expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return claims, nil
}
