package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/idea-observation-api/internal/models"
	"github.com/noah-isme/idea-observation-api/pkg/database"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type credentialManager interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	IssueToken(user *models.User) (string, time.Time, error)
}

// AuthService provides observer registration and login.
type AuthService struct {
	repo        authUserRepository
	credentials credentialManager
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, credentials credentialManager, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, credentials: credentials, validator: validate, logger: logger}
}

// Register creates an observer account and signs it in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.District = strings.TrimSpace(req.District)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid registration payload")
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "an account with this email already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to check existing account")
	}

	hash, err := s.credentials.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:         req.Email,
		PasswordHash:  hash,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Title:         trimmedOrNil(req.Title),
		District:      req.District,
		LicenseNumber: trimmedOrNil(req.LicenseNumber),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an account with this email already exists")
		}
		return nil, appErrors.Internal(err, "failed to create account")
	}

	s.logger.Info("observer registered", zap.String("user_id", user.ID))
	return s.issue(user)
}

// Login authenticates an observer. Unknown emails and wrong passwords are reported distinctly.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid login payload")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrAccountNotFound, "")
		}
		return nil, appErrors.Internal(err, "failed to fetch account")
	}

	if !s.credentials.Verify(req.Password, user.PasswordHash) {
		s.logger.Info("login rejected", zap.String("user_id", user.ID))
		return nil, appErrors.Clone(appErrors.ErrInvalidPassword, "")
	}

	return s.issue(user)
}

// Me returns the stored profile of the authenticated observer.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.UserInfo, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists")
		}
		return nil, appErrors.Internal(err, "failed to load account")
	}
	info := models.NewUserInfo(user)
	return &info, nil
}

func (s *AuthService) issue(user *models.User) (*models.AuthResponse, error) {
	token, expiresAt, err := s.credentials.IssueToken(user)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}
	return &models.AuthResponse{
		Token:     token,
		ExpiresIn: int64(time.Until(expiresAt).Seconds()),
		User:      models.NewUserInfo(user),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
