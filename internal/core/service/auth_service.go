package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

const (
	verificationTokenTTL  = 24 * time.Hour
	passwordResetTokenTTL = time.Hour
	minPasswordLength     = 8
)

// AuthService implements registration, login, and account maintenance.
type AuthService struct {
	repo      ports.AuthRepository
	tokens    ports.TokenRepository
	notifier  ports.Notifier
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, tokens ports.TokenRepository, notifier ports.Notifier, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		tokens:    tokens,
		notifier:  notifier,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Register creates an unverified account and enqueues a verification email.
// Admin accounts are provisioned out of band, never self-registered.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" {
		return nil, domain.ErrValidation
	}
	if len(input.Password) < minPasswordLength {
		return nil, domain.ErrValidation
	}
	if input.Role != domain.RoleBuyer && input.Role != domain.RoleDeveloper {
		return nil, domain.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	token := &domain.AccountToken{
		UserID:    created.ID,
		Token:     uuid.NewString(),
		Kind:      domain.TokenKindEmailVerification,
		CreatedAt: now,
		ExpiresAt: now.Add(verificationTokenTTL),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		// The account exists; verification can be re-requested later.
		s.log.Error().Err(err).Str("user_id", created.ID).Msg("failed to store verification token")
	} else {
		s.notifier.Notify(ports.Notification{
			To:       created.Email,
			Name:     created.Name,
			Template: ports.TemplateVerifyEmail,
			Data:     map[string]string{"token": token.Token},
		})
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created, nil
}

// Login verifies credentials and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("login")
	return token, user, nil
}

// VerifyEmail consumes a verification token. Verifying an already verified
// account is a no-op rather than an error.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	rec, err := s.tokens.FindUnused(ctx, token, domain.TokenKindEmailVerification)
	if err != nil {
		return err
	}
	if rec.Expired(time.Now().UTC()) {
		return domain.ErrTokenExpired
	}

	if err := s.repo.SetVerified(ctx, rec.UserID); err != nil {
		return err
	}
	if err := s.tokens.MarkUsed(ctx, rec.ID); err != nil {
		return err
	}

	s.log.Info().Str("user_id", rec.UserID).Msg("email verified")
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// ChangePassword replaces the credential after re-verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len(next) < minPasswordLength {
		return domain.ErrValidation
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.SetPasswordHash(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// RequestPasswordReset issues a reset token when the email is known. It never
// reveals whether an account exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	now := time.Now().UTC()
	token := &domain.AccountToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		Kind:      domain.TokenKindPasswordReset,
		CreatedAt: now,
		ExpiresAt: now.Add(passwordResetTokenTTL),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return err
	}

	s.notifier.Notify(ports.Notification{
		To:       user.Email,
		Name:     user.Name,
		Template: ports.TemplatePasswordReset,
		Data:     map[string]string{"token": token.Token},
	})
	return nil
}

// ResetPassword consumes a reset token and replaces the credential.
func (s *AuthService) ResetPassword(ctx context.Context, token, next string) error {
	if len(next) < minPasswordLength {
		return domain.ErrValidation
	}

	rec, err := s.tokens.FindUnused(ctx, token, domain.TokenKindPasswordReset)
	if err != nil {
		return err
	}
	if rec.Expired(time.Now().UTC()) {
		return domain.ErrTokenExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.SetPasswordHash(ctx, rec.UserID, string(hash)); err != nil {
		return err
	}
	if err := s.tokens.MarkUsed(ctx, rec.ID); err != nil {
		return err
	}

	s.log.Info().Str("user_id", rec.UserID).Msg("password reset")
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"role":  user.Role,
		"email": user.Email,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
