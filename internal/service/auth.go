package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fitbook/internal/auth"
	"fitbook/internal/mail"
	"fitbook/internal/model"
	"fitbook/internal/repository"
	"fitbook/internal/retry"
)

const minPasswordLength = 6

// mailRetryInterval is the first delay between confirmation email attempts.
var mailRetryInterval = 500 * time.Millisecond

// RegisterInput carries the fields shared by client and trainer sign-up.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// RegisterTrainerInput adds the trainer profile to a sign-up.
type RegisterTrainerInput struct {
	RegisterInput
	Phone       string     `json:"phone"`
	Specialties StringList `json:"specialties"`
	Bio         string     `json:"bio"`
	HourlyRate  *float64   `json:"hourly_rate"`
}

// StringList decodes from either a JSON array or a comma separated string.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*l = StringList{joined}
	return nil
}

// SignInResult is returned on successful sign-in.
type SignInResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        *model.User `json:"user"`
	Role        model.Role  `json:"role"`
}

// CurrentUser is the authenticated user with its resolved role.
type CurrentUser struct {
	User      *model.User `json:"user"`
	Role      model.Role  `json:"role"`
	TrainerID string      `json:"trainer_id,omitempty"`
}

// AuthOptions configures AuthService.
type AuthOptions struct {
	ConfirmURL          string
	MailAttempts        int
	RequireConfirmation bool
}

// AuthService covers account registration, confirmation and token lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	// RegisterTrainer creates the user and its trainer profile atomically.
	RegisterTrainer(ctx context.Context, in RegisterTrainerInput) (*model.User, *model.Trainer, error)
	Confirm(ctx context.Context, token string) (*model.User, error)
	// ResendConfirmation never reports whether the account exists.
	ResendConfirmation(ctx context.Context, email string) error
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	SignOut(ctx context.Context, claims *auth.Claims) error
	// Authenticate verifies a bearer token and rejects revoked ones.
	Authenticate(ctx context.Context, rawToken string) (*auth.Claims, error)
	CurrentUser(ctx context.Context, userID string) (*CurrentUser, error)
}

type authService struct {
	users    repository.UserRepository
	trainers repository.TrainerRepository
	tokens   repository.TokenRepository
	tm       *auth.TokenManager
	mailer   mail.Sender
	opts     AuthOptions
	log      *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	trainers repository.TrainerRepository,
	tokens repository.TokenRepository,
	tm *auth.TokenManager,
	mailer mail.Sender,
	opts AuthOptions,
	log *zap.Logger,
) AuthService {
	return &authService{
		users:    users,
		trainers: trainers,
		tokens:   tokens,
		tm:       tm,
		mailer:   mailer,
		opts:     opts,
		log:      log.With(zap.String("component", "auth")),
	}
}

func (in *RegisterInput) normalize() error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	switch {
	case in.Email == "":
		return invalid("email is required")
	case !strings.Contains(in.Email, "@"):
		return invalid("email must contain @")
	case in.Password == "":
		return invalid("password is required")
	case len(in.Password) < minPasswordLength:
		return invalid("password must be at least %d characters", minPasswordLength)
	case in.FullName == "":
		return invalid("full_name is required")
	}
	return nil
}

// SplitSpecialties splits comma separated values, trimming blanks away.
func SplitSpecialties(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (s *authService) newUser(in RegisterInput) (*model.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	token := uuid.NewString()
	return &model.User{
		ID:                uuid.NewString(),
		Email:             in.Email,
		PasswordHash:      hash,
		FullName:          in.FullName,
		ConfirmationToken: &token,
		CreatedAt:         time.Now().UTC(),
	}, nil
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	u, err := s.newUser(in)
	if err != nil {
		return nil, err
	}
	stored, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.sendConfirmation(ctx, stored, *u.ConfirmationToken)
	return stored, nil
}

func (s *authService) RegisterTrainer(ctx context.Context, in RegisterTrainerInput) (*model.User, *model.Trainer, error) {
	if err := in.RegisterInput.normalize(); err != nil {
		return nil, nil, err
	}
	specialties := SplitSpecialties(in.Specialties...)
	if len(specialties) == 0 {
		return nil, nil, invalid("at least one specialty is required")
	}
	if in.HourlyRate == nil {
		return nil, nil, invalid("hourly_rate is required")
	}
	if *in.HourlyRate < 0 {
		return nil, nil, invalid("hourly_rate must not be negative")
	}

	u, err := s.newUser(in.RegisterInput)
	if err != nil {
		return nil, nil, err
	}
	t := &model.Trainer{
		ID:          uuid.NewString(),
		UserID:      u.ID,
		Name:        u.FullName,
		Email:       u.Email,
		Phone:       strings.TrimSpace(in.Phone),
		Specialties: specialties,
		Bio:         strings.TrimSpace(in.Bio),
		HourlyRate:  *in.HourlyRate,
		CreatedAt:   u.CreatedAt,
	}
	storedUser, storedTrainer, err := s.users.CreateWithTrainer(ctx, u, t)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}
	s.sendConfirmation(ctx, storedUser, *u.ConfirmationToken)
	return storedUser, storedTrainer, nil
}

// sendConfirmation retries delivery and logs the final failure; sign-up is not undone.
func (s *authService) sendConfirmation(ctx context.Context, u *model.User, token string) {
	msg, err := mail.ConfirmationMessage(u.Email, u.FullName, s.opts.ConfirmURL, token)
	if err != nil {
		s.log.Error("confirmation_mail_failed", zap.String("user_id", u.ID), zap.Error(err))
		return
	}
	policy := retry.Policy{
		Attempts:        uint(max(s.opts.MailAttempts, 1)),
		InitialInterval: mailRetryInterval,
		OnRetry: func(err error, next time.Duration) {
			s.log.Warn("confirmation_mail_retry",
				zap.String("user_id", u.ID),
				zap.Duration("next_attempt_in", next),
				zap.Error(err),
			)
		},
	}
	if err := retry.Do(ctx, policy, func(ctx context.Context) error {
		return s.mailer.Send(ctx, msg)
	}); err != nil {
		s.log.Error("confirmation_mail_failed", zap.String("user_id", u.ID), zap.Error(err))
	}
}

func (s *authService) Confirm(ctx context.Context, token string) (*model.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, invalid("token is required")
	}
	u, err := s.users.Confirm(ctx, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *authService) ResendConfirmation(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return invalid("email is required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	if u.Confirmed() {
		return nil
	}
	token := uuid.NewString()
	if err := s.users.SetConfirmationToken(ctx, u.ID, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	s.sendConfirmation(ctx, u, token)
	return nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, invalid("email and password are required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := auth.CheckPassword(u.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if s.opts.RequireConfirmation && !u.Confirmed() {
		return nil, ErrEmailNotConfirmed
	}

	role, _, err := resolveRole(ctx, s.trainers, u.ID)
	if err != nil {
		return nil, err
	}
	raw, claims, err := s.tm.Issue(u, role)
	if err != nil {
		return nil, err
	}
	return &SignInResult{
		AccessToken: raw,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        u,
		Role:        role,
	}, nil
}

func (s *authService) SignOut(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrUnauthorized
	}
	expiresAt := time.Now().UTC()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.tokens.Revoke(ctx, claims.ID, expiresAt)
}

func (s *authService) Authenticate(ctx context.Context, rawToken string) (*auth.Claims, error) {
	claims, err := s.tm.Parse(rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthorized)
	}
	return claims, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID string) (*CurrentUser, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	role, t, err := resolveRole(ctx, s.trainers, u.ID)
	if err != nil {
		return nil, err
	}
	cu := &CurrentUser{User: u, Role: role}
	if t != nil {
		cu.TrainerID = t.ID
	}
	return cu, nil
}

// resolveRole reports trainer when a trainer row references the user.
func resolveRole(ctx context.Context, trainers repository.TrainerRepository, userID string) (model.Role, *model.Trainer, error) {
	t, err := trainers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RoleClient, nil, nil
		}
		return "", nil, err
	}
	return model.RoleTrainer, t, nil
}

// trainerFor returns the caller's trainer profile or ErrNotTrainer.
func trainerFor(ctx context.Context, trainers repository.TrainerRepository, userID string) (*model.Trainer, error) {
	_, t, err := resolveRole(ctx, trainers, userID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotTrainer
	}
	return t, nil
}
