package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/cinecraze/internal/apperr"
	"github.com/Clark-Hu/cinecraze/internal/domain"
	"github.com/Clark-Hu/cinecraze/internal/repository"
)

// Users is the account persistence the service needs.
type Users interface {
	Create(ctx context.Context, params repository.UserCreateParams) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by register and login.
type Session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

const msgInvalidCredentials = "Invalid email or password"

// Service handles registration, login and profile lookup.
type Service struct {
	users    Users
	tokens   *TokenManager
	validate *validator.Validate
	cost     int
	logger   *logrus.Logger
}

// NewService constructs a Service. cost is the bcrypt work factor; zero
// selects PasswordCost.
func NewService(users Users, tokens *TokenManager, cost int, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	if cost == 0 {
		cost = PasswordCost
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		cost:     cost,
		logger:   logger,
	}
}

// Register creates an account and returns a session for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return Session{}, registerValidationError(err)
	}

	hash, err := HashPassword(in.Password, s.cost)
	if err != nil {
		return Session{}, apperr.Internal("Server error", fmt.Errorf("hash password: %w", err))
	}

	user, err := s.users.Create(ctx, repository.UserCreateParams{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Session{}, apperr.Conflict("Email already exists", err)
		}
		return Session{}, apperr.Internal("Server error", fmt.Errorf("create user: %w", err))
	}

	s.logger.WithField("user_id", user.ID).Info("user registered")
	return s.session(user)
}

// Login checks credentials and returns a fresh session.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return Session{}, apperr.Auth(msgInvalidCredentials, nil)
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, apperr.Auth(msgInvalidCredentials, nil)
		}
		return Session{}, apperr.Internal("Server error", fmt.Errorf("load user: %w", err))
	}

	ok, err := CheckPassword(user.PasswordHash, in.Password)
	if err != nil {
		return Session{}, apperr.Internal("Server error", fmt.Errorf("check password: %w", err))
	}
	if !ok {
		return Session{}, apperr.Auth(msgInvalidCredentials, nil)
	}
	return s.session(user)
}

// Me returns the profile of the authenticated user.
func (s *Service) Me(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, apperr.NotFound("User not found", err)
		}
		return domain.User{}, apperr.Internal("Failed to fetch user profile", fmt.Errorf("load user: %w", err))
	}
	return user, nil
}

// Authenticate validates a bearer token and returns its user id.
func (s *Service) Authenticate(token string) (string, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return "", apperr.Auth("Token invalid or expired", err)
	}
	return userID, nil
}

func (s *Service) session(user domain.User) (Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, apperr.Internal("Server error", err)
	}
	return Session{Token: token, User: user}, nil
}

func registerValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("", "Please provide all the details.")
	}
	first := verrs[0]
	field := strings.ToLower(first.Field())
	switch first.Tag() {
	case "required":
		return apperr.Validation(field, "Please provide all the details.")
	case "email":
		return apperr.Validation(field, "Please provide valid email")
	case "min":
		return apperr.Validation(field, "Password must be at least 8 characters")
	default:
		return apperr.Validation(field, "Please provide all the details.")
	}
}
