package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anonto42/kickoff/backend/internal/models"
	"github.com/anonto42/kickoff/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for stored password hashes.
const PasswordCost = 10

// Credentials owns user registration and password authentication.
type Credentials struct {
	users  repositories.UserRepository
	logger *slog.Logger
	cost   int
}

// NewCredentials creates a Credentials service backed by users.
func NewCredentials(users repositories.UserRepository, logger *slog.Logger) *Credentials {
	return &Credentials{users: users, logger: logger, cost: PasswordCost}
}

// CreateUser registers a user after checking the email domain. The password is hashed before
// it reaches the store.
func (c *Credentials) CreateUser(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = models.NormalizeEmail(email)

	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if password == "" {
		return nil, models.NewValidationError("Password is required")
	}
	if !strings.HasSuffix(email, models.AllowedEmailDomain) || len(email) == len(models.AllowedEmailDomain) {
		return nil, models.ErrInvalidEmailDomain
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	if err := c.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID.Hex()))
	return user, nil
}

// Authenticate returns the user whose email and password match. Unknown email and wrong
// password both yield models.ErrInvalidCredentials.
func (c *Credentials) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := c.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}

// FindByEmail looks a user up by case-insensitive email.
func (c *Credentials) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.users.GetUserByEmail(ctx, email)
}

// FindByID looks a user up by id.
func (c *Credentials) FindByID(ctx context.Context, id string) (*models.User, error) {
	return c.users.GetUserByID(ctx, id)
}
