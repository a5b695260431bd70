package user

import (
	"context"
	"fmt"
	"time"

	userRepo "suarec/database/repository/user"
	"suarec/models"
	"suarec/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// tokenDuration is the lifetime of an issued auth token.
const tokenDuration = 24 * time.Hour

// RegisterInput carries a new account. Roles arrive as free-form names and are
// normalized exactly once, here at the auth boundary.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Roles    []string
}

// AuthResponse contains the user's ID, token, and profile basics.
type AuthResponse struct {
	ID    string   `json:"id"`
	Token string   `json:"token"`
	Name  string   `json:"name,omitempty"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// UserService manages accounts and authentication.
type UserService interface {
	Register(in RegisterInput) (*AuthResponse, error)
	Login(email, password string) (*AuthResponse, error)
	GetUserByID(userID string) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

// Register creates an account and signs the user in.
func (s *DefaultUserService) Register(in RegisterInput) (*AuthResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Roles:        models.NormalizeRoles(in.Roles),
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, err
	}

	return s.issueToken(u)
}

// Login authenticates by email and password.
func (s *DefaultUserService) Login(email, password string) (*AuthResponse, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return s.issueToken(u)
}

// GetUserByID fetches an account by ID.
func (s *DefaultUserService) GetUserByID(userID string) (*models.User, error) {
	return s.Repo.GetByID(userID)
}

// issueToken signs a JWT and records its hash in the auth cache so tokens can
// be revoked before expiry.
func (s *DefaultUserService) issueToken(u *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(u.ID, u.Email, u.Roles, tokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	cacheKey := "auth:" + u.ID + ":" + utils.HashToken(token)
	if err := utils.GetAuthCacheClient().Set(context.Background(), cacheKey, "1", tokenDuration).Err(); err != nil {
		return nil, fmt.Errorf("failed to record auth token: %w", err)
	}

	return &AuthResponse{
		ID:    u.ID,
		Token: token,
		Name:  u.Name,
		Email: u.Email,
		Roles: u.Roles,
	}, nil
}
