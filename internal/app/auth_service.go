package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"academy-qabot/internal/model"
	"academy-qabot/internal/pkg/jwtutil"
)

var (
	ErrUsernameExists    = errors.New("username already exists")
	ErrInvalidCredential = errors.New("invalid username or password")
)

const minPasswordLen = 8

type AdminStore interface {
	Create(ctx context.Context, admin *model.Admin) error
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
}

// AuthService manages admin accounts and issues tokens for the admin API.
type AuthService struct {
	admins        AdminStore
	jwtSecret     string
	jwtExpiration time.Duration
}

type CreateAdminInput struct {
	Username string
	Password string
	Role     string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	Token string       `json:"token"`
	Admin *model.Admin `json:"admin"`
}

func NewAuthService(admins AdminStore, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		admins:        admins,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (s *AuthService) CreateAdmin(ctx context.Context, input CreateAdminInput) (*model.Admin, error) {
	username := strings.TrimSpace(input.Username)
	password := strings.TrimSpace(input.Password)
	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = jwtutil.RoleAdmin
	}
	if username == "" || len(password) < minPasswordLen {
		return nil, ErrInvalidInput
	}

	existing, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	admin := &model.Admin{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	password := strings.TrimSpace(input.Password)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, admin.Username, admin.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Admin: admin}, nil
}
