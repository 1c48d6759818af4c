package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

// DTOs for request validation
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// DTO for returning User without exposing sensitive data (e.g. password)
type UserResponse struct {
	ID           uuid.UUID          `json:"id"`
	Email        string             `json:"email"`
	Name         string             `json:"name"`
	IsAdmin      bool               `json:"is_admin"`
	IsSuperAdmin bool               `json:"is_super_admin"`
	IsActive     bool               `json:"is_active"`
	Role         *string            `json:"role,omitempty"`
	Permissions  []model.Permission `json:"permissions,omitempty"`
	LastLogin    *time.Time         `json:"last_login,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// AuthService defines the interface for authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*UserResponse, error)
}

type authService struct {
	users     repository.UserRepository
	roles     RoleService
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthService returns a new instance of AuthService.
func NewAuthService(users repository.UserRepository, roles RoleService, jwtSecret string, tokenTTLDays int) AuthService {
	return &authService{
		users:     users,
		roles:     roles,
		jwtSecret: jwtSecret,
		tokenTTL:  time.Duration(tokenTTLDays) * 24 * time.Hour,
	}
}

func mapUserResponse(user *model.User) UserResponse {
	resp := UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		IsAdmin:      user.IsAdmin,
		IsSuperAdmin: user.IsSuperAdmin,
		IsActive:     user.IsActive,
		LastLogin:    user.LastLogin,
		CreatedAt:    user.CreatedAt,
	}
	if user.Role != nil {
		resp.Role = &user.Role.Name
		resp.Permissions = user.Role.Permissions
	}
	return resp
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    email,
		Password: string(hashed),
		Name:     strings.TrimSpace(req.Name),
		IsActive: true,
	}

	// New accounts pick up the default role when one is configured.
	if defaultRole, err := s.roles.GetDefaultRole(ctx); err == nil {
		user.RoleID = &defaultRole.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	loaded, err := s.users.GetByIDWithRole(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(loaded)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: mapUserResponse(loaded)}, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	loaded, err := s.users.GetByIDWithRole(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(loaded)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: mapUserResponse(loaded)}, nil
}

func (s *authService) Profile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.GetByIDWithRole(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := mapUserResponse(user)
	return &resp, nil
}

func (s *authService) issueToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"adm": user.IsAdmin || user.IsSuperAdmin,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
