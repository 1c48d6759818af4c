package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

// --- DTOs ---

type CreateUserRequest struct {
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=6"`
	Name     string     `json:"name" binding:"required"`
	RoleID   *uuid.UUID `json:"role_id"`
	IsAdmin  bool       `json:"is_admin"`
}

type UpdateUserRequest struct {
	Name     *string    `json:"name"`
	Email    *string    `json:"email" binding:"omitempty,email"`
	Password *string    `json:"password" binding:"omitempty,min=6"`
	RoleID   *uuid.UUID `json:"role_id"`
	IsAdmin  *bool      `json:"is_admin"`
	IsActive *bool      `json:"is_active"`
}

type UserListRequest struct {
	Search   string
	IsActive *bool
	Limit    int
	Skip     int
}

type DashboardStats struct {
	TotalUsers          int64 `json:"total_users"`
	ActiveUsers         int64 `json:"active_users"`
	InactiveUsers       int64 `json:"inactive_users"`
	ActiveTrips         int64 `json:"active_trips"`
	CompletedTripsToday int64 `json:"completed_trips_today"`
	CancelledTripsToday int64 `json:"cancelled_trips_today"`
	TotalVehicles       int64 `json:"total_vehicles"`
	TotalLocations      int64 `json:"total_locations"`
	LocationsToday      int64 `json:"locations_today"`
	MissingUnloading    int64 `json:"missing_unloading_entries"`
	MissingLoading      int64 `json:"missing_loading_entries"`
}

type DashboardResponse struct {
	Stats       DashboardStats `json:"stats"`
	RecentUsers []UserResponse `json:"recent_users"`
}

// AdminService covers user administration and the overview dashboard.
type AdminService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*UserResponse, error)
	ListUsers(ctx context.Context, req UserListRequest) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	Dashboard(ctx context.Context) (*DashboardResponse, error)
}

type adminService struct {
	db        *gorm.DB
	users     repository.UserRepository
	locations repository.LocationRepository
	tx        repository.TransactionManager
}

func NewAdminService(db *gorm.DB, users repository.UserRepository, locations repository.LocationRepository, tx repository.TransactionManager) AdminService {
	return &adminService{db: db, users: users, locations: locations, tx: tx}
}

func (s *adminService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
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
		RoleID:   req.RoleID,
		IsAdmin:  req.IsAdmin,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	loaded, err := s.users.GetByIDWithRole(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	resp := mapUserResponse(loaded)
	return &resp, nil
}

func (s *adminService) GetUser(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.GetByIDWithRole(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := mapUserResponse(user)
	return &resp, nil
}

func (s *adminService) ListUsers(ctx context.Context, req UserListRequest) ([]UserResponse, int64, error) {
	users, total, err := s.users.List(ctx, repository.UserListFilter{
		Search:   req.Search,
		IsActive: req.IsActive,
		Limit:    req.Limit,
		Skip:     req.Skip,
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, mapUserResponse(&users[i]))
	}
	return out, total, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Root admin status is fixed at provisioning time.
	if user.IsSuperAdmin && req.IsAdmin != nil && !*req.IsAdmin {
		return nil, ErrRoleImmutable
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			if _, err := s.users.GetByEmail(ctx, email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}
	if req.RoleID != nil {
		user.RoleID = req.RoleID
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	loaded, err := s.users.GetByIDWithRole(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapUserResponse(loaded)
	return &resp, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if user.IsSuperAdmin {
		return ErrRoleImmutable
	}

	// Telemetry has no value without its owner; drop it in the same
	// transaction.
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.locations.DeleteByUser(txCtx, id); err != nil {
			return err
		}
		return s.users.Delete(txCtx, id)
	})
}

func (s *adminService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	db := repository.GetDB(ctx, s.db)
	stats := DashboardStats{}
	startOfDay := time.Now().Truncate(24 * time.Hour)

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, db.Model(&model.User{})},
		{&stats.ActiveUsers, db.Model(&model.User{}).Where("is_active = ?", true)},
		{&stats.ActiveTrips, db.Model(&model.Trip{}).Where("status = ?", model.TripActive)},
		{&stats.CompletedTripsToday, db.Model(&model.Trip{}).Where("status = ? AND end_time >= ?", model.TripCompleted, startOfDay)},
		{&stats.CancelledTripsToday, db.Model(&model.Trip{}).Where("status = ? AND end_time >= ?", model.TripCancelled, startOfDay)},
		{&stats.TotalVehicles, db.Model(&model.QRVehicle{}).Where("is_active = ?", true)},
		{&stats.TotalLocations, db.Model(&model.Location{})},
		{&stats.LocationsToday, db.Model(&model.Location{}).Where("timestamp >= ?", startOfDay)},
		{&stats.MissingUnloading, db.Model(&model.MissingUnloadingPointEntry{})},
		{&stats.MissingLoading, db.Model(&model.MissingLoadingPointEntry{})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	stats.InactiveUsers = stats.TotalUsers - stats.ActiveUsers

	var recent []model.User
	if err := db.Preload("Role").Order("created_at desc").Limit(5).Find(&recent).Error; err != nil {
		return nil, err
	}
	recentUsers := make([]UserResponse, 0, len(recent))
	for i := range recent {
		recentUsers = append(recentUsers, mapUserResponse(&recent[i]))
	}

	return &DashboardResponse{Stats: stats, RecentUsers: recentUsers}, nil
}
