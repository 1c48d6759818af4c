package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

// --- DTOs ---

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	IsDefault   bool     `json:"is_default"`
}

type UpdateRoleRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Permissions []string `json:"permissions"`
	IsDefault   *bool    `json:"is_default"`
}

type RoleResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Permissions []model.Permission `json:"permissions"`
	IsDefault   bool               `json:"is_default"`
	IsSystem    bool               `json:"is_system"`
	UserCount   int64              `json:"user_count"`
	CreatedAt   time.Time          `json:"created_at"`
}

type PermissionResponse struct {
	Code     model.Permission `json:"code"`
	Resource string           `json:"resource"`
}

// --- Interface ---

type RoleService interface {
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	GetRole(ctx context.Context, id uuid.UUID) (*RoleResponse, error)
	CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error)
	UpdateRole(ctx context.Context, id uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, id uuid.UUID) error
	ListPermissions(ctx context.Context) []PermissionResponse
	GetDefaultRole(ctx context.Context) (*model.Role, error)
	AssignRole(ctx context.Context, userID uuid.UUID, roleID *uuid.UUID) (*UserResponse, error)
	ListUsersByRole(ctx context.Context, roleID uuid.UUID) ([]UserResponse, error)
}

type roleService struct {
	db    *gorm.DB
	users repository.UserRepository
	tx    repository.TransactionManager
}

func NewRoleService(db *gorm.DB, users repository.UserRepository, tx repository.TransactionManager) RoleService {
	return &roleService{db: db, users: users, tx: tx}
}

func parsePermissions(codes []string) ([]model.Permission, error) {
	perms := make([]model.Permission, 0, len(codes))
	seen := make(map[model.Permission]bool, len(codes))
	for _, code := range codes {
		p := model.Permission(code)
		if !p.Valid() {
			return nil, ErrInvalidPermission
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		perms = append(perms, p)
	}
	return perms, nil
}

func (s *roleService) mapRole(ctx context.Context, role *model.Role) (*RoleResponse, error) {
	count, err := s.users.CountByRole(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	return &RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: role.Permissions,
		IsDefault:   role.IsDefault,
		IsSystem:    role.IsSystem,
		UserCount:   count,
		CreatedAt:   role.CreatedAt,
	}, nil
}

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	var roles []model.Role
	if err := repository.GetDB(ctx, s.db).Order("created_at asc").Find(&roles).Error; err != nil {
		return nil, err
	}

	out := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		resp, err := s.mapRole(ctx, &roles[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *roleService) GetRole(ctx context.Context, id uuid.UUID) (*RoleResponse, error) {
	var role model.Role
	if err := repository.GetDB(ctx, s.db).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return s.mapRole(ctx, &role)
}

func (s *roleService) CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	perms, err := parsePermissions(req.Permissions)
	if err != nil {
		return nil, err
	}

	if taken, err := s.nameTaken(ctx, req.Name, uuid.Nil); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrRoleNameTaken
	}

	role := &model.Role{
		Name:        req.Name,
		Description: req.Description,
		Permissions: perms,
		IsDefault:   req.IsDefault,
	}

	// At most one role may be the default, so flipping it on is a
	// two-step write that has to run atomically.
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if req.IsDefault {
			if err := s.clearDefault(txCtx); err != nil {
				return err
			}
		}
		return repository.GetDB(txCtx, s.db).Create(role).Error
	})
	if err != nil {
		return nil, err
	}

	return s.mapRole(ctx, role)
}

func (s *roleService) UpdateRole(ctx context.Context, id uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error) {
	var role model.Role

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).First(&role, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}
			return err
		}
		if role.IsSystem {
			return ErrRoleImmutable
		}

		if req.Name != nil {
			if taken, err := s.nameTaken(txCtx, *req.Name, role.ID); err != nil {
				return err
			} else if taken {
				return ErrRoleNameTaken
			}
			role.Name = *req.Name
		}
		if req.Description != nil {
			role.Description = *req.Description
		}
		if req.Permissions != nil {
			perms, err := parsePermissions(req.Permissions)
			if err != nil {
				return err
			}
			role.Permissions = perms
		}
		if req.IsDefault != nil {
			if *req.IsDefault && !role.IsDefault {
				if err := s.clearDefault(txCtx); err != nil {
					return err
				}
			}
			role.IsDefault = *req.IsDefault
		}

		return repository.GetDB(txCtx, s.db).Save(&role).Error
	})
	if err != nil {
		return nil, err
	}

	return s.mapRole(ctx, &role)
}

func (s *roleService) DeleteRole(ctx context.Context, id uuid.UUID) error {
	var role model.Role
	if err := repository.GetDB(ctx, s.db).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}
	if role.IsSystem {
		return ErrRoleImmutable
	}

	count, err := s.users.CountByRole(ctx, role.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrRoleInUse
	}

	return repository.GetDB(ctx, s.db).Delete(&role).Error
}

func (s *roleService) ListPermissions(ctx context.Context) []PermissionResponse {
	out := make([]PermissionResponse, 0, len(model.AllPermissions))
	for _, p := range model.AllPermissions {
		out = append(out, PermissionResponse{Code: p, Resource: p.Resource()})
	}
	return out
}

// nameTaken matches case-insensitively, excluding the role being renamed.
func (s *roleService) nameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	var count int64
	err := repository.GetDB(ctx, s.db).Model(&model.Role{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, exclude).
		Count(&count).Error
	return count > 0, err
}

func (s *roleService) GetDefaultRole(ctx context.Context) (*model.Role, error) {
	var role model.Role
	err := repository.GetDB(ctx, s.db).Where("is_default = ?", true).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *roleService) AssignRole(ctx context.Context, userID uuid.UUID, roleID *uuid.UUID) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if roleID != nil {
		var role model.Role
		if err := repository.GetDB(ctx, s.db).First(&role, "id = ?", *roleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoleNotFound
			}
			return nil, err
		}
	}

	user.RoleID = roleID
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	loaded, err := s.users.GetByIDWithRole(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := mapUserResponse(loaded)
	return &resp, nil
}

func (s *roleService) ListUsersByRole(ctx context.Context, roleID uuid.UUID) ([]UserResponse, error) {
	var role model.Role
	if err := repository.GetDB(ctx, s.db).First(&role, "id = ?", roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	users, err := s.users.ListByRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, mapUserResponse(&users[i]))
	}
	return out, nil
}

func (s *roleService) clearDefault(ctx context.Context) error {
	return repository.GetDB(ctx, s.db).Model(&model.Role{}).
		Where("is_default = ?", true).
		Update("is_default", false).Error
}
