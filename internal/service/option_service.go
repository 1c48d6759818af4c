package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

// --- DTOs ---

type CreateOptionRequest struct {
	Type      string `json:"type" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code"`
	SortOrder int    `json:"sort_order"`
}

type UpdateOptionRequest struct {
	Name      *string `json:"name"`
	Code      *string `json:"code"`
	IsActive  *bool   `json:"is_active"`
	SortOrder *int    `json:"sort_order"`
}

type ReorderOptionsRequest struct {
	Type  string      `json:"type" binding:"required"`
	Order []uuid.UUID `json:"order" binding:"required"`
}

type OptionResponse struct {
	ID        uuid.UUID        `json:"id"`
	Type      model.OptionType `json:"type"`
	TypeLabel string           `json:"type_label"`
	Name      string           `json:"name"`
	Code      string           `json:"code,omitempty"`
	IsActive  bool             `json:"is_active"`
	SortOrder int              `json:"sort_order"`
	CreatedAt time.Time        `json:"created_at"`
}

// OptionService defines business logic for the dropdown taxonomies.
type OptionService interface {
	ListByType(ctx context.Context, optType string) ([]OptionResponse, error)
	ListAll(ctx context.Context, optType string, includeInactive bool) ([]OptionResponse, error)
	Create(ctx context.Context, req CreateOptionRequest) (*OptionResponse, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateOptionRequest) (*OptionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, req ReorderOptionsRequest) error
}

type optionService struct {
	repo repository.OptionRepository
	tx   repository.TransactionManager
}

func NewOptionService(repo repository.OptionRepository, tx repository.TransactionManager) OptionService {
	return &optionService{repo: repo, tx: tx}
}

func mapOption(o *model.DropdownOption) OptionResponse {
	return OptionResponse{
		ID:        o.ID,
		Type:      o.Type,
		TypeLabel: o.Type.Display(),
		Name:      o.Name,
		Code:      o.Code,
		IsActive:  o.IsActive,
		SortOrder: o.SortOrder,
		CreatedAt: o.CreatedAt,
	}
}

func (s *optionService) ListByType(ctx context.Context, optType string) ([]OptionResponse, error) {
	t := model.OptionType(optType)
	if !t.Valid() {
		return nil, ErrInvalidSelection
	}
	options, err := s.repo.ListActiveByType(ctx, t)
	if err != nil {
		return nil, err
	}
	out := make([]OptionResponse, 0, len(options))
	for i := range options {
		out = append(out, mapOption(&options[i]))
	}
	return out, nil
}

func (s *optionService) ListAll(ctx context.Context, optType string, includeInactive bool) ([]OptionResponse, error) {
	var t model.OptionType
	if optType != "" {
		t = model.OptionType(optType)
		if !t.Valid() {
			return nil, ErrInvalidSelection
		}
	}
	options, err := s.repo.ListAll(ctx, t, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]OptionResponse, 0, len(options))
	for i := range options {
		out = append(out, mapOption(&options[i]))
	}
	return out, nil
}

func (s *optionService) Create(ctx context.Context, req CreateOptionRequest) (*OptionResponse, error) {
	t := model.OptionType(req.Type)
	if !t.Valid() {
		return nil, ErrInvalidSelection
	}

	option := &model.DropdownOption{
		Type:      t,
		Name:      strings.TrimSpace(req.Name),
		Code:      strings.TrimSpace(req.Code),
		IsActive:  true,
		SortOrder: req.SortOrder,
	}
	if err := s.repo.Create(ctx, option); err != nil {
		return nil, err
	}
	resp := mapOption(option)
	return &resp, nil
}

func (s *optionService) Update(ctx context.Context, id uuid.UUID, req UpdateOptionRequest) (*OptionResponse, error) {
	option, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		option.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		option.Code = strings.TrimSpace(*req.Code)
	}
	if req.IsActive != nil {
		// Deactivation hides the option from dropdowns; existing trips
		// keep their denormalized snapshot of it.
		option.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		option.SortOrder = *req.SortOrder
	}

	if err := s.repo.Update(ctx, option); err != nil {
		return nil, err
	}
	resp := mapOption(option)
	return &resp, nil
}

func (s *optionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *optionService) Reorder(ctx context.Context, req ReorderOptionsRequest) error {
	t := model.OptionType(req.Type)
	if !t.Valid() {
		return ErrInvalidSelection
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for i, id := range req.Order {
			if _, err := s.repo.GetActive(txCtx, id, t); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if err := s.repo.UpdateOrder(txCtx, id, i); err != nil {
				return err
			}
		}
		return nil
	})
}
