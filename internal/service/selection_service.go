package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

// --- DTOs ---

type SaveSelectionRequest struct {
	ProjectID     string `json:"project_id" binding:"required"`
	SelectionType string `json:"selection_type" binding:"required"`
	SelectionID   string `json:"selection_id" binding:"required"`
}

// SelectionService persists the operator's last project/point choice so the
// device can restore it on the next shift.
type SelectionService interface {
	Save(ctx context.Context, userID uuid.UUID, req SaveSelectionRequest) (*model.UserSelection, error)
	Current(ctx context.Context, userID uuid.UUID) (*model.UserSelection, error)
	Deactivate(ctx context.Context, userID, selectionID uuid.UUID) error
	History(ctx context.Context, userID uuid.UUID, limit, skip int) ([]model.UserSelection, int64, error)
}

type selectionService struct {
	selections repository.SelectionRepository
	options    repository.OptionRepository
	tx         repository.TransactionManager
}

func NewSelectionService(selections repository.SelectionRepository, options repository.OptionRepository, tx repository.TransactionManager) SelectionService {
	return &selectionService{selections: selections, options: options, tx: tx}
}

func (s *selectionService) Save(ctx context.Context, userID uuid.UUID, req SaveSelectionRequest) (*model.UserSelection, error) {
	selType := model.SelectionType(req.SelectionType)
	if !selType.Valid() {
		return nil, ErrInvalidSelection
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, ErrInvalidReference
	}
	project, err := s.options.GetActive(ctx, projectID, model.OptionProject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}

	selectionID, err := uuid.Parse(req.SelectionID)
	if err != nil {
		return nil, ErrInvalidReference
	}
	selection, err := s.options.GetActive(ctx, selectionID, selectionOptionType(selType))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}

	sel := &model.UserSelection{
		UserID:        userID,
		ProjectID:     project.ID,
		ProjectName:   project.Name,
		SelectionType: selType,
		SelectionID:   selection.ID,
		SelectionName: selection.Name,
		IsActive:      true,
	}

	// Only one selection per user is active; the swap is atomic.
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.selections.DeactivateByUser(txCtx, userID); err != nil {
			return err
		}
		return s.selections.Create(txCtx, sel)
	})
	if err != nil {
		return nil, err
	}
	return sel, nil
}

func (s *selectionService) Current(ctx context.Context, userID uuid.UUID) (*model.UserSelection, error) {
	sel, err := s.selections.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sel, nil
}

// Deactivate clears one saved selection. The id and owner filter collapse
// into a single update so foreign ids read as not found.
func (s *selectionService) Deactivate(ctx context.Context, userID, selectionID uuid.UUID) error {
	affected, err := s.selections.DeactivateByID(ctx, userID, selectionID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *selectionService) History(ctx context.Context, userID uuid.UUID, limit, skip int) ([]model.UserSelection, int64, error) {
	return s.selections.ListByUser(ctx, userID, limit, skip)
}
