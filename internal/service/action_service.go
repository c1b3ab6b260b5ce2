package service

import (
	"context"
	"errors"
	"strings"

	"mizan/internal/domain"
	"mizan/internal/models"
	"mizan/internal/repository"

	"gorm.io/gorm"
)

// ActionStatus is a catalog action with the caller's checked state for one date.
type ActionStatus struct {
	models.Action
	Checked bool `json:"checked"`
}

type ActionService struct {
	db      *gorm.DB
	actions *repository.ActionRepository
	entries *repository.DailyActionRepository
}

func NewActionService(gdb *gorm.DB, actions *repository.ActionRepository, entries *repository.DailyActionRepository) *ActionService {
	return &ActionService{db: gdb, actions: actions, entries: entries}
}

func (s *ActionService) List(ctx context.Context) ([]models.Action, error) {
	return s.actions.WithTx(s.db.WithContext(ctx)).ListActive()
}

func (s *ActionService) ListByType(ctx context.Context, actionType string) ([]models.Action, error) {
	actionType = strings.ToUpper(strings.TrimSpace(actionType))
	if !domain.IsActionType(actionType) {
		return nil, &ValidationError{Field: "type", Message: "must be GOOD or BAD"}
	}
	return s.actions.WithTx(s.db.WithContext(ctx)).ListActiveByType(actionType)
}

// SetActive retires or restores a catalog action. Retired actions drop out
// of listings and can no longer be checked; existing entries stay removable.
func (s *ActionService) SetActive(ctx context.Context, id uint, active bool) error {
	err := s.actions.WithTx(s.db.WithContext(ctx)).SetActive(id, active)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: EntityAction, ID: id}
	}
	return err
}

// ForDate lists active actions flagged with whether userID checked them on date.
func (s *ActionService) ForDate(ctx context.Context, userID uint, date string) ([]ActionStatus, error) {
	date, err := ParseDate("date", date)
	if err != nil {
		return nil, err
	}
	tx := s.db.WithContext(ctx)
	list, err := s.actions.WithTx(tx).ListActive()
	if err != nil {
		return nil, err
	}
	checked, err := s.entries.WithTx(tx).CheckedActionIDs(userID, date)
	if err != nil {
		return nil, err
	}
	out := make([]ActionStatus, len(list))
	for i, a := range list {
		out[i] = ActionStatus{Action: a, Checked: checked[a.ID]}
	}
	return out, nil
}
