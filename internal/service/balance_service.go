package service

import (
	"context"
	"errors"

	"mizan/internal/domain"
	"mizan/internal/models"
	"mizan/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MetricsSink receives one increment per newly checked action.
type MetricsSink interface {
	IncrementGood()
	IncrementBad()
}

type BalanceService struct {
	db       *gorm.DB
	users    *repository.UserRepository
	actions  *repository.ActionRepository
	entries  *repository.DailyActionRepository
	balances *repository.BalanceRepository
	metrics  MetricsSink
	log      *zap.Logger
}

func NewBalanceService(
	gdb *gorm.DB,
	users *repository.UserRepository,
	actions *repository.ActionRepository,
	entries *repository.DailyActionRepository,
	balances *repository.BalanceRepository,
	metrics MetricsSink,
	log *zap.Logger,
) *BalanceService {
	return &BalanceService{
		db:       gdb,
		users:    users,
		actions:  actions,
		entries:  entries,
		balances: balances,
		metrics:  metrics,
		log:      log.Named("balance"),
	}
}

// Toggle sets the checked state of one action for one user and date and
// returns the recomputed snapshot. A racing duplicate insert is retried once.
// Inactive actions can be unchecked but not checked.
func (s *BalanceService) Toggle(ctx context.Context, userID, actionID uint, date string, checked bool) (*models.DailyBalance, error) {
	date, err := ParseDate("date", date)
	if err != nil {
		return nil, err
	}

	snap, inserted, err := s.toggleOnce(ctx, userID, actionID, date, checked)
	if errors.Is(err, repository.ErrConflict) {
		s.log.Debug("toggle conflict, retrying",
			zap.Uint("user_id", userID), zap.Uint("action_id", actionID), zap.String("date", date))
		snap, inserted, err = s.toggleOnce(ctx, userID, actionID, date, checked)
	}
	if err != nil {
		return nil, err
	}

	if inserted != nil && s.metrics != nil {
		if inserted.IsGood() {
			s.metrics.IncrementGood()
		} else {
			s.metrics.IncrementBad()
		}
	}
	return snap, nil
}

// toggleOnce runs one reconcile+recompute transaction. inserted is the action
// whose ledger row was created, nil when nothing was inserted.
func (s *BalanceService) toggleOnce(ctx context.Context, userID, actionID uint, date string, checked bool) (*models.DailyBalance, *models.Action, error) {
	var (
		snap     *models.DailyBalance
		inserted *models.Action
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireUser(tx, userID); err != nil {
			return err
		}
		action, err := s.actions.WithTx(tx).GetByID(actionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: EntityAction, ID: actionID}
		}
		if err != nil {
			return err
		}

		entries := s.entries.WithTx(tx)
		existing, err := entries.Find(userID, actionID, date)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		switch {
		case existing != nil && !checked:
			if err := entries.Delete(existing.ID); err != nil {
				return err
			}
			s.log.Info("action unchecked",
				zap.Uint("user_id", userID), zap.Uint("action_id", actionID), zap.String("date", date))
		case existing == nil && checked:
			// Retired actions can no longer be checked, but existing
			// entries for them stay removable.
			if !action.Active {
				return &NotFoundError{Entity: EntityAction, ID: actionID}
			}
			entry := &models.UserDailyAction{
				UserID:     userID,
				ActionID:   actionID,
				ActionDate: date,
				Checked:    true,
			}
			if err := entries.Create(entry); err != nil {
				return err
			}
			inserted = action
			s.log.Info("action checked",
				zap.Uint("user_id", userID), zap.Uint("action_id", actionID),
				zap.String("type", action.Type), zap.String("date", date))
		}

		snap, err = s.recompute(tx, userID, date)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return snap, inserted, nil
}

// GetBalance recomputes and stores the snapshot for date without touching the ledger.
func (s *BalanceService) GetBalance(ctx context.Context, userID uint, date string) (*models.DailyBalance, error) {
	date, err := ParseDate("date", date)
	if err != nil {
		return nil, err
	}

	var snap *models.DailyBalance
	run := func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.requireUser(tx, userID); err != nil {
				return err
			}
			var err error
			snap, err = s.recompute(tx, userID, date)
			return err
		})
	}
	err = run()
	if errors.Is(err, repository.ErrConflict) {
		err = run()
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// GetHistory returns stored snapshots with startDate <= date <= endDate, newest first.
func (s *BalanceService) GetHistory(ctx context.Context, userID uint, startDate, endDate string) ([]models.DailyBalance, error) {
	start, err := ParseDate("startDate", startDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate("endDate", endDate)
	if err != nil {
		return nil, err
	}
	if start > end {
		return nil, &ValidationError{Field: "startDate", Message: "must not be after endDate"}
	}
	tx := s.db.WithContext(ctx)
	if err := s.requireUser(tx, userID); err != nil {
		return nil, err
	}
	return s.balances.WithTx(tx).ListRange(userID, start, end)
}

// GetRecentHistory returns at most the 30 newest stored snapshots.
func (s *BalanceService) GetRecentHistory(ctx context.Context, userID uint) ([]models.DailyBalance, error) {
	tx := s.db.WithContext(ctx)
	if err := s.requireUser(tx, userID); err != nil {
		return nil, err
	}
	return s.balances.WithTx(tx).ListRecent(userID, domain.RecentHistoryLimit)
}

func (s *BalanceService) requireUser(tx *gorm.DB, userID uint) error {
	ok, err := s.users.WithTx(tx).Exists(userID)
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{Entity: EntityUser, ID: userID}
	}
	return nil
}

func (s *BalanceService) recompute(tx *gorm.DB, userID uint, date string) (*models.DailyBalance, error) {
	rows, err := s.entries.WithTx(tx).ListChecked(userID, date)
	if err != nil {
		return nil, err
	}
	totals := Aggregate(rows)
	snap := &models.DailyBalance{
		UserID:      userID,
		BalanceDate: date,
		GoodCount:   totals.GoodCount,
		BadCount:    totals.BadCount,
		GoodWeight:  totals.GoodWeight,
		BadWeight:   totals.BadWeight,
		Verdict:     totals.Verdict(),
	}
	if err := s.balances.WithTx(tx).Upsert(snap); err != nil {
		return nil, err
	}
	return snap, nil
}
