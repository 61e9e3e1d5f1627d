package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"congregation_backend/internals/features/contributions/dto"
	"congregation_backend/internals/features/contributions/model"
	"congregation_backend/internals/helpers/dbtime"
)

var ErrExpenseNotFound = errors.New("expense not found")

// spend moves the event's amount_spent by delta inside tx.
func spend(tx *gorm.DB, eventID uuid.UUID, delta int64) error {
	if delta == 0 {
		return nil
	}
	return tx.Model(&model.ContributionEventModel{}).
		Where("event_id = ?", eventID).
		Update("event_amount_spent", gorm.Expr("event_amount_spent + ?", delta)).Error
}

func (l *Ledger) findExpense(tx *gorm.DB, id uuid.UUID) (*model.ExpenseModel, error) {
	var e model.ExpenseModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("expense_id = ?", id).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrExpenseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListExpenses returns every expense, newest first. A non-nil eventID narrows
// the list to one event.
func (l *Ledger) ListExpenses(ctx context.Context, eventID *uuid.UUID) ([]model.ExpenseModel, error) {
	q := l.DB.WithContext(ctx).Order("expense_created_at DESC")
	if eventID != nil {
		q = q.Where("expense_event_id = ?", *eventID)
	}
	out := []model.ExpenseModel{}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CreateExpense records an expense and adds it to the event's amount spent.
// Locked events accept expenses too.
func (l *Ledger) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest) (*model.ExpenseModel, error) {
	eventID, err := uuid.Parse(strings.TrimSpace(req.EventID))
	if err != nil {
		return nil, fmt.Errorf("%w: eventId is not a valid id", ErrInvalidInput)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	e := &model.ExpenseModel{
		ExpenseEventID: eventID,
		ExpenseAmount:  req.Amount,
		ExpenseReason:  trimNote(req.Reason),
		ExpenseDate:    dbtime.Today(l.Clock(), nil),
	}
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		d, err := dbtime.ParseDate(*req.Date, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
		e.ExpenseDate = d
	}

	err = l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := l.findEvent(tx, eventID, true); err != nil {
			return err
		}
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		return spend(tx, eventID, e.ExpenseAmount)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// PatchExpense edits an expense; an amount change is carried over to the
// event's amount spent.
func (l *Ledger) PatchExpense(ctx context.Context, id uuid.UUID, req dto.PatchExpenseRequest) (*model.ExpenseModel, error) {
	var out *model.ExpenseModel
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := l.findExpense(tx, id)
		if err != nil {
			return err
		}
		up := map[string]any{}
		var delta int64
		if req.Amount != nil {
			if *req.Amount <= 0 {
				return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
			}
			delta = *req.Amount - e.ExpenseAmount
			up["expense_amount"] = *req.Amount
		}
		if req.Reason != nil {
			up["expense_reason"] = trimNote(req.Reason)
		}
		if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
			d, err := dbtime.ParseDate(*req.Date, nil)
			if err != nil {
				return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
			}
			up["expense_date"] = d
		}
		if len(up) > 0 {
			if err := tx.Model(e).Updates(up).Error; err != nil {
				return err
			}
			if err := spend(tx, e.ExpenseEventID, delta); err != nil {
				return err
			}
		}
		out, err = l.findExpense(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteExpense removes an expense and takes it off the event's amount spent.
func (l *Ledger) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := l.findExpense(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(e).Error; err != nil {
			return err
		}
		return spend(tx, e.ExpenseEventID, -e.ExpenseAmount)
	})
}
