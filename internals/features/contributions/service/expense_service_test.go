package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"congregation_backend/internals/features/contributions/dto"
	"congregation_backend/internals/features/contributions/model"
	"congregation_backend/internals/helpers/dbtime"
)

func spent(t *testing.T, l *Ledger, id uuid.UUID) int64 {
	t.Helper()
	var ev model.ContributionEventModel
	if err := l.DB.Where("event_id = ?", id).Take(&ev).Error; err != nil {
		t.Fatalf("load event: %v", err)
	}
	return ev.EventAmountSpent
}

func TestExpensesTrackAmountSpent(t *testing.T) {
	l, alice, _ := newLedger(t)
	ctx := context.Background()

	ev, err := l.CreateEvent(ctx, dto.CreateEventRequest{Name: "Harvest", Type: "special"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := l.Submit(ctx, ev.EventID, nil, []dto.ContributionEntry{{MemberID: alice.String(), Amount: 500}}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// locked events still take expenses
	chairs, err := l.CreateExpense(ctx, dto.CreateExpenseRequest{EventID: ev.EventID.String(), Amount: 120, Reason: ptr("chairs")})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if chairs.ExpenseDate != dbtime.NewDate(2025, time.March, 10) {
		t.Fatalf("default date = %s", chairs.ExpenseDate)
	}
	if _, err := l.CreateExpense(ctx, dto.CreateExpenseRequest{EventID: ev.EventID.String(), Amount: 30, Date: ptr("2025-03-01")}); err != nil {
		t.Fatalf("create second expense: %v", err)
	}
	if got := spent(t, l, ev.EventID); got != 150 {
		t.Fatalf("amount spent = %d, want 150", got)
	}

	patched, err := l.PatchExpense(ctx, chairs.ExpenseID, dto.PatchExpenseRequest{Amount: ptr[int64](100), Reason: ptr("")})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if patched.ExpenseAmount != 100 || patched.ExpenseReason != nil {
		t.Fatalf("patched = %+v", patched)
	}
	if got := spent(t, l, ev.EventID); got != 130 {
		t.Fatalf("amount spent after patch = %d, want 130", got)
	}

	if err := l.DeleteExpense(ctx, chairs.ExpenseID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := spent(t, l, ev.EventID); got != 30 {
		t.Fatalf("amount spent after delete = %d, want 30", got)
	}
	if err := l.DeleteExpense(ctx, chairs.ExpenseID); !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("second delete err = %v, want ErrExpenseNotFound", err)
	}

	list, err := l.ListExpenses(ctx, &ev.EventID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ExpenseAmount != 30 {
		t.Fatalf("list = %+v", list)
	}

	detail, err := l.GetEvent(ctx, ev.EventID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if detail.AmountSpent != 30 || detail.ActualTotal != 500 {
		t.Fatalf("summary = %+v", detail.EventSummaryResponse)
	}

	if err := l.DeleteEvent(ctx, ev.EventID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	if list, err := l.ListExpenses(ctx, nil); err != nil || len(list) != 0 {
		t.Fatalf("expenses after event delete = %v, %v", list, err)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	l, _, _ := newLedger(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.CreateExpenseRequest
		want error
	}{
		{"unknown event", dto.CreateExpenseRequest{EventID: uuid.NewString(), Amount: 10}, ErrEventNotFound},
		{"bad id", dto.CreateExpenseRequest{EventID: "nope", Amount: 10}, ErrInvalidInput},
		{"zero amount", dto.CreateExpenseRequest{EventID: uuid.NewString(), Amount: 0}, ErrInvalidInput},
	}
	for _, tt := range tests {
		if _, err := l.CreateExpense(ctx, tt.req); !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
	if _, err := l.PatchExpense(ctx, uuid.New(), dto.PatchExpenseRequest{Amount: ptr[int64](5)}); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("patch unknown: err = %v", err)
	}
}
