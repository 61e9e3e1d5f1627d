package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"congregation_backend/internals/constants"
	"congregation_backend/internals/features/contributions/dto"
	"congregation_backend/internals/features/contributions/model"
	"congregation_backend/internals/helpers/dbtime"
	"congregation_backend/internals/testsupport"
)

func ptr[T any](v T) *T { return &v }

func newLedger(t *testing.T) (*Ledger, uuid.UUID, uuid.UUID) {
	t.Helper()
	db := testsupport.OpenDB(t)
	l := NewLedger(db, dbtime.Fixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)))
	a := testsupport.CreateMember(t, db, "Alice", constants.RoleMember)
	b := testsupport.CreateMember(t, db, "Bob", constants.RoleMember)
	return l, a.MemberID, b.MemberID
}

func TestSubmitLocksEvent(t *testing.T) {
	l, alice, bob := newLedger(t)
	ctx := context.Background()

	ev, err := l.CreateEvent(ctx, dto.CreateEventRequest{Name: "March", Type: "monthly", ExpectedTotal: ptr[int64](300)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ev.EventType != model.EventTypeMonthly {
		t.Fatalf("type = %q", ev.EventType)
	}
	if ev.EventDate != dbtime.NewDate(2025, time.March, 10) {
		t.Fatalf("default date = %s", ev.EventDate)
	}

	n, err := l.Submit(ctx, ev.EventID, nil, []dto.ContributionEntry{
		{MemberID: alice.String(), Amount: 100},
		{MemberID: bob.String(), Amount: 50, Note: ptr("cash")},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if n != 2 {
		t.Fatalf("written = %d, want 2", n)
	}

	detail, err := l.GetEvent(ctx, ev.EventID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !detail.Locked || detail.LockedAt == nil {
		t.Fatalf("event not locked: %+v", detail.EventSummaryResponse)
	}
	if detail.ActualTotal != 150 || detail.TotalContributors != 2 {
		t.Fatalf("totals = %d/%d", detail.ActualTotal, detail.TotalContributors)
	}
	if detail.Contributions[0].MemberName != "Alice" {
		t.Fatalf("first contributor = %q", detail.Contributions[0].MemberName)
	}

	_, err = l.Submit(ctx, ev.EventID, nil, []dto.ContributionEntry{{MemberID: alice.String(), Amount: 999}})
	if !errors.Is(err, ErrEventLocked) {
		t.Fatalf("resubmit error = %v, want %v", err, ErrEventLocked)
	}
	if _, err := l.UpsertMember(ctx, ev.EventID, dto.MemberDraftRequest{MemberID: alice.String(), Amount: ptr[int64](1)}); !errors.Is(err, ErrEventLocked) {
		t.Fatalf("draft on locked event error = %v", err)
	}
	if err := l.DeleteMember(ctx, ev.EventID, bob.String()); !errors.Is(err, ErrEventLocked) {
		t.Fatalf("delete on locked event error = %v", err)
	}

	detail, _ = l.GetEvent(ctx, ev.EventID)
	if detail.ActualTotal != 150 {
		t.Fatalf("locked totals changed to %d", detail.ActualTotal)
	}
}

func TestSubmitOverwritesDrafts(t *testing.T) {
	l, alice, bob := newLedger(t)
	ctx := context.Background()
	ev, _ := l.CreateEvent(ctx, dto.CreateEventRequest{Name: "Building fund", Type: "special"})

	if _, err := l.UpsertMember(ctx, ev.EventID, dto.MemberDraftRequest{MemberID: alice.String(), Amount: ptr[int64](10)}); err != nil {
		t.Fatalf("draft: %v", err)
	}
	row, err := l.UpsertMember(ctx, ev.EventID, dto.MemberDraftRequest{MemberID: alice.String(), Amount: ptr[int64](20)})
	if err != nil || row.ContributionAmount != 20 {
		t.Fatalf("redraft = %+v, %v", row, err)
	}
	if _, err := l.UpsertMember(ctx, ev.EventID, dto.MemberDraftRequest{MemberID: bob.String(), Amount: ptr[int64](5)}); err != nil {
		t.Fatalf("draft bob: %v", err)
	}
	if err := l.DeleteMember(ctx, ev.EventID, bob.String()); err != nil {
		t.Fatalf("delete draft: %v", err)
	}

	if _, err := l.Submit(ctx, ev.EventID, nil, []dto.ContributionEntry{{MemberID: alice.String(), Amount: 75}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	detail, _ := l.GetEvent(ctx, ev.EventID)
	if len(detail.Contributions) != 1 || detail.Contributions[0].Amount != 75 {
		t.Fatalf("contributions = %+v", detail.Contributions)
	}
}

func TestSubmitValidation(t *testing.T) {
	l, alice, _ := newLedger(t)
	ctx := context.Background()
	ev, _ := l.CreateEvent(ctx, dto.CreateEventRequest{Name: "April"})

	bad := [][]dto.ContributionEntry{
		nil,
		{{MemberID: "nope", Amount: 1}},
		{{MemberID: alice.String(), Amount: -1}},
		{{MemberID: alice.String(), Amount: 1}, {MemberID: alice.String(), Amount: 2}},
		{{MemberID: uuid.NewString(), Amount: 1}},
	}
	for i, entries := range bad {
		if _, err := l.Submit(ctx, ev.EventID, nil, entries); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d error = %v, want %v", i, err, ErrInvalidInput)
		}
	}
	if _, err := l.Submit(ctx, uuid.New(), nil, []dto.ContributionEntry{{MemberID: alice.String()}}); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("unknown event error = %v", err)
	}
	detail, _ := l.GetEvent(ctx, ev.EventID)
	if detail.Locked {
		t.Fatal("rejected submit locked the event")
	}
}

func TestLockIsIdempotentAndPatchStillWorks(t *testing.T) {
	l, _, _ := newLedger(t)
	ctx := context.Background()
	ev, _ := l.CreateEvent(ctx, dto.CreateEventRequest{Name: "May"})

	for i := 0; i < 2; i++ {
		got, err := l.Lock(ctx, ev.EventID, nil)
		if err != nil {
			t.Fatalf("lock %d: %v", i, err)
		}
		if !got.EventLocked {
			t.Fatalf("lock %d left event open", i)
		}
	}

	patched, err := l.PatchEvent(ctx, ev.EventID, dto.PatchEventRequest{Name: ptr("May (final)"), ExpectedTotal: ptr[int64](500)})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if patched.EventName != "May (final)" || patched.EventExpectedTotal != 500 || !patched.EventLocked {
		t.Fatalf("patched = %+v", patched)
	}
}

func TestDeleteEventClearsSeal(t *testing.T) {
	l, alice, _ := newLedger(t)
	ctx := context.Background()
	ev, _ := l.CreateEvent(ctx, dto.CreateEventRequest{Name: "June"})
	if _, err := l.Submit(ctx, ev.EventID, nil, []dto.ContributionEntry{{MemberID: alice.String(), Amount: 1}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := l.DeleteEvent(ctx, ev.EventID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if sealed, _ := l.seals.Sealed(l.DB, ev.EventID); sealed {
		t.Fatal("seal survived delete")
	}
	if err := l.DeleteEvent(ctx, ev.EventID); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("second delete error = %v", err)
	}
}

func TestSummaryAndHistory(t *testing.T) {
	l, alice, bob := newLedger(t)
	ctx := context.Background()

	jan, _ := l.CreateEvent(ctx, dto.CreateEventRequest{Name: "Jan", Date: ptr("2025-01-05"), ExpectedTotal: ptr[int64](100)})
	feb, _ := l.CreateEvent(ctx, dto.CreateEventRequest{Name: "Feb", Date: ptr("2025-02-02"), ExpectedTotal: ptr[int64](100)})
	internal, _ := l.CreateEvent(ctx, dto.CreateEventRequest{Name: model.InternalUsageEvent, Date: ptr("2025-02-03"), Type: "special"})

	if _, err := l.Submit(ctx, jan.EventID, nil, []dto.ContributionEntry{{MemberID: alice.String(), Amount: 40}, {MemberID: bob.String(), Amount: 30}}); err != nil {
		t.Fatalf("submit jan: %v", err)
	}
	if _, err := l.Submit(ctx, feb.EventID, nil, []dto.ContributionEntry{{MemberID: alice.String(), Amount: 60}}); err != nil {
		t.Fatalf("submit feb: %v", err)
	}
	if _, err := l.Submit(ctx, internal.EventID, nil, []dto.ContributionEntry{{MemberID: alice.String(), Amount: 5}}); err != nil {
		t.Fatalf("submit internal: %v", err)
	}

	sum, err := l.Summary(ctx, "", "MONTHLY")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Expected != 200 || sum.Current != 130 || sum.Remaining != 70 {
		t.Fatalf("summary = %+v", sum)
	}

	last, err := l.LastAmounts(ctx, "monthly")
	if err != nil {
		t.Fatalf("last amounts: %v", err)
	}
	if last[alice.String()] != 60 || last[bob.String()] != 30 {
		t.Fatalf("last amounts = %v", last)
	}

	hist, err := l.MemberContributions(ctx, bob)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("history has %d events, want 2 (internal hidden)", len(hist))
	}
	if hist[0].Name != "Feb" || hist[0].Amount != 0 || hist[1].Amount != 30 {
		t.Fatalf("history = %+v", hist)
	}
	if _, err := l.MemberContributions(ctx, uuid.New()); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("unknown member error = %v", err)
	}

	events, err := l.ListEvents(ctx)
	if err != nil || len(events) != 3 {
		t.Fatalf("list = %d events, %v", len(events), err)
	}
}
