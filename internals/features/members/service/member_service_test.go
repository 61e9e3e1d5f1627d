package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"congregation_backend/internals/constants"
	attendanceModel "congregation_backend/internals/features/activities/attendance/model"
	"congregation_backend/internals/testsupport"
)

func TestAttendanceHistoryReadsLegacyStatuses(t *testing.T) {
	db := testsupport.OpenDB(t)
	ctx := context.Background()
	m := testsupport.CreateMember(t, db, "Sam", constants.RoleMember)
	older := testsupport.CreateActivity(t, db, "Rehearsal", "2025-01-05", "18:00")
	newer := testsupport.CreateActivity(t, db, "Service", "2025-02-02", "")

	insert := func(activityID uuid.UUID, status string) {
		t.Helper()
		err := db.Exec(`INSERT INTO attendances (attendance_id, attendance_activity_id, attendance_member_id, attendance_status, attendance_taken_at)
			VALUES (?, ?, ?, ?, ?)`, uuid.New(), activityID, m.MemberID, status, time.Date(2025, 1, 5, 18, 30, 0, 0, time.UTC)).Error
		if err != nil {
			t.Fatalf("insert attendance: %v", err)
		}
	}
	insert(older.ActivityID, "late")
	insert(newer.ActivityID, "Excused")

	got, err := AttendanceHistory(ctx, db, m.MemberID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("history has %d rows, want 2", len(got))
	}
	if got[0].ActivityName != "Service" || got[0].Status != attendanceModel.StatusExcused {
		t.Fatalf("newest = %+v", got[0])
	}
	if got[1].Status != attendanceModel.StatusAbsent {
		t.Fatalf("legacy status decoded to %q, want %q", got[1].Status, attendanceModel.StatusAbsent)
	}
}

func TestListAndDeactivate(t *testing.T) {
	db := testsupport.OpenDB(t)
	ctx := context.Background()
	testsupport.CreateMember(t, db, "Zoe", constants.RoleMember)
	bob := testsupport.CreateMember(t, db, "Bob", constants.RoleLeader)

	if err := Deactivate(ctx, db, bob.MemberID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := Deactivate(ctx, db, uuid.New()); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("deactivate unknown = %v, want %v", err, ErrMemberNotFound)
	}

	rows, total, err := List(ctx, db, ListFilter{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].MemberFullName != "Zoe" {
		t.Fatalf("active list = %d %+v", total, rows)
	}

	rows, total, err = List(ctx, db, ListFilter{IncludeInactive: true, Limit: 10})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if total != 2 || rows[0].MemberFullName != "Bob" {
		t.Fatalf("full list = %d %+v", total, rows)
	}

	rows, _, _ = List(ctx, db, ListFilter{Query: "zo", Limit: 10})
	if len(rows) != 1 {
		t.Fatalf("search returned %d rows", len(rows))
	}

	m, err := FindByID(ctx, db, bob.MemberID)
	if err != nil || m.MemberIsActive {
		t.Fatalf("deactivated member = %+v, %v", m, err)
	}
}
