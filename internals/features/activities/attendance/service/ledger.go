package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	activityModel "congregation_backend/internals/features/activities/activity/model"
	assignmentModel "congregation_backend/internals/features/activities/assignment/model"
	assignmentRepo "congregation_backend/internals/features/activities/assignment/repository"
	"congregation_backend/internals/features/activities/attendance/dto"
	"congregation_backend/internals/features/activities/attendance/model"
	memberModel "congregation_backend/internals/features/members/model"
	helper "congregation_backend/internals/helpers"
	helperAuth "congregation_backend/internals/helpers/auth"
	"congregation_backend/internals/helpers/dbtime"
	"congregation_backend/internals/helpers/writeonce"
)

const SealScope = "attendance"

// Ledger owns attendance rows. Every mutation re-reads the activity, its
// assignment and the clock before touching storage.
type Ledger struct {
	DB    *gorm.DB
	Clock dbtime.Clock
	Loc   *time.Location

	seals *writeonce.Ledger[model.AttendanceModel]
}

func NewLedger(db *gorm.DB, clock dbtime.Clock, loc *time.Location) *Ledger {
	if clock == nil {
		clock = dbtime.SystemClock
	}
	if loc == nil {
		loc = time.Local
	}
	return &Ledger{
		DB:    db,
		Clock: clock,
		Loc:   loc,
		seals: writeonce.New[model.AttendanceModel](db, SealScope),
	}
}

// Seals exposes the first-save marker store, used by activity deletion.
func (l *Ledger) Seals() *writeonce.Ledger[model.AttendanceModel] { return l.seals }

type ReadResult struct {
	Records []model.AttendanceModel
	Saved   bool
}

// Read returns the stored roster of activityID. Saved is true once any
// record exists.
func (l *Ledger) Read(ctx context.Context, activityID uuid.UUID) (ReadResult, error) {
	var rows []model.AttendanceModel
	if err := l.DB.WithContext(ctx).
		Where("attendance_activity_id = ?", activityID).
		Order("attendance_taken_at ASC, attendance_member_id ASC").
		Find(&rows).Error; err != nil {
		return ReadResult{}, err
	}
	return ReadResult{Records: rows, Saved: len(rows) > 0}, nil
}

// FirstSave creates the roster of activityID. It succeeds at most once per
// activity; the write-once seal and the rows are committed together.
func (l *Ledger) FirstSave(ctx context.Context, activityID uuid.UUID, caller *helperAuth.Caller, entries []dto.AttendeeRequest) (int, error) {
	now := l.Clock()

	act, asg, err := l.load(ctx, activityID)
	if err != nil {
		return 0, err
	}
	if !CanWrite(caller, activityID, asg) {
		return 0, ErrForbidden
	}

	saved, err := l.hasRecords(l.DB.WithContext(ctx), activityID)
	if err != nil {
		return 0, err
	}
	if saved {
		return 0, ErrAlreadySaved
	}

	if ev := Evaluate(scheduleOf(act), now, l.Loc); !ev.Open() {
		return 0, &LockedError{Evaluation: ev}
	}

	parsed, err := parseEntries(entries, false)
	if err != nil {
		return 0, err
	}
	if err := l.requireActiveMembers(ctx, parsed); err != nil {
		return 0, err
	}

	rows := make([]model.AttendanceModel, 0, len(parsed))
	for _, e := range parsed {
		rows = append(rows, model.AttendanceModel{
			AttendanceActivityID: activityID,
			AttendanceMemberID:   e.memberID,
			AttendanceStatus:     e.status,
			AttendanceTakenAt:    now,
		})
	}

	by := caller.ID
	n, err := l.seals.Commit(ctx, activityID, &by, now, rows, func(tx *gorm.DB) error {
		// rows written before seals existed count as a first-save too
		has, err := l.hasRecords(tx, activityID)
		if err != nil {
			return err
		}
		if has {
			return ErrAlreadySaved
		}
		return nil
	})
	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, writeonce.ErrAlreadySealed), errors.Is(err, ErrAlreadySaved), helper.IsUniqueViolation(err):
		return 0, ErrAlreadySaved
	default:
		return 0, err
	}
}

// Update rewrites statuses in place. Entries for members without a record are
// skipped; nothing is ever created here. It returns the number of rows touched.
func (l *Ledger) Update(ctx context.Context, activityID uuid.UUID, caller *helperAuth.Caller, entries []dto.AttendeeRequest) (int, error) {
	now := l.Clock()

	act, asg, err := l.load(ctx, activityID)
	if err != nil {
		return 0, err
	}
	if !CanWrite(caller, activityID, asg) {
		return 0, ErrForbidden
	}
	if ev := Evaluate(scheduleOf(act), now, l.Loc); !ev.Open() {
		return 0, &LockedError{Evaluation: ev}
	}

	if entries == nil {
		return 0, fmt.Errorf("%w: attendees is required", ErrInvalidInput)
	}
	parsed, err := parseEntries(entries, true)
	if err != nil {
		return 0, err
	}
	if len(parsed) == 0 {
		return 0, nil
	}

	var touched int64
	err = l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range parsed {
			res := tx.Model(&model.AttendanceModel{}).
				Where("attendance_activity_id = ? AND attendance_member_id = ?", activityID, e.memberID).
				Update("attendance_status", e.status)
			if res.Error != nil {
				return res.Error
			}
			touched += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(touched), nil
}

type WindowResult struct {
	Evaluation Evaluation
	CanWrite   bool
	Saved      bool
}

// Window reports the lock state as seen by caller. It is a hint for clients;
// FirstSave and Update evaluate again on their own.
func (l *Ledger) Window(ctx context.Context, activityID uuid.UUID, caller *helperAuth.Caller) (WindowResult, error) {
	now := l.Clock()

	act, asg, err := l.load(ctx, activityID)
	if err != nil {
		return WindowResult{}, err
	}
	saved, err := l.hasRecords(l.DB.WithContext(ctx), activityID)
	if err != nil {
		return WindowResult{}, err
	}
	return WindowResult{
		Evaluation: Evaluate(scheduleOf(act), now, l.Loc),
		CanWrite:   CanWrite(caller, activityID, asg),
		Saved:      saved,
	}, nil
}

func (l *Ledger) load(ctx context.Context, activityID uuid.UUID) (*activityModel.ActivityModel, *assignmentModel.ActivityAssignmentModel, error) {
	var act activityModel.ActivityModel
	err := l.DB.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Take(&act).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	asg, err := assignmentRepo.FindByActivity(ctx, l.DB, activityID)
	if err != nil {
		return nil, nil, err
	}
	return &act, asg, nil
}

func (l *Ledger) hasRecords(db *gorm.DB, activityID uuid.UUID) (bool, error) {
	var n int64
	err := db.Model(&model.AttendanceModel{}).
		Where("attendance_activity_id = ?", activityID).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}

func (l *Ledger) requireActiveMembers(ctx context.Context, entries []entry) error {
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.memberID)
	}
	var found []uuid.UUID
	if err := l.DB.WithContext(ctx).
		Model(&memberModel.MemberModel{}).
		Where("member_id IN ? AND member_is_active = ?", ids, true).
		Pluck("member_id", &found).Error; err != nil {
		return err
	}
	if len(found) == len(ids) {
		return nil
	}
	ok := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		ok[id] = struct{}{}
	}
	for _, id := range ids {
		if _, hit := ok[id]; !hit {
			return fmt.Errorf("%w: member %s is not an active member", ErrInvalidInput, id)
		}
	}
	return nil
}

func scheduleOf(a *activityModel.ActivityModel) Schedule {
	return Schedule{Date: a.ActivityDate, Time: a.ActivityTime}
}

type entry struct {
	memberID uuid.UUID
	status   model.AttendanceStatus
}

func parseEntries(in []dto.AttendeeRequest, allowEmpty bool) ([]entry, error) {
	if len(in) == 0 {
		if allowEmpty {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: attendees must not be empty", ErrInvalidInput)
	}
	out := make([]entry, 0, len(in))
	seen := make(map[uuid.UUID]struct{}, len(in))
	for i, a := range in {
		id, err := uuid.Parse(strings.TrimSpace(a.MemberID))
		if err != nil {
			return nil, fmt.Errorf("%w: attendees[%d].memberId is not a valid id", ErrInvalidInput, i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: member %s appears more than once", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
		st, err := model.ParseStatus(a.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: attendees[%d]: %v", ErrInvalidInput, i, err)
		}
		out = append(out, entry{memberID: id, status: st})
	}
	return out, nil
}
