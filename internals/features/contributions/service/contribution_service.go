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
	memberModel "congregation_backend/internals/features/members/model"
	"congregation_backend/internals/helpers/dbtime"
	"congregation_backend/internals/helpers/writeonce"
)

const SealScope = "contribution"

var (
	ErrEventNotFound  = errors.New("contribution event not found")
	ErrEventLocked    = errors.New("contribution event is locked")
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidInput   = errors.New("invalid contribution payload")
)

// Ledger records contributions per event. Submitting an event writes its
// rows and locks it in the same transaction; after that only metadata may
// change.
type Ledger struct {
	DB    *gorm.DB
	Clock dbtime.Clock

	seals *writeonce.Ledger[model.ContributionModel]
}

func NewLedger(db *gorm.DB, clock dbtime.Clock) *Ledger {
	if clock == nil {
		clock = dbtime.SystemClock
	}
	seals := writeonce.New[model.ContributionModel](db, SealScope)
	// drafts saved through UpsertMember are overwritten by the final submit
	seals.Conflict = &clause.OnConflict{
		Columns:   []clause.Column{{Name: "contribution_event_id"}, {Name: "contribution_member_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"contribution_amount", "contribution_note", "contribution_updated_at"}),
	}
	return &Ledger{DB: db, Clock: clock, seals: seals}
}

type eventTotals struct {
	EventID      uuid.UUID
	Actual       int64
	Contributors int64
}

func (l *Ledger) totals(db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]eventTotals, error) {
	out := make(map[uuid.UUID]eventTotals, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []eventTotals
	if err := db.Model(&model.ContributionModel{}).
		Select("contribution_event_id AS event_id, COALESCE(SUM(contribution_amount), 0) AS actual, COUNT(DISTINCT contribution_member_id) AS contributors").
		Where("contribution_event_id IN ?", ids).
		Group("contribution_event_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.EventID] = r
	}
	return out, nil
}

// ListEvents returns every event, newest first, with collected totals.
func (l *Ledger) ListEvents(ctx context.Context) ([]dto.EventSummaryResponse, error) {
	db := l.DB.WithContext(ctx)
	var events []model.ContributionEventModel
	if err := db.Order("event_date DESC, event_created_at DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.EventID)
	}
	totals, err := l.totals(db, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EventSummaryResponse, 0, len(events))
	for i := range events {
		t := totals[events[i].EventID]
		out = append(out, dto.NewEventSummary(&events[i], t.Actual, t.Contributors))
	}
	return out, nil
}

func (l *Ledger) CreateEvent(ctx context.Context, req dto.CreateEventRequest) (*model.ContributionEventModel, error) {
	ev := &model.ContributionEventModel{
		EventName: strings.TrimSpace(req.Name),
		EventType: normalizeType(req.Type),
	}
	if ev.EventName == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		d, err := dbtime.ParseDate(*req.Date, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
		ev.EventDate = d
	} else {
		ev.EventDate = dbtime.Today(l.Clock(), nil)
	}
	if req.ExpectedTotal != nil {
		ev.EventExpectedTotal = *req.ExpectedTotal
	}
	if err := l.DB.WithContext(ctx).Create(ev).Error; err != nil {
		return nil, err
	}
	return ev, nil
}

func (l *Ledger) findEvent(db *gorm.DB, id uuid.UUID, forUpdate bool) (*model.ContributionEventModel, error) {
	var ev model.ContributionEventModel
	q := db
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where("event_id = ?", id).Take(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// GetEvent returns the event with its contributions and totals.
func (l *Ledger) GetEvent(ctx context.Context, id uuid.UUID) (*dto.EventDetailResponse, error) {
	db := l.DB.WithContext(ctx)
	ev, err := l.findEvent(db, id, false)
	if err != nil {
		return nil, err
	}

	type row struct {
		model.ContributionModel
		MemberFullName string
	}
	var rows []row
	if err := db.Table("contributions AS c").
		Select("c.*, m.member_full_name").
		Joins("LEFT JOIN members AS m ON m.member_id = c.contribution_member_id").
		Where("c.contribution_event_id = ?", id).
		Order("m.member_full_name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	var actual int64
	contributors := make(map[uuid.UUID]struct{}, len(rows))
	items := make([]dto.ContributionResponse, 0, len(rows))
	for _, r := range rows {
		actual += r.ContributionAmount
		contributors[r.ContributionMemberID] = struct{}{}
		items = append(items, dto.ContributionResponse{
			ID:         r.ContributionID,
			MemberID:   r.ContributionMemberID,
			MemberName: r.MemberFullName,
			Amount:     r.ContributionAmount,
			Note:       r.ContributionNote,
			CreatedAt:  r.ContributionCreatedAt,
		})
	}

	out := &dto.EventDetailResponse{
		EventSummaryResponse: dto.NewEventSummary(ev, actual, int64(len(contributors))),
		Contributions:        items,
	}
	if seal, err := l.seals.SealedAt(db, id); err != nil {
		return nil, err
	} else if seal != nil {
		at := seal.SealSealedAt
		out.LockedAt = &at
	}
	return out, nil
}

// lockGuard flips the event's locked flag inside the commit transaction and
// refuses events that were locked before seals existed.
func (l *Ledger) lockGuard(id uuid.UUID) writeonce.Guard {
	return func(tx *gorm.DB) error {
		ev, err := l.findEvent(tx, id, true)
		if err != nil {
			return err
		}
		if ev.EventLocked {
			return ErrEventLocked
		}
		return tx.Model(&model.ContributionEventModel{}).
			Where("event_id = ?", id).
			Update("event_locked", true).Error
	}
}

// Submit writes the final contributions of an event and locks it. It can
// succeed once per event.
func (l *Ledger) Submit(ctx context.Context, id uuid.UUID, by *uuid.UUID, entries []dto.ContributionEntry) (int, error) {
	if len(entries) == 0 {
		return 0, fmt.Errorf("%w: no contributions provided", ErrInvalidInput)
	}
	rows := make([]model.ContributionModel, 0, len(entries))
	seen := make(map[uuid.UUID]struct{}, len(entries))
	for i, e := range entries {
		mid, err := uuid.Parse(strings.TrimSpace(e.MemberID))
		if err != nil {
			return 0, fmt.Errorf("%w: contributions[%d].memberId is not a valid id", ErrInvalidInput, i)
		}
		if _, dup := seen[mid]; dup {
			return 0, fmt.Errorf("%w: member %s appears more than once", ErrInvalidInput, mid)
		}
		seen[mid] = struct{}{}
		if e.Amount < 0 {
			return 0, fmt.Errorf("%w: contributions[%d].amount must not be negative", ErrInvalidInput, i)
		}
		rows = append(rows, model.ContributionModel{
			ContributionEventID:  id,
			ContributionMemberID: mid,
			ContributionAmount:   e.Amount,
			ContributionNote:     trimNote(e.Note),
		})
	}

	db := l.DB.WithContext(ctx)
	if _, err := l.findEvent(db, id, false); err != nil {
		return 0, err
	}
	ids := make([]uuid.UUID, 0, len(seen))
	for mid := range seen {
		ids = append(ids, mid)
	}
	var known int64
	if err := db.Model(&memberModel.MemberModel{}).Where("member_id IN ?", ids).Count(&known).Error; err != nil {
		return 0, err
	}
	if int(known) != len(ids) {
		return 0, fmt.Errorf("%w: unknown member in contributions", ErrInvalidInput)
	}

	n, err := l.seals.Commit(ctx, id, by, l.Clock(), rows, l.lockGuard(id))
	if errors.Is(err, writeonce.ErrAlreadySealed) {
		return 0, ErrEventLocked
	}
	return n, err
}

// Lock seals an event without writing rows. Locking a locked event is a no-op.
func (l *Ledger) Lock(ctx context.Context, id uuid.UUID, by *uuid.UUID) (*model.ContributionEventModel, error) {
	_, err := l.seals.Commit(ctx, id, by, l.Clock(), nil, l.lockGuard(id))
	switch {
	case err == nil, errors.Is(err, writeonce.ErrAlreadySealed), errors.Is(err, ErrEventLocked):
	default:
		return nil, err
	}
	return l.findEvent(l.DB.WithContext(ctx), id, false)
}

// PatchEvent edits metadata. Locked events accept it too; amounts stay frozen.
func (l *Ledger) PatchEvent(ctx context.Context, id uuid.UUID, req dto.PatchEventRequest) (*model.ContributionEventModel, error) {
	db := l.DB.WithContext(ctx)
	ev, err := l.findEvent(db, id, false)
	if err != nil {
		return nil, err
	}
	up := map[string]any{}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		up["event_name"] = strings.TrimSpace(*req.Name)
	}
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		d, err := dbtime.ParseDate(*req.Date, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
		up["event_date"] = d
	}
	if req.Type != nil && strings.TrimSpace(*req.Type) != "" {
		up["event_type"] = normalizeType(*req.Type)
	}
	if req.ExpectedTotal != nil {
		up["event_expected_total"] = *req.ExpectedTotal
	}
	if len(up) == 0 {
		return ev, nil
	}
	if err := db.Model(ev).Updates(up).Error; err != nil {
		return nil, err
	}
	return l.findEvent(db, id, false)
}

// DeleteEvent removes the event with its contributions, expenses and seal.
func (l *Ledger) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("event_id = ?", id).Delete(&model.ContributionEventModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEventNotFound
		}
		if err := tx.Where("contribution_event_id = ?", id).Delete(&model.ContributionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("expense_event_id = ?", id).Delete(&model.ExpenseModel{}).Error; err != nil {
			return err
		}
		return l.seals.Forget(tx, id)
	})
}

// openEventTx runs fn in a transaction holding the event row, failing with
// ErrEventLocked once the event is sealed.
func (l *Ledger) openEventTx(ctx context.Context, id uuid.UUID, fn func(tx *gorm.DB) error) error {
	return l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := l.findEvent(tx, id, true)
		if err != nil {
			return err
		}
		if ev.EventLocked {
			return ErrEventLocked
		}
		sealed, err := l.seals.Sealed(tx, id)
		if err != nil {
			return err
		}
		if sealed {
			return ErrEventLocked
		}
		return fn(tx)
	})
}

// UpsertMember saves a draft amount for one member of an open event.
func (l *Ledger) UpsertMember(ctx context.Context, id uuid.UUID, req dto.MemberDraftRequest) (*model.ContributionModel, error) {
	mid, err := uuid.Parse(strings.TrimSpace(req.MemberID))
	if err != nil {
		return nil, fmt.Errorf("%w: memberId is not a valid id", ErrInvalidInput)
	}
	var out model.ContributionModel
	err = l.openEventTx(ctx, id, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&memberModel.MemberModel{}).Where("member_id = ?", mid).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrMemberNotFound
		}

		err := tx.Where("contribution_event_id = ? AND contribution_member_id = ?", id, mid).Take(&out).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			out = model.ContributionModel{
				ContributionEventID:  id,
				ContributionMemberID: mid,
				ContributionNote:     trimNote(req.Note),
			}
			if req.Amount != nil {
				out.ContributionAmount = *req.Amount
			}
			return tx.Create(&out).Error
		case err != nil:
			return err
		}

		up := map[string]any{}
		if req.Amount != nil {
			up["contribution_amount"] = *req.Amount
			out.ContributionAmount = *req.Amount
		}
		if req.Note != nil {
			out.ContributionNote = trimNote(req.Note)
			up["contribution_note"] = out.ContributionNote
		}
		if len(up) == 0 {
			return nil
		}
		return tx.Model(&out).Updates(up).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMember removes a member's draft from an open event. Missing drafts
// are not an error.
func (l *Ledger) DeleteMember(ctx context.Context, id uuid.UUID, memberID string) error {
	mid, err := uuid.Parse(strings.TrimSpace(memberID))
	if err != nil {
		return fmt.Errorf("%w: memberId is not a valid id", ErrInvalidInput)
	}
	return l.openEventTx(ctx, id, func(tx *gorm.DB) error {
		return tx.Where("contribution_event_id = ? AND contribution_member_id = ?", id, mid).
			Delete(&model.ContributionModel{}).Error
	})
}

// Summary totals the events matching name and/or type.
func (l *Ledger) Summary(ctx context.Context, name, typ string) (dto.TotalsResponse, error) {
	db := l.DB.WithContext(ctx)
	events := db.Model(&model.ContributionEventModel{})
	if s := strings.TrimSpace(name); s != "" {
		events = events.Where("event_name = ?", s)
	}
	if s := strings.TrimSpace(typ); s != "" {
		events = events.Where("event_type = ?", normalizeType(s))
	}

	var expected int64
	if err := events.Session(&gorm.Session{}).
		Select("COALESCE(SUM(event_expected_total), 0)").
		Scan(&expected).Error; err != nil {
		return dto.TotalsResponse{}, err
	}
	var current int64
	if err := db.Model(&model.ContributionModel{}).
		Select("COALESCE(SUM(contribution_amount), 0)").
		Where("contribution_event_id IN (?)", events.Session(&gorm.Session{}).Select("event_id")).
		Scan(&current).Error; err != nil {
		return dto.TotalsResponse{}, err
	}
	return dto.TotalsResponse{Expected: expected, Current: current, Remaining: expected - current}, nil
}

// LastAmounts maps each member to their most recent contribution amount for
// events of typ. Used to prefill the next round.
func (l *Ledger) LastAmounts(ctx context.Context, typ string) (map[string]int64, error) {
	out := map[string]int64{}
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return out, nil
	}
	var rows []model.ContributionModel
	if err := l.DB.WithContext(ctx).
		Table("contributions AS c").
		Select("c.*").
		Joins("JOIN contribution_events AS e ON e.event_id = c.contribution_event_id").
		Where("e.event_type = ?", normalizeType(typ)).
		Order("e.event_date DESC, c.contribution_created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		key := r.ContributionMemberID.String()
		if _, ok := out[key]; !ok {
			out[key] = r.ContributionAmount
		}
	}
	return out, nil
}

// MemberContributions lists every event with the member's amount (0 when the
// member gave nothing).
func (l *Ledger) MemberContributions(ctx context.Context, memberID uuid.UUID) ([]dto.MemberContributionResponse, error) {
	db := l.DB.WithContext(ctx)
	var n int64
	if err := db.Model(&memberModel.MemberModel{}).Where("member_id = ?", memberID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrMemberNotFound
	}

	var events []model.ContributionEventModel
	if err := db.Where("event_name <> ?", model.InternalUsageEvent).
		Order("event_date DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	var mine []model.ContributionModel
	if err := db.Where("contribution_member_id = ?", memberID).Find(&mine).Error; err != nil {
		return nil, err
	}
	amounts := make(map[uuid.UUID]int64, len(mine))
	for _, c := range mine {
		amounts[c.ContributionEventID] = c.ContributionAmount
	}

	out := make([]dto.MemberContributionResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.MemberContributionResponse{
			EventID: e.EventID,
			Name:    e.EventName,
			Type:    e.EventType,
			Date:    e.EventDate,
			Amount:  amounts[e.EventID],
		})
	}
	return out, nil
}

func normalizeType(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return model.EventTypeMonthly
	}
	return s
}

func trimNote(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
