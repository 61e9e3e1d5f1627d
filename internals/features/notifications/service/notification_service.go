package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	memberModel "congregation_backend/internals/features/members/model"
	"congregation_backend/internals/features/notifications/model"
	"congregation_backend/internals/helpers/dbtime"
)

const (
	defaultListLimit = 200
	maxLeadDays      = 366
)

type Notifier struct {
	DB    *gorm.DB
	Clock dbtime.Clock
	Loc   *time.Location
}

func NewNotifier(db *gorm.DB, clock dbtime.Clock, loc *time.Location) *Notifier {
	if clock == nil {
		clock = dbtime.SystemClock
	}
	if loc == nil {
		loc = time.Local
	}
	return &Notifier{DB: db, Clock: clock, Loc: loc}
}

type RegistrationRequest struct {
	Phone    string  `json:"phone" validate:"required,max=32"`
	FullName *string `json:"fullName" validate:"omitempty,max=150"`
	Note     *string `json:"note" validate:"omitempty,max=500"`
}

type registrationPayload struct {
	Phone    string  `json:"phone"`
	FullName *string `json:"fullName"`
	Note     *string `json:"note"`
}

type birthdayPayload struct {
	MemberID  uuid.UUID   `json:"memberId"`
	FullName  string      `json:"fullName"`
	BirthDate dbtime.Date `json:"birthDate"`
	Date      dbtime.Date `json:"date"`
	LeadDays  int         `json:"leadDays"`
}

func (n *Notifier) entry(typ string, key *string, payload any) (*model.NotificationModel, error) {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", typ, err)
	}
	return &model.NotificationModel{
		NotificationType:      typ,
		NotificationDedupeKey: key,
		NotificationPayload:   datatypes.JSON(raw),
		NotificationCreatedAt: n.Clock().UTC(),
	}, nil
}

// List returns the newest entries first.
func (n *Notifier) List(ctx context.Context, limit int) ([]model.NotificationModel, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	out := []model.NotificationModel{}
	err := n.DB.WithContext(ctx).
		Order("notification_created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// RequestRegistration posts a "please give me access" note from someone who
// cannot log in yet.
func (n *Notifier) RequestRegistration(ctx context.Context, req RegistrationRequest) (*model.NotificationModel, error) {
	e, err := n.entry(model.TypeRegistrationRequest, nil, registrationPayload{
		Phone:    strings.TrimSpace(req.Phone),
		FullName: trimmed(req.FullName),
		Note:     trimmed(req.Note),
	})
	if err != nil {
		return nil, err
	}
	if err := n.DB.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// Birthdays posts one entry per active member whose birthday falls leadDays
// after today. Members already notified for that date are skipped, so the
// returned count only covers new entries.
func (n *Notifier) Birthdays(ctx context.Context, leadDays int) (int, error) {
	if leadDays < 0 {
		leadDays = 0
	}
	if leadDays > maxLeadDays {
		leadDays = maxLeadDays
	}
	target := dbtime.Today(n.Clock(), n.Loc).AddDays(leadDays)

	db := n.DB.WithContext(ctx)
	var members []memberModel.MemberModel
	if err := db.Where("member_is_active = ? AND member_birth_date IS NOT NULL", true).
		Find(&members).Error; err != nil {
		return 0, err
	}

	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, m := range members {
			if !BirthdayOn(m.MemberBirthDate, target) {
				continue
			}
			key := fmt.Sprintf("%s:%s:%s", model.TypeBirthday, m.MemberID, target)
			e, err := n.entry(model.TypeBirthday, &key, birthdayPayload{
				MemberID:  m.MemberID,
				FullName:  m.MemberFullName,
				BirthDate: m.MemberBirthDate,
				Date:      target,
				LeadDays:  leadDays,
			})
			if err != nil {
				return err
			}
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "notification_dedupe_key"}},
				DoNothing: true,
			}).Create(e)
			if res.Error != nil {
				return res.Error
			}
			created += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// BirthdayOn reports whether someone born on birth celebrates on day.
// February 29 birthdays fall on February 28 in common years.
func BirthdayOn(birth, day dbtime.Date) bool {
	if birth.IsZero() {
		return false
	}
	if birth.Month == day.Month && birth.Day == day.Day {
		return true
	}
	return birth.Month == time.February && birth.Day == 29 &&
		day.Month == time.February && day.Day == 28 && !isLeap(day.Year)
}

func isLeap(year int) bool {
	return time.Date(year, time.February, 29, 0, 0, 0, 0, time.UTC).Month() == time.February
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
