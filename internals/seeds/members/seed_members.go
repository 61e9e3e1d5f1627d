package members

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"congregation_backend/internals/constants"
	activityModel "congregation_backend/internals/features/activities/activity/model"
	assignmentModel "congregation_backend/internals/features/activities/assignment/model"
	"congregation_backend/internals/features/members/model"
	authHelper "congregation_backend/internals/features/users/auth/helper"
	"congregation_backend/internals/helpers/dbtime"
)

type MemberSeed struct {
	FullName string `yaml:"fullName"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Role     string `yaml:"role"`
	Password string `yaml:"password"`
}

type ActivitySeed struct {
	Name        string `yaml:"name"`
	Date        string `yaml:"date"`
	Time        string `yaml:"time"`
	Location    string `yaml:"location"`
	LeaderEmail string `yaml:"leaderEmail"`
}

// SeedMembers upserts by email and returns email -> member id.
// Existing members keep their password unless the seed sets one.
func SeedMembers(db *gorm.DB, in []MemberSeed) (map[string]uuid.UUID, error) {
	out := make(map[string]uuid.UUID, len(in))
	for _, s := range in {
		email := strings.ToLower(strings.TrimSpace(s.Email))
		if email == "" || strings.TrimSpace(s.FullName) == "" {
			return nil, fmt.Errorf("member seed needs fullName and email: %+v", s)
		}
		role := constants.RoleMember
		if s.Role != "" {
			if !constants.IsKnownRole(s.Role) {
				return nil, fmt.Errorf("member %s: unknown role %q", email, s.Role)
			}
			role = constants.ParseRole(s.Role)
		}

		var existing model.MemberModel
		err := db.Where("member_email = ?", email).First(&existing).Error
		switch {
		case err == nil:
			up := map[string]any{"member_full_name": strings.TrimSpace(s.FullName), "member_role": role, "member_is_active": true}
			if s.Password != "" {
				hash, err := authHelper.HashPassword(s.Password)
				if err != nil {
					return nil, err
				}
				up["member_password_hash"] = hash
			}
			if err := db.Model(&existing).Updates(up).Error; err != nil {
				return nil, fmt.Errorf("update member %s: %w", email, err)
			}
			out[email] = existing.MemberID
			log.Printf("[INFO] member %s updated", email)
		case err == gorm.ErrRecordNotFound:
			m := model.MemberModel{
				MemberFullName: strings.TrimSpace(s.FullName),
				MemberEmail:    &email,
				MemberRole:     role,
				MemberIsActive: true,
			}
			if p := strings.TrimSpace(s.Phone); p != "" {
				m.MemberPhone = &p
			}
			if s.Password != "" {
				hash, err := authHelper.HashPassword(s.Password)
				if err != nil {
					return nil, err
				}
				m.MemberPasswordHash = &hash
			}
			if err := db.Create(&m).Error; err != nil {
				return nil, fmt.Errorf("insert member %s: %w", email, err)
			}
			out[email] = m.MemberID
			log.Printf("[INFO] member %s inserted", email)
		default:
			return nil, err
		}
	}
	return out, nil
}

// SeedActivities inserts activities that don't exist yet (same name and date)
// and assigns the named leader.
func SeedActivities(db *gorm.DB, in []ActivitySeed, byEmail map[string]uuid.UUID) error {
	for _, s := range in {
		date, err := dbtime.ParseDate(s.Date, nil)
		if err != nil {
			return fmt.Errorf("activity %q: %w", s.Name, err)
		}
		a := activityModel.ActivityModel{ActivityName: strings.TrimSpace(s.Name), ActivityDate: date}
		if s.Time != "" {
			tod, err := dbtime.ParseTod(s.Time)
			if err != nil {
				return fmt.Errorf("activity %q: %w", s.Name, err)
			}
			a.ActivityTime = &tod
		}
		if loc := strings.TrimSpace(s.Location); loc != "" {
			a.ActivityLocation = &loc
		}

		var existing activityModel.ActivityModel
		err = db.Where("activity_name = ? AND activity_date = ?", a.ActivityName, date).First(&existing).Error
		switch {
		case err == nil:
			a = existing
		case err == gorm.ErrRecordNotFound:
			if err := db.Create(&a).Error; err != nil {
				return fmt.Errorf("insert activity %q: %w", s.Name, err)
			}
			log.Printf("[INFO] activity %q on %s inserted", a.ActivityName, date)
		default:
			return err
		}

		if s.LeaderEmail == "" {
			continue
		}
		leader, ok := byEmail[strings.ToLower(strings.TrimSpace(s.LeaderEmail))]
		if !ok {
			return fmt.Errorf("activity %q: leader %s is not in the member seed", s.Name, s.LeaderEmail)
		}
		row := assignmentModel.ActivityAssignmentModel{
			AssignmentActivityID: a.ActivityID,
			AssignmentLeaderID:   leader,
			AssignmentAssignedAt: time.Now(),
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "assignment_activity_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"assignment_leader_id", "assignment_assigned_at"}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("assign leader for %q: %w", s.Name, err)
		}
	}
	return nil
}
