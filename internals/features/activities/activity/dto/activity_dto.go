package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"congregation_backend/internals/features/activities/activity/model"
	"congregation_backend/internals/helpers/dbtime"
)

type CreateActivityRequest struct {
	Name     string  `json:"name" validate:"required,max=150"`
	Date     string  `json:"date" validate:"required"`
	Time     *string `json:"time" validate:"omitempty"`
	Location *string `json:"location" validate:"omitempty,max=255"`
}

// ToModel parses date and time as civil values in loc.
func (r CreateActivityRequest) ToModel(loc *time.Location) (*model.ActivityModel, error) {
	d, err := dbtime.ParseDate(r.Date, loc)
	if err != nil {
		return nil, err
	}
	m := &model.ActivityModel{
		ActivityName:     strings.TrimSpace(r.Name),
		ActivityDate:     d,
		ActivityLocation: trimPtr(r.Location),
	}
	if r.Time != nil && strings.TrimSpace(*r.Time) != "" {
		t, err := dbtime.ParseTod(*r.Time)
		if err != nil {
			return nil, err
		}
		m.ActivityTime = &t
	}
	return m, nil
}

// UpdateActivityRequest is a partial update. An empty time string clears the
// scheduled time.
type UpdateActivityRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=150"`
	Date     *string `json:"date"`
	Time     *string `json:"time"`
	Location *string `json:"location" validate:"omitempty,max=255"`
}

// Apply copies the present fields onto m and returns the changed columns.
func (r UpdateActivityRequest) Apply(m *model.ActivityModel, loc *time.Location) (map[string]any, error) {
	up := map[string]any{}
	if r.Name != nil {
		m.ActivityName = strings.TrimSpace(*r.Name)
		up["activity_name"] = m.ActivityName
	}
	if r.Date != nil {
		d, err := dbtime.ParseDate(*r.Date, loc)
		if err != nil {
			return nil, err
		}
		m.ActivityDate = d
		up["activity_date"] = d
	}
	if r.Time != nil {
		if strings.TrimSpace(*r.Time) == "" {
			m.ActivityTime = nil
			up["activity_time"] = nil
		} else {
			t, err := dbtime.ParseTod(*r.Time)
			if err != nil {
				return nil, err
			}
			m.ActivityTime = &t
			up["activity_time"] = t
		}
	}
	if r.Location != nil {
		m.ActivityLocation = trimPtr(r.Location)
		up["activity_location"] = m.ActivityLocation
	}
	return up, nil
}

// AssignRequest names the leader for an activity; null clears it.
type AssignRequest struct {
	AttendanceBy *string `json:"attendanceBy"`
}

type ActivityResponse struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Date         dbtime.Date `json:"date"`
	Time         *dbtime.Tod `json:"time"`
	Location     *string     `json:"location,omitempty"`
	AttendanceBy *uuid.UUID  `json:"attendanceBy"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func NewActivityResponse(m *model.ActivityModel, leaderID *uuid.UUID) ActivityResponse {
	return ActivityResponse{
		ID:           m.ActivityID,
		Name:         m.ActivityName,
		Date:         m.ActivityDate,
		Time:         m.ActivityTime,
		Location:     m.ActivityLocation,
		AttendanceBy: leaderID,
		CreatedAt:    m.ActivityCreatedAt,
		UpdatedAt:    m.ActivityUpdatedAt,
	}
}

type AssignmentResponse struct {
	AssignedLeaderID *uuid.UUID `json:"assignedLeaderId"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
