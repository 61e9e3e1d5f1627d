package dto

import (
	"time"

	"github.com/google/uuid"

	"congregation_backend/internals/features/activities/attendance/model"
)

type AttendeeRequest struct {
	MemberID string `json:"memberId"`
	Status   string `json:"status"`
}

// SaveAttendanceRequest is the body of both first-save (POST) and update (PUT).
// A nil Attendees means the field was missing.
type SaveAttendanceRequest struct {
	Attendees []AttendeeRequest `json:"attendees"`
}

type AttendanceRecordResponse struct {
	ID         uuid.UUID              `json:"id"`
	ActivityID uuid.UUID              `json:"activityId"`
	MemberID   uuid.UUID              `json:"memberId"`
	Status     model.AttendanceStatus `json:"status"`
	TakenAt    time.Time              `json:"takenAt"`
}

func NewAttendanceRecordResponse(m model.AttendanceModel) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		ID:         m.AttendanceID,
		ActivityID: m.AttendanceActivityID,
		MemberID:   m.AttendanceMemberID,
		Status:     m.AttendanceStatus,
		TakenAt:    m.AttendanceTakenAt,
	}
}

func NewAttendanceRecordResponses(rows []model.AttendanceModel) []AttendanceRecordResponse {
	out := make([]AttendanceRecordResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewAttendanceRecordResponse(r))
	}
	return out
}

type AttendanceListResponse struct {
	Attendance []AttendanceRecordResponse `json:"attendance"`
	Saved      bool                       `json:"saved"`
}

type FirstSaveResponse struct {
	Count int  `json:"count"`
	Saved bool `json:"saved"`
}

type UpdateResponse struct {
	Updated bool `json:"updated"`
	Count   int  `json:"count"`
}

type WindowResponse struct {
	State    string     `json:"state"`
	Reason   string     `json:"reason,omitempty"`
	OpensAt  *time.Time `json:"opensAt,omitempty"`
	LocksAt  *time.Time `json:"locksAt,omitempty"`
	CanWrite bool       `json:"canWrite"`
	Saved    bool       `json:"saved"`
}
