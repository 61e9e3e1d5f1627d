package model

import (
	"time"

	"github.com/google/uuid"
)

// ActivityAssignmentModel maps an activity to the one leader allowed to take
// its attendance. No row means no leader is assigned.
type ActivityAssignmentModel struct {
	AssignmentActivityID uuid.UUID  `gorm:"type:uuid;primaryKey;column:assignment_activity_id" json:"activityId"`
	AssignmentLeaderID   uuid.UUID  `gorm:"type:uuid;not null;index;column:assignment_leader_id" json:"leaderId"`
	AssignmentAssignedBy *uuid.UUID `gorm:"type:uuid;column:assignment_assigned_by" json:"assignedBy,omitempty"`
	AssignmentAssignedAt time.Time  `gorm:"not null;column:assignment_assigned_at" json:"assignedAt"`
}

func (ActivityAssignmentModel) TableName() string { return "activity_assignments" }
