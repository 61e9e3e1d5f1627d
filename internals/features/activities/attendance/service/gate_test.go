package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"congregation_backend/internals/constants"
	assignmentModel "congregation_backend/internals/features/activities/assignment/model"
	helperAuth "congregation_backend/internals/helpers/auth"
)

func TestCanWrite(t *testing.T) {
	activity := uuid.New()
	other := uuid.New()
	leader := uuid.New()
	otherLeader := uuid.New()

	assigned := &assignmentModel.ActivityAssignmentModel{
		AssignmentActivityID: activity,
		AssignmentLeaderID:   leader,
		AssignmentAssignedAt: time.Now(),
	}

	tests := []struct {
		name       string
		caller     *helperAuth.Caller
		activityID uuid.UUID
		assignment *assignmentModel.ActivityAssignmentModel
		want       bool
	}{
		{"anonymous", nil, activity, assigned, false},
		{"admin without assignment", &helperAuth.Caller{ID: uuid.New(), Role: constants.RoleAdmin}, activity, nil, true},
		{"admin with assignment", &helperAuth.Caller{ID: uuid.New(), Role: constants.RoleAdmin}, activity, assigned, true},
		{"assigned leader", &helperAuth.Caller{ID: leader, Role: constants.RoleLeader}, activity, assigned, true},
		{"other leader", &helperAuth.Caller{ID: otherLeader, Role: constants.RoleLeader}, activity, assigned, false},
		{"leader same name different id", &helperAuth.Caller{ID: otherLeader, Role: constants.RoleLeader, FullName: "Worship Leader"}, activity, assigned, false},
		{"leader without assignment", &helperAuth.Caller{ID: leader, Role: constants.RoleLeader}, activity, nil, false},
		{"assignment for another activity", &helperAuth.Caller{ID: leader, Role: constants.RoleLeader}, other, assigned, false},
		{"member", &helperAuth.Caller{ID: leader, Role: constants.RoleMember}, activity, assigned, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanWrite(tt.caller, tt.activityID, tt.assignment); got != tt.want {
				t.Fatalf("CanWrite = %v, want %v", got, tt.want)
			}
		})
	}
}
