package service

import (
	"github.com/google/uuid"

	"congregation_backend/internals/constants"
	assignmentModel "congregation_backend/internals/features/activities/assignment/model"
	helperAuth "congregation_backend/internals/helpers/auth"
)

// CanWrite decides whether caller may take attendance for activityID.
// Leaders are matched by member id against the activity's assignment only.
func CanWrite(caller *helperAuth.Caller, activityID uuid.UUID, assignment *assignmentModel.ActivityAssignmentModel) bool {
	if caller == nil {
		return false
	}
	switch caller.Role {
	case constants.RoleAdmin:
		return true
	case constants.RoleLeader:
		return assignment != nil &&
			assignment.AssignmentActivityID == activityID &&
			assignment.AssignmentLeaderID == caller.ID
	default:
		return false
	}
}
