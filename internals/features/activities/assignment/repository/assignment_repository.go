package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"congregation_backend/internals/features/activities/assignment/model"
)

// FindByActivity returns the assignment for activityID, or nil when no
// leader is assigned.
func FindByActivity(ctx context.Context, db *gorm.DB, activityID uuid.UUID) (*model.ActivityAssignmentModel, error) {
	var a model.ActivityAssignmentModel
	err := db.WithContext(ctx).
		Where("assignment_activity_id = ?", activityID).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByActivities loads assignments for several activities keyed by activity.
func FindByActivities(ctx context.Context, db *gorm.DB, activityIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	out := make(map[uuid.UUID]uuid.UUID, len(activityIDs))
	if len(activityIDs) == 0 {
		return out, nil
	}
	var rows []model.ActivityAssignmentModel
	if err := db.WithContext(ctx).
		Where("assignment_activity_id IN ?", activityIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.AssignmentActivityID] = r.AssignmentLeaderID
	}
	return out, nil
}

// Upsert overwrites the leader of activityID.
func Upsert(ctx context.Context, db *gorm.DB, activityID, leaderID uuid.UUID, by *uuid.UUID, at time.Time) (*model.ActivityAssignmentModel, error) {
	row := model.ActivityAssignmentModel{
		AssignmentActivityID: activityID,
		AssignmentLeaderID:   leaderID,
		AssignmentAssignedBy: by,
		AssignmentAssignedAt: at,
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "assignment_activity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"assignment_leader_id",
			"assignment_assigned_by",
			"assignment_assigned_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Clear removes the assignment of activityID. Clearing an unassigned
// activity is not an error.
func Clear(ctx context.Context, db *gorm.DB, activityID uuid.UUID) error {
	return db.WithContext(ctx).
		Where("assignment_activity_id = ?", activityID).
		Delete(&model.ActivityAssignmentModel{}).Error
}
