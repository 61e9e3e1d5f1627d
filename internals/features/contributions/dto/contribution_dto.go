package dto

import (
	"time"

	"github.com/google/uuid"

	"congregation_backend/internals/features/contributions/model"
	"congregation_backend/internals/helpers/dbtime"
)

type CreateEventRequest struct {
	Name          string  `json:"name" validate:"required,max=150"`
	Date          *string `json:"date"`
	Type          string  `json:"type" validate:"omitempty,max=32"`
	ExpectedTotal *int64  `json:"expectedTotal" validate:"omitempty,min=0"`
}

// PatchEventRequest edits event metadata; allowed on locked events.
type PatchEventRequest struct {
	Name          *string `json:"name" validate:"omitempty,max=150"`
	Date          *string `json:"date"`
	Type          *string `json:"type" validate:"omitempty,max=32"`
	ExpectedTotal *int64  `json:"expectedTotal" validate:"omitempty,min=0"`
}

type ContributionEntry struct {
	MemberID string  `json:"memberId" validate:"required,uuid"`
	Amount   int64   `json:"amount" validate:"min=0"`
	Note     *string `json:"note" validate:"omitempty,max=500"`
}

type SubmitRequest struct {
	Contributions []ContributionEntry `json:"contributions" validate:"required,min=1,dive"`
}

// MemberDraftRequest upserts one member's amount before the event is locked.
// A nil Amount keeps the stored amount.
type MemberDraftRequest struct {
	MemberID string  `json:"memberId" validate:"required,uuid"`
	Amount   *int64  `json:"amount" validate:"omitempty,min=0"`
	Note     *string `json:"note" validate:"omitempty,max=500"`
}

type MemberRefRequest struct {
	MemberID string `json:"memberId" validate:"required,uuid"`
}

type EventSummaryResponse struct {
	ID                uuid.UUID   `json:"id"`
	Name              string      `json:"name"`
	Date              dbtime.Date `json:"date"`
	Type              string      `json:"type"`
	Locked            bool        `json:"locked"`
	ExpectedTotal     int64       `json:"expectedTotal"`
	ActualTotal       int64       `json:"actualTotal"`
	AmountSpent       int64       `json:"amountSpent"`
	TotalContributors int64       `json:"totalContributors"`
}

func NewEventSummary(e *model.ContributionEventModel, actual, contributors int64) EventSummaryResponse {
	return EventSummaryResponse{
		ID:                e.EventID,
		Name:              e.EventName,
		Date:              e.EventDate,
		Type:              e.EventType,
		Locked:            e.EventLocked,
		ExpectedTotal:     e.EventExpectedTotal,
		ActualTotal:       actual,
		AmountSpent:       e.EventAmountSpent,
		TotalContributors: contributors,
	}
}

type ContributionResponse struct {
	ID         uuid.UUID `json:"id"`
	MemberID   uuid.UUID `json:"memberId"`
	MemberName string    `json:"memberName,omitempty"`
	Amount     int64     `json:"amount"`
	Note       *string   `json:"note,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type EventDetailResponse struct {
	EventSummaryResponse
	LockedAt      *time.Time             `json:"lockedAt,omitempty"`
	Contributions []ContributionResponse `json:"contributions"`
}

type TotalsResponse struct {
	Expected  int64 `json:"expected"`
	Current   int64 `json:"current"`
	Remaining int64 `json:"remaining"`
}

type MemberContributionResponse struct {
	EventID uuid.UUID   `json:"id"`
	Name    string      `json:"name"`
	Type    string      `json:"type"`
	Date    dbtime.Date `json:"date"`
	Amount  int64       `json:"amount"`
}
