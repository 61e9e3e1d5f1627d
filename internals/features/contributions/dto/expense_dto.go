package dto

type CreateExpenseRequest struct {
	EventID string  `json:"eventId" validate:"required,uuid"`
	Amount  int64   `json:"amount" validate:"required,gt=0"`
	Reason  *string `json:"reason" validate:"omitempty,max=500"`
	Date    *string `json:"date"`
}

// PatchExpenseRequest leaves nil fields untouched; an empty reason clears it.
type PatchExpenseRequest struct {
	Amount *int64  `json:"amount" validate:"omitempty,gt=0"`
	Reason *string `json:"reason" validate:"omitempty,max=500"`
	Date   *string `json:"date"`
}
