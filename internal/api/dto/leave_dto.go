package dto

// SubmitLeaveRequest payload for a new leave request.
type SubmitLeaveRequest struct {
	Type      string `json:"type" validate:"required,oneof=annual sick unpaid maternity family"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Reason    string `json:"reason" validate:"max=500"`
}

// DecideLeaveRequest payload for an admin decision.
type DecideLeaveRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Notes  string `json:"notes" validate:"max=500"`
}
