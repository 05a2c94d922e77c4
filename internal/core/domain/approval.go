package domain

// ApprovalStatus is the decision state of an approval request.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Approval is a request waiting for a manager's decision.
type Approval struct {
	Meta        `bson:",inline"`
	Type        string         `json:"type" bson:"type" validate:"required,oneof=timesheet expense purchase-order leave"`
	Title       string         `json:"title" bson:"title" validate:"required"`
	RequestedBy string         `json:"requested_by" bson:"requested_by" validate:"required"`
	Amount      float64        `json:"amount" bson:"amount" validate:"gte=0"`
	Status      ApprovalStatus `json:"status" bson:"status" validate:"required,oneof=pending approved rejected"`
	SubmittedOn string         `json:"submitted_on,omitempty" bson:"submitted_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DecidedBy   string         `json:"decided_by,omitempty" bson:"decided_by,omitempty"`
	Notes       string         `json:"notes,omitempty" bson:"notes,omitempty"`
}
