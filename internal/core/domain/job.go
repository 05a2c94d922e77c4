package domain

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "in-progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
)

// Priority ranks jobs for dispatch.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Job is a unit of field work for a client at a location.
type Job struct {
	Meta           `bson:",inline"`
	Title          string    `json:"title" bson:"title" validate:"required"`
	Description    string    `json:"description,omitempty" bson:"description,omitempty"`
	Client         string    `json:"client" bson:"client" validate:"required"`
	Location       string    `json:"location" bson:"location" validate:"required"`
	Status         JobStatus `json:"status" bson:"status" validate:"required,oneof=pending in-progress completed cancelled"`
	Priority       Priority  `json:"priority" bson:"priority" validate:"required,oneof=low medium high urgent"`
	LeadLabourID   string    `json:"lead_labour_id,omitempty" bson:"lead_labour_id,omitempty"`
	AssignedLabor  []string  `json:"assigned_labor" bson:"assigned_labor" validate:"dive,required"`
	StartDate      string    `json:"start_date,omitempty" bson:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate        string    `json:"end_date,omitempty" bson:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EstimatedHours float64   `json:"estimated_hours" bson:"estimated_hours" validate:"gte=0"`
	Budget         float64   `json:"budget" bson:"budget" validate:"gte=0"`
}
