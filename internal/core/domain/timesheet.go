package domain

// TimesheetStatus is the review state of a timesheet entry.
type TimesheetStatus string

const (
	TimesheetDraft     TimesheetStatus = "draft"
	TimesheetSubmitted TimesheetStatus = "submitted"
	TimesheetApproved  TimesheetStatus = "approved"
	TimesheetRejected  TimesheetStatus = "rejected"
)

// TimesheetEntry is a day of work booked by a labor record against a job.
type TimesheetEntry struct {
	Meta          `bson:",inline"`
	LaborID       string          `json:"labor_id" bson:"labor_id" validate:"required"`
	JobID         string          `json:"job_id" bson:"job_id" validate:"required"`
	WorkDate      string          `json:"work_date" bson:"work_date" validate:"required,datetime=2006-01-02"`
	HoursWorked   float64         `json:"hours_worked" bson:"hours_worked" validate:"gt=0,lte=24"`
	OvertimeHours float64         `json:"overtime_hours" bson:"overtime_hours" validate:"gte=0,lte=24"`
	Status        TimesheetStatus `json:"status" bson:"status" validate:"required,oneof=draft submitted approved rejected"`
	Notes         string          `json:"notes,omitempty" bson:"notes,omitempty"`
}
