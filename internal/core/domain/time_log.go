package domain

// TimeLogStatus tells whether the clock is still running.
type TimeLogStatus string

const (
	TimeLogRunning   TimeLogStatus = "running"
	TimeLogCompleted TimeLogStatus = "completed"
)

// TimeLog is a clock-in/clock-out interval on a job.
type TimeLog struct {
	Meta      `bson:",inline"`
	JobID     string        `json:"job_id" bson:"job_id" validate:"required"`
	LaborID   string        `json:"labor_id" bson:"labor_id" validate:"required"`
	Date      string        `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	StartTime string        `json:"start_time" bson:"start_time" validate:"required,datetime=15:04"`
	EndTime   string        `json:"end_time,omitempty" bson:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
	Hours     float64       `json:"hours" bson:"hours" validate:"gte=0,lte=24"`
	Status    TimeLogStatus `json:"status" bson:"status" validate:"required,oneof=running completed"`
	Notes     string        `json:"notes,omitempty" bson:"notes,omitempty"`
}
