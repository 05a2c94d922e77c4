package domain

// Availability is shared by labor and lead labour.
type Availability string

const (
	Available   Availability = "available"
	Assigned    Availability = "assigned"
	OnLeave     Availability = "on-leave"
	Unavailable Availability = "unavailable"
)

// Labor is a field worker that can be assigned to jobs.
type Labor struct {
	Meta           `bson:",inline"`
	Name           string       `json:"name" bson:"name" validate:"required"`
	Email          string       `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Phone          string       `json:"phone,omitempty" bson:"phone,omitempty"`
	Trade          string       `json:"trade" bson:"trade" validate:"required"`
	HourlyRate     float64      `json:"hourly_rate" bson:"hourly_rate" validate:"gte=0"`
	Availability   Availability `json:"availability" bson:"availability" validate:"required,oneof=available assigned on-leave unavailable"`
	Skills         []string     `json:"skills" bson:"skills" validate:"dive,required"`
	Certifications []string     `json:"certifications" bson:"certifications" validate:"dive,required"`
}

// LeadLabour supervises a crew of labor records.
type LeadLabour struct {
	Meta            `bson:",inline"`
	Name            string       `json:"name" bson:"name" validate:"required"`
	Email           string       `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Phone           string       `json:"phone,omitempty" bson:"phone,omitempty"`
	Specialization  string       `json:"specialization" bson:"specialization" validate:"required"`
	YearsExperience int          `json:"years_experience" bson:"years_experience" validate:"gte=0"`
	Availability    Availability `json:"availability" bson:"availability" validate:"required,oneof=available assigned on-leave unavailable"`
	Crew            []string     `json:"crew" bson:"crew" validate:"dive,required"`
	Certifications  []string     `json:"certifications" bson:"certifications" validate:"dive,required"`
}
