package domain

// StaffStatus is the employment state of a staff member.
type StaffStatus string

const (
	StaffActive   StaffStatus = "active"
	StaffOnLeave  StaffStatus = "on-leave"
	StaffInactive StaffStatus = "inactive"
)

// StaffMember is an office employee.
type StaffMember struct {
	Meta       `bson:",inline"`
	Name       string      `json:"name" bson:"name" validate:"required"`
	Email      string      `json:"email" bson:"email" validate:"required,email"`
	Phone      string      `json:"phone,omitempty" bson:"phone,omitempty"`
	Department string      `json:"department" bson:"department" validate:"required"`
	Position   string      `json:"position" bson:"position" validate:"required"`
	Status     StaffStatus `json:"status" bson:"status" validate:"required,oneof=active on-leave inactive"`
	HireDate   string      `json:"hire_date,omitempty" bson:"hire_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
