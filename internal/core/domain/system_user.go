package domain

// UserStatus is the state of a dashboard user.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
)

// SystemUser is a directory entry for somebody using the dashboard. Login
// credentials live in Account.
type SystemUser struct {
	Meta        `bson:",inline"`
	Name        string          `json:"name" bson:"name" validate:"required"`
	Email       string          `json:"email" bson:"email" validate:"required,email"`
	Role        string          `json:"role" bson:"role" validate:"required,oneof=admin manager supervisor viewer"`
	Department  string          `json:"department,omitempty" bson:"department,omitempty"`
	Status      UserStatus      `json:"status" bson:"status" validate:"required,oneof=active inactive suspended"`
	Permissions map[string]bool `json:"permissions" bson:"permissions"`
	LastLogin   string          `json:"last_login,omitempty" bson:"last_login,omitempty"`
}
