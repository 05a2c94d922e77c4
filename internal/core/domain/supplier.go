package domain

// ActiveStatus is a two-state activation flag.
type ActiveStatus string

const (
	StatusActive   ActiveStatus = "active"
	StatusInactive ActiveStatus = "inactive"
)

// Supplier provides materials and services.
type Supplier struct {
	Meta          `bson:",inline"`
	Name          string       `json:"name" bson:"name" validate:"required"`
	ContactPerson string       `json:"contact_person,omitempty" bson:"contact_person,omitempty"`
	Email         string       `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Phone         string       `json:"phone,omitempty" bson:"phone,omitempty"`
	Address       string       `json:"address,omitempty" bson:"address,omitempty"`
	Category      string       `json:"category" bson:"category" validate:"required"`
	Status        ActiveStatus `json:"status" bson:"status" validate:"required,oneof=active inactive"`
	Rating        float64      `json:"rating" bson:"rating" validate:"gte=0,lte=5"`
	PaymentTerms  string       `json:"payment_terms,omitempty" bson:"payment_terms,omitempty"`
}
