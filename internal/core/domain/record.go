package domain

import "time"

// Meta is the identity block shared by every stored record.
type Meta struct {
	ID        string    `json:"id" bson:"_id"`
	DisplayID string    `json:"display_id" bson:"display_id"`
	Version   int64     `json:"version" bson:"version"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Base gives generic code access to the embedded Meta.
func (m *Meta) Base() *Meta { return m }

// Record is satisfied by a pointer to any entity that embeds Meta.
type Record interface {
	Base() *Meta
}

// RefView is the read-time projection of a referenced record.
type RefView struct {
	ID        string `json:"id"`
	DisplayID string `json:"display_id,omitempty"`
	Label     string `json:"label,omitempty"`
	Missing   bool   `json:"missing,omitempty"`
}
