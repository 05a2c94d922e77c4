package domain

import "time"

// ChangeOp names the mutation recorded by a ChangeEvent.
type ChangeOp string

const (
	OpCreated ChangeOp = "created"
	OpUpdated ChangeOp = "updated"
	OpDeleted ChangeOp = "deleted"
)

// ChangeEvent is one entry of the audit feed.
type ChangeEvent struct {
	Meta            `bson:",inline"`
	Resource        string    `json:"resource" bson:"resource"`
	RecordID        string    `json:"record_id" bson:"record_id"`
	RecordDisplayID string    `json:"record_display_id" bson:"record_display_id"`
	Op              ChangeOp  `json:"op" bson:"op"`
	Actor           string    `json:"actor,omitempty" bson:"actor,omitempty"`
	RecordVersion   int64     `json:"record_version" bson:"record_version"`
	OccurredAt      time.Time `json:"occurred_at" bson:"occurred_at"`
}
