package ports

import (
	"context"

	"github.com/fieldworks/backoffice/internal/core/domain"
)

// ChangeFeed accepts change events for asynchronous recording.
type ChangeFeed interface {
	Publish(event domain.ChangeEvent)
}

// ChangeRecorder appends a change event to the audit log.
type ChangeRecorder interface {
	Record(ctx context.Context, event domain.ChangeEvent) error
}
