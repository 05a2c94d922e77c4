package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fieldworks/backoffice/internal/core/catalog"
	"github.com/fieldworks/backoffice/internal/core/domain"
	"github.com/fieldworks/backoffice/internal/core/listing"
	"github.com/fieldworks/backoffice/internal/core/ports"
)

// ChangeLog appends change events to the read-only changes resource.
type ChangeLog struct {
	repo  ports.Repository[*domain.ChangeEvent]
	seq   ports.Sequencer
	newID func() string
}

func NewChangeLog(repo ports.Repository[*domain.ChangeEvent], seq ports.Sequencer) *ChangeLog {
	return &ChangeLog{repo: repo, seq: seq, newID: uuid.NewString}
}

func (c *ChangeLog) Record(ctx context.Context, ev domain.ChangeEvent) error {
	at := ev.OccurredAt.UTC()
	n, err := c.seq.Next(ctx, catalog.Changes.Prefix, at.Year())
	if err != nil {
		return fmt.Errorf("record change: next sequence: %w", err)
	}
	ev.ID = c.newID()
	ev.DisplayID = listing.FormatDisplayID(catalog.Changes.Prefix, at.Year(), n)
	ev.Version = 1
	ev.CreatedAt = at
	ev.UpdatedAt = at
	if err := c.repo.Insert(ctx, &ev); err != nil {
		return fmt.Errorf("record change: %w", err)
	}
	return nil
}
