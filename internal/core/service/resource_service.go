package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fieldworks/backoffice/internal/core/domain"
	"github.com/fieldworks/backoffice/internal/core/listing"
	"github.com/fieldworks/backoffice/internal/core/ports"
	"github.com/fieldworks/backoffice/internal/core/validation"
	"github.com/fieldworks/backoffice/internal/metrics"
)

// Deps are the collaborators shared by every ResourceService.
type Deps struct {
	Sequencer   ports.Sequencer
	Idempotency ports.IdempotencyStore // optional
	Feed        ports.ChangeFeed       // optional
	Registry    *Registry              // optional; enables reference checks

	Clock func() time.Time
	NewID func() string

	DefaultPageSize int
	MaxPageSize     int
	ReadOnly        bool
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if d.DefaultPageSize <= 0 {
		d.DefaultPageSize = listing.DefaultPageSize
	}
	if d.MaxPageSize <= 0 {
		d.MaxPageSize = listing.MaxPageSize
	}
	return d
}

// ResourceService is the list-resource manager of one entity type: filtered
// and paginated reads plus create, update and delete with identity
// assignment, validation and reference integrity.
type ResourceService[T domain.Record] struct {
	schema listing.Schema[T]
	repo   ports.Repository[T]
	deps   Deps
	log    zerolog.Logger
}

func NewResourceService[T domain.Record](schema listing.Schema[T], repo ports.Repository[T], deps Deps, log zerolog.Logger) *ResourceService[T] {
	return &ResourceService[T]{
		schema: schema,
		repo:   repo,
		deps:   deps.withDefaults(),
		log:    log.With().Str("resource", schema.Resource).Logger(),
	}
}

func (s *ResourceService[T]) Name() string { return s.schema.Resource }

// List validates the query and returns one page of matching records.
func (s *ResourceService[T]) List(ctx context.Context, in ports.ListInput) (listing.Page[T], error) {
	q := listing.Query{
		Search:   in.Search,
		Filters:  in.Filters,
		Page:     in.Page,
		PageSize: in.PageSize,
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Page < 0 {
		return listing.Page[T]{}, domain.NewValidationError("page", "gte", "page must be at least 1")
	}
	switch {
	case q.PageSize == 0:
		q.PageSize = s.deps.DefaultPageSize
	case q.PageSize < 0:
		return listing.Page[T]{}, domain.NewValidationError("page_size", "gte", "page_size must be at least 1")
	case q.PageSize > s.deps.MaxPageSize:
		q.PageSize = s.deps.MaxPageSize
	}
	if err := s.schema.CheckQuery(q); err != nil {
		return listing.Page[T]{}, err
	}

	page, err := s.repo.List(ctx, q)
	if err != nil {
		return listing.Page[T]{}, fmt.Errorf("list %s: %w", s.schema.Resource, err)
	}
	metrics.ListResultSize.WithLabelValues(s.schema.Resource).Observe(float64(len(page.Items)))
	return page, nil
}

// Get returns one record with its references resolved.
func (s *ResourceService[T]) Get(ctx context.Context, id string) (*ports.RecordDetail[T], error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	refs, err := s.resolve(ctx, rec)
	if err != nil {
		return nil, err
	}
	return &ports.RecordDetail[T]{Record: rec, References: refs}, nil
}

// Create validates and stores a new record. With an idempotency key, a retry
// returns the record created by the first call.
func (s *ResourceService[T]) Create(ctx context.Context, in ports.CreateInput[T]) (*ports.CreateResult[T], error) {
	if s.deps.ReadOnly {
		return nil, domain.ErrReadOnly
	}
	rec := in.Record
	if err := s.prepare(ctx, rec); err != nil {
		return nil, err
	}

	now := s.now()
	m := rec.Base()
	if !in.KeepID || m.ID == "" {
		m.ID = s.deps.NewID()
	}

	claimed := false
	if in.IdempotencyKey != "" && s.deps.Idempotency != nil {
		existing, ok, err := s.deps.Idempotency.Claim(ctx, s.schema.Resource, in.IdempotencyKey, m.ID)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency claim failed, creating anyway")
		case !ok:
			prev, err := s.repo.Get(ctx, existing)
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrIdempotencyInFlight
			}
			if err != nil {
				return nil, err
			}
			metrics.IdempotentReplaysTotal.WithLabelValues(s.schema.Resource).Inc()
			s.log.Info().Str("idempotency_key", in.IdempotencyKey).Str("id", existing).Msg("idempotent replay")
			return &ports.CreateResult[T]{Record: prev, Replayed: true}, nil
		default:
			claimed = true
		}
	}

	release := func() {
		if !claimed {
			return
		}
		if err := s.deps.Idempotency.Release(ctx, s.schema.Resource, in.IdempotencyKey); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to release idempotency key")
		}
	}

	seq, err := s.deps.Sequencer.Next(ctx, s.schema.Prefix, now.Year())
	if err != nil {
		release()
		return nil, fmt.Errorf("create %s: next sequence: %w", s.schema.Resource, err)
	}
	m.DisplayID = listing.FormatDisplayID(s.schema.Prefix, now.Year(), seq)
	m.Version = 1
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := s.repo.Insert(ctx, rec); err != nil {
		release()
		s.log.Error().Err(err).Str("id", m.ID).Msg("failed to create record")
		return nil, fmt.Errorf("create %s: %w", s.schema.Resource, err)
	}

	metrics.RecordsMutatedTotal.WithLabelValues(s.schema.Resource, string(domain.OpCreated)).Inc()
	s.publish(domain.OpCreated, m, in.Actor, now)
	s.log.Info().Str("id", m.ID).Str("display_id", m.DisplayID).Str("actor", in.Actor).Msg("record created")

	return &ports.CreateResult[T]{Record: rec}, nil
}

// Update replaces every mutable field of an existing record, keeping its id,
// display id and creation time.
func (s *ResourceService[T]) Update(ctx context.Context, in ports.UpdateInput[T]) (T, error) {
	var zero T
	if s.deps.ReadOnly {
		return zero, domain.ErrReadOnly
	}
	current, err := s.repo.Get(ctx, in.ID)
	if err != nil {
		return zero, err
	}
	cur := current.Base()
	if in.ExpectedVersion != 0 && in.ExpectedVersion != cur.Version {
		return zero, fmt.Errorf("%w: have %d, want %d", domain.ErrVersionConflict, cur.Version, in.ExpectedVersion)
	}

	rec := in.Record
	if err := s.prepare(ctx, rec); err != nil {
		return zero, err
	}

	now := s.now()
	m := rec.Base()
	m.ID = cur.ID
	m.DisplayID = cur.DisplayID
	m.CreatedAt = cur.CreatedAt
	m.Version = cur.Version + 1
	m.UpdatedAt = now

	if err := s.repo.Replace(ctx, rec, cur.Version); err != nil {
		return zero, fmt.Errorf("update %s: %w", s.schema.Resource, err)
	}

	metrics.RecordsMutatedTotal.WithLabelValues(s.schema.Resource, string(domain.OpUpdated)).Inc()
	s.publish(domain.OpUpdated, m, in.Actor, now)
	s.log.Info().Str("id", m.ID).Int64("version", m.Version).Str("actor", in.Actor).Msg("record updated")

	return rec, nil
}

// Delete removes a record nothing else references.
func (s *ResourceService[T]) Delete(ctx context.Context, in ports.DeleteInput) error {
	if s.deps.ReadOnly {
		return domain.ErrReadOnly
	}
	current, err := s.repo.Get(ctx, in.ID)
	if err != nil {
		return err
	}
	if err := s.checkNotReferenced(ctx, current.Base()); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, in.ID); err != nil {
		return fmt.Errorf("delete %s: %w", s.schema.Resource, err)
	}

	m := current.Base()
	metrics.RecordsMutatedTotal.WithLabelValues(s.schema.Resource, string(domain.OpDeleted)).Inc()
	s.publish(domain.OpDeleted, m, in.Actor, s.now())
	s.log.Info().Str("id", m.ID).Str("display_id", m.DisplayID).Str("actor", in.Actor).Msg("record deleted")
	return nil
}

// Ref projects one record for reference resolution.
func (s *ResourceService[T]) Ref(ctx context.Context, id string) (domain.RefView, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.RefView{}, err
	}
	m := rec.Base()
	view := domain.RefView{ID: m.ID, DisplayID: m.DisplayID}
	if s.schema.Label != nil {
		view.Label = s.schema.Label(rec)
	}
	return view, nil
}

// CountReferencing counts records whose filter dimension holds id.
func (s *ResourceService[T]) CountReferencing(ctx context.Context, filter, id string) (int, error) {
	page, err := s.repo.List(ctx, listing.Query{
		Filters:  map[string]string{filter: id},
		Page:     1,
		PageSize: 1,
	})
	if err != nil {
		return 0, fmt.Errorf("count %s referencing %s: %w", s.schema.Resource, id, err)
	}
	return page.Total, nil
}

func (s *ResourceService[T]) Outbound() []RefLink {
	out := make([]RefLink, len(s.schema.References))
	for i, ref := range s.schema.References {
		out[i] = RefLink{Filter: ref.Filter, Target: ref.Target}
	}
	return out
}

// Import creates a fixture record, keeping the id it carries so that other
// fixtures can reference it.
func (s *ResourceService[T]) Import(ctx context.Context, decode func(v any) error, actor string) (domain.RefView, error) {
	rec := s.schema.New()
	if err := decode(rec); err != nil {
		return domain.RefView{}, fmt.Errorf("import %s: decode: %w", s.schema.Resource, err)
	}
	res, err := s.Create(ctx, ports.CreateInput[T]{Record: rec, Actor: actor, KeepID: true})
	if err != nil {
		return domain.RefView{}, err
	}
	m := res.Record.Base()
	view := domain.RefView{ID: m.ID, DisplayID: m.DisplayID}
	if s.schema.Label != nil {
		view.Label = s.schema.Label(res.Record)
	}
	return view, nil
}

func (s *ResourceService[T]) now() time.Time {
	return s.deps.Clock().UTC().Truncate(time.Millisecond)
}

// prepare applies defaults, validates and checks references.
func (s *ResourceService[T]) prepare(ctx context.Context, rec T) error {
	if s.schema.Normalize != nil {
		s.schema.Normalize(rec)
	}
	if err := validation.Struct(rec); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			metrics.ValidationErrorsTotal.WithLabelValues(s.schema.Resource, ve.Rule).Inc()
		}
		return err
	}
	return s.checkRefs(ctx, rec)
}

func (s *ResourceService[T]) checkRefs(ctx context.Context, rec T) error {
	if s.deps.Registry == nil {
		return nil
	}
	for _, ref := range s.schema.References {
		ids := ref.IDs(rec)
		if len(ids) == 0 {
			continue
		}
		target, ok := s.deps.Registry.Lookup(ref.Target)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownResource, ref.Target)
		}
		field := s.schema.Filters[ref.Filter].Key
		for _, id := range ids {
			_, err := target.Ref(ctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewValidationError(field, "exists",
					fmt.Sprintf("%s references unknown %s record %s", field, ref.Target, id))
			}
			if err != nil {
				return fmt.Errorf("check %s reference: %w", field, err)
			}
		}
	}
	return nil
}

func (s *ResourceService[T]) checkNotReferenced(ctx context.Context, m *domain.Meta) error {
	if s.deps.Registry == nil {
		return nil
	}
	for _, res := range s.deps.Registry.Resources() {
		for _, link := range res.Outbound() {
			if link.Target != s.schema.Resource {
				continue
			}
			n, err := res.CountReferencing(ctx, link.Filter, m.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%w: %s is used by %d %s record(s)", domain.ErrReferenced, m.DisplayID, n, res.Name())
			}
		}
	}
	return nil
}

func (s *ResourceService[T]) resolve(ctx context.Context, rec T) (map[string][]domain.RefView, error) {
	if s.deps.Registry == nil || len(s.schema.References) == 0 {
		return nil, nil
	}
	out := make(map[string][]domain.RefView, len(s.schema.References))
	for _, ref := range s.schema.References {
		ids := ref.IDs(rec)
		if len(ids) == 0 {
			continue
		}
		target, ok := s.deps.Registry.Lookup(ref.Target)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownResource, ref.Target)
		}
		views := make([]domain.RefView, 0, len(ids))
		for _, id := range ids {
			view, err := target.Ref(ctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				view = domain.RefView{ID: id, Missing: true}
			} else if err != nil {
				return nil, fmt.Errorf("resolve %s: %w", ref.Target, err)
			}
			views = append(views, view)
		}
		out[s.schema.Filters[ref.Filter].Key] = views
	}
	return out, nil
}

func (s *ResourceService[T]) publish(op domain.ChangeOp, m *domain.Meta, actor string, at time.Time) {
	if s.deps.Feed == nil {
		return
	}
	s.deps.Feed.Publish(domain.ChangeEvent{
		Resource:        s.schema.Resource,
		RecordID:        m.ID,
		RecordDisplayID: m.DisplayID,
		Op:              op,
		Actor:           actor,
		RecordVersion:   m.Version,
		OccurredAt:      at,
	})
}
