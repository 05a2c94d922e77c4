// Package seed imports YAML fixtures into the registered list resources.
//
// A fixture file maps resource names to lists of records:
//
//	suppliers:
//	  - id: sup-1
//	    name: Acme Electrical
//	    category: electrical
//	orders:
//	  - supplier_id: sup-1
//	    reference: PO-1
//
// Records are imported in dependency order so fixtures may reference each
// other by id. Records whose id already exists are skipped.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/fieldworks/backoffice/internal/core/domain"
	"github.com/fieldworks/backoffice/internal/core/service"
)

const Actor = "seed"

// Result counts imported and skipped records per resource.
type Result struct {
	Imported map[string]int
	Skipped  map[string]int
}

type Seeder struct {
	registry *service.Registry
	order    []string
	log      zerolog.Logger
}

// NewSeeder imports into registry following order. Resources present in a
// fixture file but missing from order are rejected.
func NewSeeder(registry *service.Registry, order []string, log zerolog.Logger) *Seeder {
	return &Seeder{registry: registry, order: order, log: log}
}

func (s *Seeder) LoadFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()
	return s.Load(ctx, f)
}

func (s *Seeder) Load(ctx context.Context, r io.Reader) (Result, error) {
	var fixtures map[string][]map[string]any
	if err := yaml.NewDecoder(r).Decode(&fixtures); err != nil && !errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("decode fixtures: %w", err)
	}

	known := make(map[string]bool, len(s.order))
	for _, name := range s.order {
		known[name] = true
	}
	for name := range fixtures {
		if !known[name] {
			return Result{}, fmt.Errorf("%w: %s", domain.ErrUnknownResource, name)
		}
	}

	res := Result{Imported: make(map[string]int), Skipped: make(map[string]int)}
	for _, name := range s.order {
		items := fixtures[name]
		if len(items) == 0 {
			continue
		}
		target, ok := s.registry.Lookup(name)
		if !ok {
			return res, fmt.Errorf("%w: %s", domain.ErrUnknownResource, name)
		}
		for i, item := range items {
			if id, _ := item["id"].(string); id != "" {
				if _, err := target.Ref(ctx, id); err == nil {
					res.Skipped[name]++
					continue
				} else if !errors.Is(err, domain.ErrNotFound) {
					return res, fmt.Errorf("%s[%d]: %w", name, i, err)
				}
			}

			raw, err := json.Marshal(item)
			if err != nil {
				return res, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			view, err := target.Import(ctx, func(v any) error { return json.Unmarshal(raw, v) }, Actor)
			if err != nil {
				return res, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			res.Imported[name]++
			s.log.Debug().Str("resource", name).Str("id", view.ID).Str("display_id", view.DisplayID).Msg("fixture imported")
		}
		s.log.Info().Str("resource", name).Int("imported", res.Imported[name]).Int("skipped", res.Skipped[name]).Msg("fixtures loaded")
	}
	return res, nil
}
