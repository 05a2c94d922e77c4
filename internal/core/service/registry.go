package service

import (
	"context"
	"sync"

	"github.com/fieldworks/backoffice/internal/core/domain"
)

// RefLink is an outbound reference of a resource: records of the owning
// resource point at Target through the filter dimension Filter.
type RefLink struct {
	Filter string
	Target string
}

// Resource is the type-erased face of a ResourceService, used for reference
// integrity across entity types and for fixture imports.
type Resource interface {
	Name() string
	Ref(ctx context.Context, id string) (domain.RefView, error)
	CountReferencing(ctx context.Context, filter, id string) (int, error)
	Outbound() []RefLink
	Import(ctx context.Context, decode func(v any) error, actor string) (domain.RefView, error)
}

// Registry indexes resources by name, keeping registration order.
type Registry struct {
	mu     sync.RWMutex
	order  []Resource
	byName map[string]Resource
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Resource)}
}

// Register adds res; a second registration under the same name replaces the first.
func (r *Registry) Register(res Resource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[res.Name()]; exists {
		for i, cur := range r.order {
			if cur.Name() == res.Name() {
				r.order[i] = res
			}
		}
	} else {
		r.order = append(r.order, res)
	}
	r.byName[res.Name()] = res
}

func (r *Registry) Lookup(name string) (Resource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.byName[name]
	return res, ok
}

// Resources returns every registered resource in registration order.
func (r *Registry) Resources() []Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Resource, len(r.order))
	copy(out, r.order)
	return out
}
