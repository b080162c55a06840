package tollapi

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"highway-tolls/internal/highway"
)

var ErrHighwayNotFound = errors.New("highway not found")

type entry struct {
	mu      sync.Mutex
	hw      *highway.Highway
	removed bool
}

// Registry holds independent highways by id. Each highway is only ever touched
// under its own lock.
type Registry struct {
	mu       sync.Mutex
	highways map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{highways: make(map[string]*entry)}
}

func (r *Registry) Create(minActiveQueues, maxVehiclesPerQueue int) (string, error) {
	hw, err := highway.New(minActiveQueues, maxVehiclesPerQueue)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.highways[id] = &entry{hw: hw}
	return id, nil
}

// With runs fn with exclusive access to highway id.
func (r *Registry) With(id string, fn func(*highway.Highway) error) error {
	r.mu.Lock()
	e, ok := r.highways[id]
	r.mu.Unlock()
	if !ok {
		return errors.Wrapf(ErrHighwayNotFound, "id %q", id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return errors.Wrapf(ErrHighwayNotFound, "id %q", id)
	}
	return fn(e.hw)
}

// Delete removes highway id. It returns once no With call can still see the
// highway, so cleanup done afterwards is not undone by a late caller.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	e, ok := r.highways[id]
	delete(r.highways, id)
	r.mu.Unlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	e.removed = true
	e.mu.Unlock()
	return true
}

func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.highways))
	for id := range r.highways {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.highways)
}
