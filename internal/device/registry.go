package device

import (
	"sort"
	"sync"
)

// Registry is the shared device collection. The streaming producer
// iterates it while the control path registers and removes devices, so
// all access goes through the lock and iteration works on a snapshot.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*Device
}

func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]*Device),
	}
}

// Add registers a device, replacing any previous device with the same
// id.
func (r *Registry) Add(d *Device) {
	if d == nil {
		return
	}

	r.mu.Lock()
	r.devices[d.ID()] = d
	r.mu.Unlock()
}

// Remove drops a device from the registry. Its persisted readings are
// untouched.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.devices, id)
	r.mu.Unlock()
}

func (r *Registry) Get(id string) (*Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[id]
	return d, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.devices)
}

// Snapshot returns the registered devices ordered by id, detached from
// the underlying map.
func (r *Registry) Snapshot() []*Device {
	r.mu.RLock()
	out := make([]*Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })

	return out
}
