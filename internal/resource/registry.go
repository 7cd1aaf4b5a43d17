package resource

import (
	"fmt"
	"sort"
)

// Registry holds the descriptors known to the process. It is filled at
// startup and only read while serving.
type Registry struct {
	descriptors map[string]*Descriptor
}

func NewRegistry() *Registry {
	return &Registry{descriptors: map[string]*Descriptor{}}
}

// Register adds d under d.Name.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil || d.Name == "" {
		return fmt.Errorf("descriptor without a name")
	}
	if _, exists := r.descriptors[d.Name]; exists {
		return fmt.Errorf("descriptor %q registered twice", d.Name)
	}
	r.descriptors[d.Name] = d
	return nil
}

func (r *Registry) Get(name string) (*Descriptor, bool) {
	d, ok := r.descriptors[name]
	return d, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	return len(r.descriptors)
}
