package protocol

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/anoideaopen/delegate/core/reflectx"
)

var (
	// ErrNilClass is returned when a class is registered from an untyped nil.
	ErrNilClass = errors.New("class sample is untyped nil")

	// ErrInterfaceClass is returned when a class is registered from an interface type.
	ErrInterfaceClass = errors.New("class must be a concrete type")
)

// Class is a registered concrete delegate type and the protocols it declares.
type Class struct {
	typ       reflect.Type
	protocols []*Protocol
}

// Type returns the class type. Pointers are always stripped.
func (c *Class) Type() reflect.Type { return c.typ }

// Protocols returns the protocols declared for the class at registration.
func (c *Class) Protocols() []*Protocol {
	return append([]*Protocol(nil), c.protocols...)
}

// Registry is the set of known classes and protocols. It stands in for a
// runtime list of loaded classes, which Go does not have.
type Registry struct {
	mu        sync.RWMutex
	classes   map[reflect.Type]*Class
	order     []reflect.Type
	protocols []*Protocol
	known     map[*Protocol]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[reflect.Type]*Class),
		known:   make(map[*Protocol]struct{}),
	}
}

// Register records the class of sample together with the protocols it declares.
// The sample may be a typed nil pointer. Registering a class again merges the
// protocols.
func (r *Registry) Register(sample any, protocols ...*Protocol) (*Class, error) {
	t := reflect.TypeOf(sample)
	if t == nil {
		return nil, ErrNilClass
	}

	return r.RegisterType(t, protocols...)
}

// RegisterType is Register for a reflect.Type.
func (r *Registry) RegisterType(t reflect.Type, protocols ...*Protocol) (*Class, error) {
	t = reflectx.Indirect(t)
	if t == nil {
		return nil, ErrNilClass
	}

	if t.Kind() == reflect.Interface {
		return nil, fmt.Errorf("%w: %s", ErrInterfaceClass, t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range protocols {
		r.addProtocol(p)
	}

	c, ok := r.classes[t]
	if !ok {
		c = &Class{typ: t}
		r.order = append(r.order, t)
	}

	// A *Class handed out is never mutated.
	merged := &Class{typ: t, protocols: append([]*Protocol(nil), c.protocols...)}
	for _, p := range protocols {
		if !containsProtocol(merged.protocols, p) {
			merged.protocols = append(merged.protocols, p)
		}
	}
	r.classes[t] = merged

	return merged, nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(sample any, protocols ...*Protocol) *Class {
	c, err := r.Register(sample, protocols...)
	if err != nil {
		panic(err)
	}

	return c
}

// RegisterProtocol makes a protocol known to the registry so that classes
// implementing all of its methods are discovered as conforming.
func (r *Registry) RegisterProtocol(p *Protocol) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.addProtocol(p)
}

func (r *Registry) addProtocol(p *Protocol) {
	if p == nil {
		return
	}

	if _, ok := r.known[p]; ok {
		return
	}

	r.known[p] = struct{}{}
	r.protocols = append(r.protocols, p)

	for _, parent := range p.parents {
		r.addProtocol(parent)
	}
}

// Lookup returns the registered class of t.
func (r *Registry) Lookup(t reflect.Type) (*Class, bool) {
	t = reflectx.Indirect(t)
	if t == nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[t]

	return c, ok
}

// Classes returns a snapshot of the registered classes in registration order.
func (r *Registry) Classes() []*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()

	classes := make([]*Class, 0, len(r.order))
	for _, t := range r.order {
		classes = append(classes, r.classes[t])
	}

	return classes
}

// Protocols returns a snapshot of the known protocols in registration order.
func (r *Registry) Protocols() []*Protocol {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]*Protocol(nil), r.protocols...)
}

// ProtocolsOf returns the protocols the class t declares explicitly, followed by
// every known protocol that t implements in full.
func (r *Registry) ProtocolsOf(t reflect.Type) []*Protocol {
	t = reflectx.Indirect(t)
	if t == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Protocol
	if c, ok := r.classes[t]; ok {
		out = append(out, c.protocols...)
	}

	for _, p := range r.protocols {
		if !containsProtocol(out, p) && p.ImplementedBy(t) {
			out = append(out, p)
		}
	}

	return out
}

func containsProtocol(list []*Protocol, p *Protocol) bool {
	for _, item := range list {
		if item == p {
			return true
		}
	}

	return false
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// Register records a class in the process-wide registry.
func Register(sample any, protocols ...*Protocol) (*Class, error) {
	return defaultRegistry.Register(sample, protocols...)
}

// MustRegister records a class in the process-wide registry and panics on error.
func MustRegister(sample any, protocols ...*Protocol) *Class {
	return defaultRegistry.MustRegister(sample, protocols...)
}

// RegisterProtocol makes a protocol known to the process-wide registry.
func RegisterProtocol(p *Protocol) {
	defaultRegistry.RegisterProtocol(p)
}
