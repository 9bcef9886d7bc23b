package protocol

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/anoideaopen/delegate/core/reflectx"
	"github.com/anoideaopen/delegate/core/signature"
)

// Protocol is a named capability set: the methods a delegate may optionally
// implement. Parents are the protocols it is composed of.
type Protocol struct {
	name    string
	iface   reflect.Type
	parents []*Protocol
}

// New declares a protocol over the interface type T.
// It panics if T is not an interface type.
//
// Example:
//
//	type Navigation interface {
//	    ShouldStart(url string) bool
//	    DidFinish(url string)
//	}
//
//	var NavigationProtocol = protocol.New[Navigation]("Navigation")
func New[T any](name string, parents ...*Protocol) *Protocol {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Interface {
		panic(fmt.Sprintf("protocol %s: %s is not an interface type", name, t))
	}

	return &Protocol{
		name:    name,
		iface:   t,
		parents: append([]*Protocol(nil), parents...),
	}
}

// Name returns the protocol name.
func (p *Protocol) Name() string { return p.name }

// Type returns the interface type of the protocol.
func (p *Protocol) Type() reflect.Type { return p.iface }

// Parents returns the protocols this one is composed of.
func (p *Protocol) Parents() []*Protocol {
	return append([]*Protocol(nil), p.parents...)
}

// Methods returns the sorted names of the methods the protocol requires,
// including methods of embedded interfaces.
func (p *Protocol) Methods() []string {
	names := make([]string, 0, p.iface.NumMethod())
	for i := 0; i < p.iface.NumMethod(); i++ {
		names = append(names, p.iface.Method(i).Name)
	}

	sort.Strings(names)

	return names
}

// Declares reports whether the protocol requires the method.
func (p *Protocol) Declares(method string) bool {
	_, ok := p.iface.MethodByName(method)
	return ok
}

// Signature returns the declared signature of the method.
func (p *Protocol) Signature(method string) (*signature.Signature, bool) {
	return signature.Method(p.iface, method)
}

// ImplementedBy reports whether values of t, or pointers to them, implement
// every method of the protocol.
func (p *Protocol) ImplementedBy(t reflect.Type) bool {
	t = reflectx.Indirect(t)
	if t == nil {
		return false
	}

	return t.Implements(p.iface) || reflect.PointerTo(t).Implements(p.iface)
}

func (p *Protocol) String() string { return p.name }
