package proxy

import (
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/anoideaopen/delegate/core/metrics"
	"github.com/anoideaopen/delegate/core/reflectx"
	"github.com/anoideaopen/delegate/core/signature"
)

var (
	// ErrUnresolvedSignature is returned when no signature can be found for a
	// method the delegate does not handle.
	ErrUnresolvedSignature = errors.New("unresolved method signature")

	// ErrAmbiguousSignature is returned when registered classes disagree on the
	// signature of a method no protocol registered.
	ErrAmbiguousSignature = errors.New("ambiguous method signature")

	// ErrIncorrectArgumentCount is returned when a call does not fit the method arity.
	ErrIncorrectArgumentCount = reflectx.ErrIncorrectArgumentCount

	// ErrInvalidArgumentValue is returned when an argument does not fit its parameter.
	ErrInvalidArgumentValue = reflectx.ErrInvalidArgumentValue
)

// Describer is implemented by delegates that can describe methods they do not
// implement themselves.
type Describer interface {
	MethodSignature(method string) (*signature.Signature, bool)
}

type slot struct {
	src atomic.Pointer[sourceBox]
}

type sourceBox struct {
	src Source
}

// Proxy stands in for an optional delegate. Calls the delegate handles are
// forwarded to it, all other calls are absorbed and answered with defaults.
// A Proxy is safe for concurrent use.
type Proxy struct {
	rt         *Runtime
	slot       *slot
	defaulting bool
}

// New creates a proxy over delegate in the default runtime.
// A nil delegate, typed or not, is allowed.
func New(delegate any) *Proxy {
	return Default().New(delegate)
}

// NewWeak creates a proxy in the default runtime that does not keep delegate alive.
func NewWeak[T any](delegate *T) *Proxy {
	return Default().NewFrom(Weak(delegate))
}

// New creates a proxy over delegate. When the delegate class has not been seen
// before, its signatures are cached before New returns.
func (rt *Runtime) New(delegate any) *Proxy {
	return rt.NewFrom(Strong(delegate))
}

// NewFrom creates a proxy reading its delegate from src.
func (rt *Runtime) NewFrom(src Source) *Proxy {
	p := &Proxy{
		rt:   rt,
		slot: new(slot),
	}
	p.SetSource(src)

	return p
}

// SetSource replaces the delegate source. The proxy and every variant sharing
// its reference observe the change immediately.
func (p *Proxy) SetSource(src Source) {
	if src == nil {
		src = Strong(nil)
	}

	p.slot.src.Store(&sourceBox{src: src})

	if t := classOf(src); t != nil {
		p.rt.Populate(t)
	}
}

// SetDelegate replaces the delegate with a strong reference to d.
func (p *Proxy) SetDelegate(d any) {
	p.SetSource(Strong(d))
}

// Delegate returns the current delegate, or nil when there is none.
// Typed nils are reported as nil.
func (p *Proxy) Delegate() any {
	box := p.slot.src.Load()
	if box == nil {
		return nil
	}

	d := box.src.Delegate()
	if reflectx.IsNil(d) {
		return nil
	}

	return d
}

// Runtime returns the runtime the proxy belongs to.
func (p *Proxy) Runtime() *Runtime { return p.rt }

// Responds reports whether the current delegate implements the method.
func (p *Proxy) Responds(method string) bool {
	return reflectx.HasMethod(p.Delegate(), method)
}

// IsDefaulting reports whether unhandled boolean calls answer true.
func (p *Proxy) IsDefaulting() bool { return p.defaulting }

// Defaulting returns the variant of p that answers true to unhandled calls
// whose first result is a boolean. It shares the delegate reference with p.
func (p *Proxy) Defaulting() *Proxy {
	return &Proxy{rt: p.rt, slot: p.slot, defaulting: true}
}

// Base returns the variant of p that answers zero values to unhandled calls.
// It shares the delegate reference with p.
func (p *Proxy) Base() *Proxy {
	return &Proxy{rt: p.rt, slot: p.slot}
}

// Call invokes the method on the delegate when it implements it. Otherwise the
// call is absorbed: nothing runs and the default results of the method
// signature are returned.
//
// Errors are returned only when the arguments do not fit the method, or when
// the signature of an unhandled method cannot be determined.
func (p *Proxy) Call(method string, args ...any) ([]any, error) {
	if d := p.Delegate(); d != nil && reflectx.HasMethod(d, method) {
		out, err := reflectx.Call(d, method, args...)
		if err != nil {
			p.rt.metrics.Call(metrics.PathFailed)
			return nil, err
		}

		p.rt.metrics.Call(metrics.PathForwarded)

		return out, nil
	}

	out, err := p.absorb(method, args)
	if err != nil {
		p.rt.metrics.Call(metrics.PathFailed)
		return nil, err
	}

	p.rt.metrics.Call(metrics.PathDefaulted)

	return out, nil
}

func (p *Proxy) absorb(method string, args []any) ([]any, error) {
	sig, err := p.Signature(method)
	if err != nil {
		return nil, err
	}

	if _, err = reflectx.Arguments(sig, args); err != nil {
		return nil, fmt.Errorf("%w: call %s", err, method)
	}

	return reflectx.Interfaces(p.defaults(sig)), nil
}

func (p *Proxy) defaults(sig *signature.Signature) []reflect.Value {
	results := sig.Zero()
	if p.defaulting && sig.ReturnsBool() {
		yes := reflect.New(sig.Out(0)).Elem()
		yes.SetBool(true)
		results[0] = yes
	}

	return results
}

// Signature resolves the signature of the method. The delegate is asked first,
// then the class index for the delegate class, then the method index, then
// every registered class.
func (p *Proxy) Signature(method string) (*signature.Signature, error) {
	if d := p.Delegate(); d != nil {
		if sig, ok := signature.Method(reflect.TypeOf(d), method); ok {
			return sig, nil
		}

		if desc, ok := d.(Describer); ok {
			if sig, ok := desc.MethodSignature(method); ok && sig != nil {
				return sig, nil
			}
		}
	}

	return p.rt.ResolveFor(p.class(), method)
}

// class returns the delegate class, known even for typed nils and collected
// weak references.
func (p *Proxy) class() reflect.Type {
	box := p.slot.src.Load()
	if box == nil {
		return nil
	}

	return classOf(box.src)
}

// Unwrap follows delegates through nested proxies and returns the innermost
// value. Anything with a Delegate method is unwrapped.
func Unwrap(v any) any {
	if inner, ok := v.(interface{ Delegate() any }); ok {
		if d := inner.Delegate(); d != nil {
			return Unwrap(d)
		}

		return nil
	}

	return v
}
