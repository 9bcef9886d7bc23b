package proxy

import (
	"reflect"
	"weak"
)

// Source yields the current delegate of a proxy. A Source never owns more than
// its implementation says: Strong keeps the delegate alive, Weak does not.
type Source interface {
	Delegate() any
}

// classSource is implemented by sources that know the delegate class even when
// the delegate itself is gone.
type classSource interface {
	Class() reflect.Type
}

type strongRef struct {
	v any
}

// Strong returns a Source holding an ordinary reference to v.
func Strong(v any) Source {
	return strongRef{v: v}
}

func (s strongRef) Delegate() any { return s.v }

func (s strongRef) Class() reflect.Type { return reflect.TypeOf(s.v) }

type weakRef[T any] struct {
	p weak.Pointer[T]
}

// Weak returns a Source that does not keep v alive. Once v is collected the
// proxy behaves as if it had no delegate.
func Weak[T any](v *T) Source {
	return weakRef[T]{p: weak.Make(v)}
}

func (w weakRef[T]) Delegate() any {
	if v := w.p.Value(); v != nil {
		return v
	}

	return nil
}

func (w weakRef[T]) Class() reflect.Type { return reflect.TypeFor[*T]() }

func classOf(src Source) reflect.Type {
	if cs, ok := src.(classSource); ok {
		return cs.Class()
	}

	return reflect.TypeOf(src.Delegate())
}
