// Package signature describes the calling convention of a method: its parameter
// types, result types and whether it is variadic. A Signature is what the proxy
// needs to build a type-correct default answer for a call nobody handled.
package signature

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrNotFunc is returned when a signature is requested for a non-function type.
var ErrNotFunc = errors.New("type is not a function")

// Signature is an immutable calling-convention descriptor of a named method.
type Signature struct {
	name     string
	in       []reflect.Type
	out      []reflect.Type
	variadic bool
}

// Of builds the signature of the method name from a function type that does not
// include a receiver.
func Of(name string, fn reflect.Type) (*Signature, error) {
	if fn == nil || fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s", ErrNotFunc, name)
	}

	return build(name, fn, 0), nil
}

// Method returns the signature of the method name in the method set of t.
// Interface method types carry no receiver, concrete method types do and the
// receiver is dropped.
func Method(t reflect.Type, name string) (*Signature, bool) {
	if t == nil {
		return nil, false
	}

	m, ok := t.MethodByName(name)
	if !ok {
		return nil, false
	}

	skip := 1
	if t.Kind() == reflect.Interface {
		skip = 0
	}

	return build(name, m.Type, skip), true
}

func build(name string, fn reflect.Type, skip int) *Signature {
	s := &Signature{
		name:     name,
		in:       make([]reflect.Type, 0, fn.NumIn()-skip),
		out:      make([]reflect.Type, 0, fn.NumOut()),
		variadic: fn.IsVariadic(),
	}

	for i := skip; i < fn.NumIn(); i++ {
		s.in = append(s.in, fn.In(i))
	}

	for i := 0; i < fn.NumOut(); i++ {
		s.out = append(s.out, fn.Out(i))
	}

	return s
}

// Name returns the method name.
func (s *Signature) Name() string { return s.name }

// NumIn returns the number of parameters.
func (s *Signature) NumIn() int { return len(s.in) }

// In returns the type of the i-th parameter. The last parameter of a variadic
// signature is a slice type.
func (s *Signature) In(i int) reflect.Type { return s.in[i] }

// NumOut returns the number of results.
func (s *Signature) NumOut() int { return len(s.out) }

// Out returns the type of the i-th result.
func (s *Signature) Out(i int) reflect.Type { return s.out[i] }

// IsVariadic reports whether the last parameter is variadic.
func (s *Signature) IsVariadic() bool { return s.variadic }

// ReturnsBool reports whether the first result is of a boolean kind.
func (s *Signature) ReturnsBool() bool {
	return len(s.out) > 0 && s.out[0].Kind() == reflect.Bool
}

// Equal reports whether both signatures share the same calling convention.
// Method names are not compared.
func (s *Signature) Equal(other *Signature) bool {
	if s == nil || other == nil {
		return s == other
	}

	if s.variadic != other.variadic || len(s.in) != len(other.in) || len(s.out) != len(other.out) {
		return false
	}

	for i := range s.in {
		if s.in[i] != other.in[i] {
			return false
		}
	}

	for i := range s.out {
		if s.out[i] != other.out[i] {
			return false
		}
	}

	return true
}

// Zero returns the zero value of every result.
func (s *Signature) Zero() []reflect.Value {
	values := make([]reflect.Value, len(s.out))
	for i, t := range s.out {
		values[i] = reflect.Zero(t)
	}

	return values
}

// String renders the signature as Name(int, ...string) (bool, error).
func (s *Signature) String() string {
	var b strings.Builder

	b.WriteString(s.name)
	b.WriteByte('(')
	for i, t := range s.in {
		if i > 0 {
			b.WriteString(", ")
		}
		if s.variadic && i == len(s.in)-1 {
			b.WriteString("...")
			b.WriteString(t.Elem().String())
			continue
		}
		b.WriteString(t.String())
	}
	b.WriteByte(')')

	switch len(s.out) {
	case 0:
	case 1:
		b.WriteByte(' ')
		b.WriteString(s.out[0].String())
	default:
		b.WriteString(" (")
		for i, t := range s.out {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(t.String())
		}
		b.WriteByte(')')
	}

	return b.String()
}
