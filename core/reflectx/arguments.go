package reflectx

import (
	"fmt"
	"math"
	"reflect"

	"github.com/anoideaopen/delegate/core/signature"
)

// Arguments converts call arguments to reflected values matching the parameters
// of sig. Variadic tails are expanded element by element.
//
// Returns:
//   - []reflect.Value: The converted arguments, ready for reflect.Value.Call.
//   - error: ErrIncorrectArgumentCount or ErrInvalidArgumentValue.
func Arguments(sig *signature.Signature, args []any) ([]reflect.Value, error) {
	fixed := sig.NumIn()
	if sig.IsVariadic() {
		fixed--
	}

	if len(args) < fixed || (!sig.IsVariadic() && len(args) != fixed) {
		return nil, fmt.Errorf(
			"%w: found %d but expected %d",
			ErrIncorrectArgumentCount,
			len(args),
			sig.NumIn(),
		)
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var t reflect.Type
		if i < fixed {
			t = sig.In(i)
		} else {
			t = sig.In(fixed).Elem()
		}

		value, err := valueOf(arg, t)
		if err != nil {
			return nil, fmt.Errorf("%w, argument %d", err, i)
		}

		in[i] = value
	}

	return in, nil
}

// valueOf converts a single argument to a reflect.Value of the specified type.
//
// The function follows these steps:
//  1. A nil argument becomes the zero value of a nillable type.
//  2. A value assignable to the type is used as is.
//  3. A value of the same kind is converted.
//  4. A numeric value is converted to another numeric type only when it survives
//     the conversion unchanged: no overflow, no sign loss, no dropped fraction.
//  5. Anything else is rejected.
func valueOf(arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		if isNillable(t.Kind()) {
			return reflect.Zero(t), nil
		}

		return reflect.Value{}, fmt.Errorf("%w: nil for type '%s'", ErrInvalidArgumentValue, t.String())
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(t) {
		return v, nil
	}

	if v.Type().ConvertibleTo(t) && v.Kind() == t.Kind() {
		return v.Convert(t), nil
	}

	if isNumeric(v.Kind()) && isNumeric(t.Kind()) {
		if !fits(v, t) {
			return reflect.Value{}, fmt.Errorf(
				"%w: '%v' of type '%s' does not fit type '%s'",
				ErrInvalidArgumentValue,
				arg,
				v.Type().String(),
				t.String(),
			)
		}

		return v.Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf(
		"%w: '%v' of type '%s' for type '%s'",
		ErrInvalidArgumentValue,
		arg,
		v.Type().String(),
		t.String(),
	)
}

const (
	twoTo63 = float64(1 << 63)
	twoTo64 = float64(1 << 64)
)

// fits reports whether the numeric value v keeps its exact value as type t.
func fits(v reflect.Value, t reflect.Type) bool {
	target := reflect.New(t).Elem()

	switch {
	case v.CanInt():
		i := v.Int()

		switch {
		case target.CanInt():
			return !target.OverflowInt(i)
		case target.CanUint():
			return i >= 0 && !target.OverflowUint(uint64(i))
		default:
			f := v.Convert(t).Float()
			return f >= -twoTo63 && f < twoTo63 && int64(f) == i
		}

	case v.CanUint():
		u := v.Uint()

		switch {
		case target.CanInt():
			return u <= math.MaxInt64 && !target.OverflowInt(int64(u))
		case target.CanUint():
			return !target.OverflowUint(u)
		default:
			f := v.Convert(t).Float()
			return f < twoTo64 && uint64(f) == u
		}

	default:
		f := v.Float()

		switch {
		case target.CanFloat():
			return !target.OverflowFloat(f)
		case f != math.Trunc(f):
			return false
		case target.CanInt():
			return f >= -twoTo63 && f < twoTo63 && !target.OverflowInt(int64(f))
		default:
			return f >= 0 && f < twoTo64 && !target.OverflowUint(uint64(f))
		}
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func isNillable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}
