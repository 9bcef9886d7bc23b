package reflectx

import "reflect"

// Indirect strips every pointer level from t. A nil t stays nil.
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}

// IsNil reports whether v is nil or a typed nil of a nillable kind.
func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	if isNillable(rv.Kind()) {
		return rv.IsNil()
	}

	return false
}

// TypeName returns a readable name for t: the package path qualified name for
// named types and the type literal otherwise. Names are for logs and spans only,
// since types declared in different function scopes can share one.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}

	return t.String()
}
