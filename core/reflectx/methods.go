package reflectx

import "reflect"

// HasMethod reports whether the method set of v contains the method.
// A nil v, typed or not, has no methods.
func HasMethod(v any, method string) bool {
	if IsNil(v) {
		return false
	}

	_, ok := reflect.TypeOf(v).MethodByName(method)

	return ok
}
