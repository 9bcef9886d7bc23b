package reflectx

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/anoideaopen/delegate/core/signature"
)

// Error types.
var (
	ErrIncorrectArgumentCount = errors.New("incorrect number of arguments")
	ErrInvalidArgumentValue   = errors.New("invalid argument value")
	ErrMethodNotFound         = errors.New("method not found")
)

// Call invokes a specified method on a given value using reflection. The method to be invoked is identified by its name.
// It checks whether the specified method exists on the value 'v' and whether the provided arguments fit the
// method's expected input parameters.
//
// The process follows these steps:
//  1. Look up the method in the method set of 'v'.
//  2. Convert every argument to the parameter type with Arguments.
//  3. Call the method with the prepared arguments and capture the output.
//
// The function returns a slice of any type representing the output from the called method, and an error if the method
// is not found, the number of arguments does not match, or if an argument cannot be used for its parameter.
//
// Parameters:
//   - v: The value on which the method is to be invoked.
//   - method: The name of the method to invoke.
//   - args: The arguments for the method.
//
// Returns:
//   - []any: A slice containing the outputs of the method, or nil if an error occurs.
//   - error: An error if the method is not found, the number of arguments is incorrect, or an argument is invalid.
//
// Example:
//
//	type MyType struct {
//	    Data string
//	}
//
//	func (m *MyType) Update(data string) string {
//	    m.Data = data
//	    return fmt.Sprintf("Updated data to: %s", m.Data)
//	}
//
//	func main() {
//	    myInstance := &MyType{}
//	    output, err := Call(myInstance, "Update", "New data")
//	    if err != nil {
//	        log.Fatalf("Error invoking method: %v", err)
//	    }
//	    fmt.Println(output[0]) // Output: Updated data to: New data
//	}
func Call(v any, method string, args ...any) ([]any, error) {
	if IsNil(v) {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}

	inputVal := reflect.ValueOf(v)

	methodVal := inputVal.MethodByName(method)
	if !methodVal.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}

	sig, err := signature.Of(method, methodVal.Type())
	if err != nil {
		return nil, err
	}

	in, err := Arguments(sig, args)
	if err != nil {
		return nil, fmt.Errorf("%w: call %s", err, method)
	}

	return Interfaces(methodVal.Call(in)), nil
}

// Interfaces unwraps reflected values. Zero values of interface types become nil.
func Interfaces(values []reflect.Value) []any {
	output := make([]any, len(values))
	for i, res := range values {
		output[i] = res.Interface()
	}

	return output
}
