package signature

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Allowed bool

type sampleDelegate struct{}

func (sampleDelegate) ShouldProceed(step int) bool                 { return step > 0 }
func (*sampleDelegate) Log(format string, args ...any) (int, error) { return 0, nil }
func (*sampleDelegate) Permit() Allowed                             { return false }
func (*sampleDelegate) Done()                                       {}

type sampleProtocol interface {
	ShouldProceed(step int) bool
	Log(format string, args ...any) (int, error)
}

func TestMethod(t *testing.T) {
	testCases := []struct {
		name     string
		typ      reflect.Type
		method   string
		found    bool
		expected string
	}{
		{
			name:     "value receiver on value type",
			typ:      reflect.TypeOf(sampleDelegate{}),
			method:   "ShouldProceed",
			found:    true,
			expected: "ShouldProceed(int) bool",
		},
		{
			name:   "pointer receiver on value type",
			typ:    reflect.TypeOf(sampleDelegate{}),
			method: "Done",
			found:  false,
		},
		{
			name:     "pointer receiver on pointer type",
			typ:      reflect.TypeOf(&sampleDelegate{}),
			method:   "Log",
			found:    true,
			expected: "Log(string, ...interface {}) (int, error)",
		},
		{
			name:     "no results",
			typ:      reflect.TypeOf(&sampleDelegate{}),
			method:   "Done",
			found:    true,
			expected: "Done()",
		},
		{
			name:     "interface method",
			typ:      reflect.TypeOf((*sampleProtocol)(nil)).Elem(),
			method:   "ShouldProceed",
			found:    true,
			expected: "ShouldProceed(int) bool",
		},
		{
			name:   "unknown method",
			typ:    reflect.TypeOf(&sampleDelegate{}),
			method: "Missing",
			found:  false,
		},
		{
			name:   "nil type",
			typ:    nil,
			method: "Done",
			found:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sig, ok := Method(tc.typ, tc.method)
			require.Equal(t, tc.found, ok)
			if !tc.found {
				require.Nil(t, sig)
				return
			}
			assert.Equal(t, tc.expected, sig.String())
			assert.Equal(t, tc.method, sig.Name())
		})
	}
}

func TestInterfaceAndConcreteSignaturesAgree(t *testing.T) {
	fromIface, ok := Method(reflect.TypeOf((*sampleProtocol)(nil)).Elem(), "Log")
	require.True(t, ok)

	fromType, ok := Method(reflect.TypeOf(&sampleDelegate{}), "Log")
	require.True(t, ok)

	assert.True(t, fromIface.Equal(fromType))
	assert.True(t, fromType.IsVariadic())
	assert.Equal(t, 2, fromType.NumIn())
	assert.Equal(t, 2, fromType.NumOut())
	assert.Equal(t, reflect.TypeOf(""), fromType.In(0))
}

func TestEqual(t *testing.T) {
	a, err := Of("A", reflect.TypeOf(func(int) bool { return false }))
	require.NoError(t, err)
	b, err := Of("B", reflect.TypeOf(func(int) bool { return false }))
	require.NoError(t, err)
	c, err := Of("A", reflect.TypeOf(func(int64) bool { return false }))
	require.NoError(t, err)
	d, err := Of("A", reflect.TypeOf(func(...int) bool { return false }))
	require.NoError(t, err)
	e, err := Of("A", reflect.TypeOf(func([]int) bool { return false }))
	require.NoError(t, err)

	assert.True(t, a.Equal(b), "names are not part of the calling convention")
	assert.False(t, a.Equal(c))
	assert.False(t, d.Equal(e))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*Signature)(nil).Equal(nil))
}

func TestOfRejectsNonFunc(t *testing.T) {
	_, err := Of("X", reflect.TypeOf(1))
	require.ErrorIs(t, err, ErrNotFunc)

	_, err = Of("X", nil)
	require.ErrorIs(t, err, ErrNotFunc)
}

func TestZeroAndReturnsBool(t *testing.T) {
	sig, ok := Method(reflect.TypeOf(&sampleDelegate{}), "Log")
	require.True(t, ok)
	assert.False(t, sig.ReturnsBool())

	zero := sig.Zero()
	require.Len(t, zero, 2)
	assert.Equal(t, 0, zero[0].Interface())
	assert.Nil(t, zero[1].Interface())

	sig, ok = Method(reflect.TypeOf(&sampleDelegate{}), "Permit")
	require.True(t, ok)
	assert.True(t, sig.ReturnsBool(), "named bool types count as boolean")

	sig, ok = Method(reflect.TypeOf(&sampleDelegate{}), "Done")
	require.True(t, ok)
	assert.False(t, sig.ReturnsBool())
	assert.Empty(t, sig.Zero())
}
