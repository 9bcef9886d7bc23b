package reflectx

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type Celsius float64

type TestStructForCall struct {
	last string
}

func (t *TestStructForCall) Method1(ts *time.Time) bool {
	return ts == nil
}

func (t *TestStructForCall) Method2(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}

func (t *TestStructForCall) Method3(in float64) float64 {
	return in * 2
}

func (t *TestStructForCall) Method4(in []float64) int {
	return len(in)
}

func (t *TestStructForCall) Method5(in string) {
	t.last = in
}

func (t *TestStructForCall) Method6(in Celsius) Celsius {
	return in + 1
}

func (t *TestStructForCall) Method7(sep string, parts ...string) string {
	return strings.Join(parts, sep)
}

func (t *TestStructForCall) Method8(fail bool) (int, error) {
	if fail {
		return 0, errors.New("failed")
	}
	return 1, nil
}

func (t *TestStructForCall) Method9(in fmt.Stringer) string {
	if in == nil {
		return "<nil>"
	}
	return in.String()
}

func (t *TestStructForCall) Method10(level int8) int8 {
	return level
}

func (t *TestStructForCall) Method11(size uint16) uint16 {
	return size
}

func TestCall(t *testing.T) {
	input := &TestStructForCall{}
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		method    string
		args      []any
		wantLen   int
		wantErr   error
		wantValue any
	}{
		{
			name:    "MethodX unsupported method",
			method:  "MethodX",
			args:    []any{},
			wantErr: ErrMethodNotFound,
		},
		{
			name:      "Method1 with nil pointer",
			method:    "Method1",
			args:      []any{nil},
			wantLen:   1,
			wantValue: true,
		},
		{
			name:      "Method1 with pointer",
			method:    "Method1",
			args:      []any{&now},
			wantLen:   1,
			wantValue: false,
		},
		{
			name:      "Method2 with time value",
			method:    "Method2",
			args:      []any{now},
			wantLen:   1,
			wantValue: "2024-05-01T10:00:00Z",
		},
		{
			name:    "Method2 with nil for a struct",
			method:  "Method2",
			args:    []any{nil},
			wantErr: ErrInvalidArgumentValue,
		},
		{
			name:      "Method3 with int converted to float",
			method:    "Method3",
			args:      []any{2},
			wantLen:   1,
			wantValue: float64(4),
		},
		{
			name:    "Method3 with string input",
			method:  "Method3",
			args:    []any{"2"},
			wantErr: ErrInvalidArgumentValue,
		},
		{
			name:      "Method4 with slice input",
			method:    "Method4",
			args:      []any{[]float64{1, 2, 3}},
			wantLen:   1,
			wantValue: 3,
		},
		{
			name:    "Method4 with incorrect args count",
			method:  "Method4",
			args:    []any{[]float64{1}, []float64{2}},
			wantErr: ErrIncorrectArgumentCount,
		},
		{
			name:    "Method5 with no results",
			method:  "Method5",
			args:    []any{"stored"},
			wantLen: 0,
		},
		{
			name:      "Method6 with underlying kind converted",
			method:    "Method6",
			args:      []any{float64(20)},
			wantLen:   1,
			wantValue: Celsius(21),
		},
		{
			name:      "Method7 with variadic tail",
			method:    "Method7",
			args:      []any{"-", "a", "b", "c"},
			wantLen:   1,
			wantValue: "a-b-c",
		},
		{
			name:      "Method7 with empty variadic tail",
			method:    "Method7",
			args:      []any{"-"},
			wantLen:   1,
			wantValue: "",
		},
		{
			name:    "Method7 without fixed arguments",
			method:  "Method7",
			args:    []any{},
			wantErr: ErrIncorrectArgumentCount,
		},
		{
			name:      "Method10 with int in range",
			method:    "Method10",
			args:      []any{100},
			wantLen:   1,
			wantValue: int8(100),
		},
		{
			name:    "Method10 with int overflow",
			method:  "Method10",
			args:    []any{300},
			wantErr: ErrInvalidArgumentValue,
		},
		{
			name:    "Method10 with int underflow",
			method:  "Method10",
			args:    []any{-129},
			wantErr: ErrInvalidArgumentValue,
		},
		{
			name:      "Method10 with whole float",
			method:    "Method10",
			args:      []any{float64(-7)},
			wantLen:   1,
			wantValue: int8(-7),
		},
		{
			name:    "Method10 with fractional float",
			method:  "Method10",
			args:    []any{2.9},
			wantErr: ErrInvalidArgumentValue,
		},
		{
			name:    "Method10 with uint overflow",
			method:  "Method10",
			args:    []any{uint64(1 << 63)},
			wantErr: ErrInvalidArgumentValue,
		},
		{
			name:      "Method11 with uint8",
			method:    "Method11",
			args:      []any{uint8(200)},
			wantLen:   1,
			wantValue: uint16(200),
		},
		{
			name:    "Method11 with negative int",
			method:  "Method11",
			args:    []any{-1},
			wantErr: ErrInvalidArgumentValue,
		},
		{
			name:    "Method11 with float overflow",
			method:  "Method11",
			args:    []any{float64(70000)},
			wantErr: ErrInvalidArgumentValue,
		},
		{
			name:    "Method3 with int beyond float precision",
			method:  "Method3",
			args:    []any{int64(1<<53 + 1)},
			wantErr: ErrInvalidArgumentValue,
		},
		{
			name:      "Method6 with float32",
			method:    "Method6",
			args:      []any{float32(1.5)},
			wantLen:   1,
			wantValue: Celsius(2.5),
		},
		{
			name:      "Method9 with nil interface",
			method:    "Method9",
			args:      []any{nil},
			wantLen:   1,
			wantValue: "<nil>",
		},
		{
			name:      "Method9 with interface implementation",
			method:    "Method9",
			args:      []any{time.Second},
			wantLen:   1,
			wantValue: "1s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Call(input, tt.method, tt.args...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, resp)
				return
			}

			require.NoError(t, err)
			require.Len(t, resp, tt.wantLen)
			if tt.wantValue != nil {
				require.Equal(t, tt.wantValue, resp[0])
			}
		})
	}

	require.Equal(t, "stored", input.last)
}

func TestCallReturnsErrorValue(t *testing.T) {
	input := &TestStructForCall{}

	resp, err := Call(input, "Method8", true)
	require.NoError(t, err)
	require.Len(t, resp, 2)
	require.Equal(t, 0, resp[0])
	require.EqualError(t, resp[1].(error), "failed")

	resp, err = Call(input, "Method8", false)
	require.NoError(t, err)
	require.Equal(t, 1, resp[0])
	require.Nil(t, resp[1])
}

func TestCallOnNil(t *testing.T) {
	_, err := Call(nil, "Method1", nil)
	require.ErrorIs(t, err, ErrMethodNotFound)

	var typed *TestStructForCall
	_, err = Call(typed, "Method1", nil)
	require.ErrorIs(t, err, ErrMethodNotFound)
}
