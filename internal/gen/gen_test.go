package gen

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trackerDir = "testdata/tracker"

func TestGenerateSamePackage(t *testing.T) {
	src, err := Generate(Config{Dir: trackerDir})
	require.NoError(t, err)

	_, err = parser.ParseFile(token.NewFileSet(), "tracker_proxy.go", src, parser.AllErrors)
	require.NoError(t, err, string(src))

	code := string(src)

	assert.Contains(t, code, "// Code generated by proxygen. DO NOT EDIT.")
	assert.Contains(t, code, "package tracker")
	assert.Contains(t, code, `"github.com/anoideaopen/delegate/core/proxy"`)
	assert.Contains(t, code, `"context"`)

	for _, want := range []string{
		"type TrackerProxy struct",
		"type LifecycleProxy struct",
		"type InternalProxy struct",
		"var _ Tracker = TrackerProxy{}",
		"func NewTrackerProxy(p *proxy.Proxy) TrackerProxy",
		"func (tracker TrackerProxy) Allow(arg0 string, arg1 ...string) (bool, error)",
		"proxy.As[interface{ Allow(string, ...string) (bool, error) }](tracker.p)",
		"return impl.Allow(arg0, arg1...)",
		"return proxy.Fallback[bool](tracker.p), *new(error)",
		"return proxy.Fallback[float64](tracker.p), *new(error)",
		"return proxy.Fallback[Status](tracker.p)",
		"impl.DidStop(arg0)",
		"func (internal InternalProxy) sync() error",
	} {
		assert.Contains(t, code, want)
	}

	for _, skipped := range []string{"HandlerProxy", "NumberProxy", "ConfigProxy", "hiddenProxy"} {
		assert.NotContains(t, code, skipped)
	}
}

func TestGenerateExternalPackage(t *testing.T) {
	src, err := Generate(Config{
		Dir:     trackerDir,
		Types:   []string{"Tracker"},
		Package: "adapters",
	})
	require.NoError(t, err)

	_, err = parser.ParseFile(token.NewFileSet(), "adapters.go", src, parser.AllErrors)
	require.NoError(t, err, string(src))

	code := string(src)

	assert.Contains(t, code, "package adapters")
	assert.Contains(t, code, `"github.com/anoideaopen/delegate/internal/gen/testdata/tracker"`)
	assert.Contains(t, code, "var _ tracker.Tracker = TrackerProxy{}")
	assert.Contains(t, code, "func (trackerProxy TrackerProxy) Status() tracker.Status")
	assert.Contains(t, code, "return proxy.Fallback[tracker.Status](trackerProxy.p)")
	assert.NotContains(t, code, "LifecycleProxy")
}

func TestGenerateErrors(t *testing.T) {
	testCases := []struct {
		name string
		cfg  Config
		err  error
	}{
		{
			name: "unknown type",
			cfg:  Config{Dir: trackerDir, Types: []string{"Missing"}},
			err:  ErrTypeNotFound,
		},
		{
			name: "struct",
			cfg:  Config{Dir: trackerDir, Types: []string{"Config"}},
			err:  ErrNotInterface,
		},
		{
			name: "constraint",
			cfg:  Config{Dir: trackerDir, Types: []string{"Number"}},
			err:  ErrNotInterface,
		},
		{
			name: "generic",
			cfg:  Config{Dir: trackerDir, Types: []string{"Handler"}},
			err:  ErrGenericInterface,
		},
		{
			name: "unexported method from another package",
			cfg:  Config{Dir: trackerDir, Types: []string{"Internal"}, Package: "adapters"},
			err:  ErrUnexportedMethod,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Generate(tc.cfg)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestReceiverName(t *testing.T) {
	testCases := map[string]string{
		"Tracker": "tracker",
		"Ok":      "okProxy",
		"Impl":    "implProxy",
		"Args":    "argsProxy",
		"String":  "stringProxy",
		"Error":   "errorProxy",
	}

	for in, want := range testCases {
		assert.Equal(t, want, receiverName(in), in)
	}

	assert.Equal(t, "proxyProxy", receiverName("Proxy", "proxy"))
	assert.Equal(t, "trackerProxy", receiverName("Tracker", "proxy", "tracker"))
}
