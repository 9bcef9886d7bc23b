package proxy

import (
	"reflect"

	"github.com/anoideaopen/delegate/core/metrics"
)

// As returns the current delegate as T when it implements T.
//
// T is usually a single-method interface, which turns a Go method set check
// into the "does the delegate respond to this" question:
//
//	if d, ok := proxy.As[interface{ DidFinish(string) }](p); ok {
//	    d.DidFinish(url)
//	}
func As[T any](p *Proxy) (T, bool) {
	var zero T
	if p == nil {
		return zero, false
	}

	d, ok := p.Delegate().(T)
	if !ok {
		return zero, false
	}

	return d, true
}

// Fallback returns the answer p gives for an unhandled call with result type T:
// true for boolean kinds on a defaulting proxy, the zero value otherwise.
func Fallback[T any](p *Proxy) T {
	var v T
	if p == nil || !p.defaulting {
		return v
	}

	rv := reflect.ValueOf(&v).Elem()
	if rv.Kind() == reflect.Bool {
		rv.SetBool(true)
	}

	return v
}

// Invoke calls fn with the delegate when it implements T and returns its
// result. Otherwise it returns Fallback[R](p).
func Invoke[T, R any](p *Proxy, fn func(T) R) R {
	if d, ok := As[T](p); ok {
		p.rt.metrics.Call(metrics.PathForwarded)
		return fn(d)
	}

	if p != nil {
		p.rt.metrics.Call(metrics.PathDefaulted)
	}

	return Fallback[R](p)
}

// Do calls fn with the delegate when it implements T.
func Do[T any](p *Proxy, fn func(T)) {
	if d, ok := As[T](p); ok {
		p.rt.metrics.Call(metrics.PathForwarded)
		fn(d)
		return
	}

	if p != nil {
		p.rt.metrics.Call(metrics.PathDefaulted)
	}
}
