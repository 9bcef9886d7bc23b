// Package proxy implements a delegate proxy: a value that stands in for an
// optional delegate and can be called as if it were one.
//
// A call the current delegate implements is forwarded to it. Any other call,
// including every call while there is no delegate, does nothing and returns the
// zero values of the method results. The defaulting variant returns true
// instead when the first result of the method is a boolean, which suits the
// "should I proceed" style of optional callbacks.
//
// Defaults need the method signature. It is taken from the delegate, then from
// the signature cache of the [Runtime], then from a scan over every registered
// class. The cache is filled when a proxy over a new delegate class is created:
// the protocols the class and its embedded classes declare are recorded, see
// package protocol.
//
// Example:
//
//	type Navigation interface {
//	    ShouldStart(url string) bool
//	}
//
//	protocol.MustRegister((*Browser)(nil), protocol.New[Navigation]("Navigation"))
//
//	p := proxy.New((*Browser)(nil)).Defaulting()
//	out, err := p.Call("ShouldStart", "https://example.com") // [true], nil
//
// The typed helpers As, Invoke and Do give the same behaviour without
// reflection for code that knows the interface at compile time. cmd/proxygen
// generates adapters built on them.
package proxy
