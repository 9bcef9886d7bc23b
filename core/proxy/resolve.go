package proxy

import (
	"context"
	"fmt"
	"reflect"

	"github.com/anoideaopen/delegate/core/metrics"
	"github.com/anoideaopen/delegate/core/protocol"
	"github.com/anoideaopen/delegate/core/reflectx"
	"github.com/anoideaopen/delegate/core/sigcache"
	"github.com/anoideaopen/delegate/core/signature"
	"github.com/anoideaopen/delegate/core/telemetry"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ResolveFor returns the signature the protocols of class declare for the
// method. Without such a declaration it resolves the method like Resolve.
func (rt *Runtime) ResolveFor(class reflect.Type, method string) (*signature.Signature, error) {
	if class != nil {
		if sig, ok := rt.cache.LookupClass(class, method); ok {
			rt.metrics.Lookup(true)
			return sig, nil
		}
	}

	return rt.Resolve(method)
}

// Resolve returns the signature of the method from the cache, falling back to
// a scan of every registered class when enabled.
func (rt *Runtime) Resolve(method string) (*signature.Signature, error) {
	if sig, ok := rt.cache.Lookup(method); ok {
		rt.metrics.Lookup(true)
		return sig, nil
	}

	rt.metrics.Lookup(false)

	if !rt.scan {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedSignature, method)
	}

	v, err, _ := rt.flight.Do(method, func() (any, error) {
		return rt.scanClasses(method)
	})
	if err != nil {
		return nil, err
	}

	return v.(*signature.Signature), nil //nolint:forcetypeassert
}

// scanClasses asks every registered class for the signature of the method and
// accepts it only when all answers agree. The accepted signature is cached.
func (rt *Runtime) scanClasses(method string) (*signature.Signature, error) {
	if sig, ok := rt.cache.Lookup(method); ok {
		return sig, nil
	}

	_, span := rt.tracer.Start(
		context.Background(),
		telemetry.SpanFallbackScan,
		trace.WithAttributes(telemetry.Method(method)),
	)
	defer span.End()

	log := rt.log.WithField("method", method)

	var (
		found *signature.Signature
		from  reflect.Type
	)

	for _, class := range rt.registry.Classes() {
		for _, sig := range rt.answers(class, method) {
			if found == nil {
				found, from = sig, class.Type()
				continue
			}

			if !found.Equal(sig) {
				err := fmt.Errorf(
					"%w: %s: %s in %s, %s in %s",
					ErrAmbiguousSignature,
					method,
					found,
					reflectx.TypeName(from),
					sig,
					reflectx.TypeName(class.Type()),
				)

				rt.metrics.Scanned(metrics.ScanAmbiguous, rt.cache.Load().Len())
				span.SetAttributes(telemetry.Outcome(metrics.ScanAmbiguous))
				span.SetStatus(codes.Error, err.Error())
				log.WithError(err).Warn("no default for a method with conflicting signatures")

				return nil, err
			}
		}
	}

	if found == nil {
		err := fmt.Errorf("%w: %s", ErrUnresolvedSignature, method)

		rt.metrics.Scanned(metrics.ScanUnresolved, rt.cache.Load().Len())
		span.SetAttributes(telemetry.Outcome(metrics.ScanUnresolved))
		span.SetStatus(codes.Error, err.Error())
		log.Debug("no registered class knows the method")

		return nil, err
	}

	pending := new(sigcache.Pending)
	pending.Put(found)
	rt.cache.Commit(pending)

	// A concurrent writer may have cached the method first; the cached entry wins.
	sig, _ := rt.cache.Lookup(method)
	entries := rt.cache.Load().Len()

	rt.metrics.Scanned(metrics.ScanResolved, entries)
	span.SetAttributes(telemetry.Outcome(metrics.ScanResolved))
	log.WithFields(logrus.Fields{
		"signature": sig.String(),
		"class":     reflectx.TypeName(from),
	}).Debug("signature resolved by fallback scan")

	return sig, nil
}

// answers returns what a class reports for the method: the signatures from its
// pointer and value method sets or, when it does not implement the method,
// the declarations of its protocols.
func (rt *Runtime) answers(class *protocol.Class, method string) []*signature.Signature {
	var out []*signature.Signature

	for _, t := range []reflect.Type{reflect.PointerTo(class.Type()), class.Type()} {
		if sig, ok := signature.Method(t, method); ok {
			out = append(out, sig)
		}
	}

	if len(out) > 0 {
		return out
	}

	for _, p := range rt.registry.ProtocolsOf(class.Type()) {
		if sig, ok := p.Signature(method); ok {
			out = append(out, sig)
		}
	}

	return out
}
