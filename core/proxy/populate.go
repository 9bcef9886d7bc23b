package proxy

import (
	"context"
	"reflect"

	"github.com/anoideaopen/delegate/core/protocol"
	"github.com/anoideaopen/delegate/core/reflectx"
	"github.com/anoideaopen/delegate/core/sigcache"
	"github.com/anoideaopen/delegate/core/telemetry"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// Populate caches the signatures of every protocol declared by the class t and
// by the classes it embeds, and returns the number of signatures added to the
// method index. Each walked class also gets its own entries in the class index,
// so classes declaring the same method with different signatures never share a
// default. Classes already scanned are skipped, so repeated calls are cheap.
func (rt *Runtime) Populate(t reflect.Type) int {
	t = reflectx.Indirect(t)
	if t == nil || t.Kind() == reflect.Interface || rt.cache.Scanned(sigcache.ClassKey(t)) {
		return 0
	}

	className := reflectx.TypeName(t)

	_, span := rt.tracer.Start(
		context.Background(),
		telemetry.SpanPopulate,
		trace.WithAttributes(telemetry.Class(className)),
	)
	defer span.End()

	var (
		snap    = rt.cache.Load()
		pending = new(sigcache.Pending)
	)

	for _, class := range protocol.Ancestors(t) {
		key := sigcache.ClassKey(class)
		if snap.Scanned(key) || !pending.MarkScanned(key) {
			continue
		}

		seen := make(map[*protocol.Protocol]struct{})
		for _, owner := range protocol.Ancestors(class) {
			for _, p := range rt.registry.ProtocolsOf(owner) {
				scanProtocol(class, p, snap, pending, seen)
			}
		}
	}

	added, installed := rt.cache.Commit(pending)
	span.SetAttributes(telemetry.SignaturesAdded(added))

	if !installed {
		return 0
	}

	entries := rt.cache.Load().Len()
	rt.metrics.Populated(entries)

	rt.log.WithFields(logrus.Fields{
		"class":   className,
		"added":   added,
		"entries": entries,
	}).Debug("signature cache populated")

	return added
}

// scanProtocol queues the declarations of p and its parents in the class index
// of class. The method index only receives protocols not scanned before.
func scanProtocol(
	class reflect.Type,
	p *protocol.Protocol,
	snap *sigcache.Snapshot,
	pending *sigcache.Pending,
	seen map[*protocol.Protocol]struct{},
) {
	if _, ok := seen[p]; ok {
		return
	}
	seen[p] = struct{}{}

	key := sigcache.ProtocolKey(p)
	index := !snap.Scanned(key) && !pending.Marked(key)
	if index {
		pending.MarkScanned(key)
	}

	for _, method := range p.Methods() {
		sig, ok := p.Signature(method)
		if !ok {
			continue
		}

		pending.PutClass(class, sig)
		if index {
			pending.Put(sig)
		}
	}

	for _, parent := range p.Parents() {
		scanProtocol(class, parent, snap, pending, seen)
	}
}
