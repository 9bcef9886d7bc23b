// Package sigcache holds the signature cache shared by all proxies of a runtime.
//
// The cache is read-mostly and copy-on-write. Readers load the installed
// [Snapshot] through a single atomic pointer and never lock. Writers collect
// their changes in a [Pending] set without holding any lock, then [Cache.Commit]
// copies the installed snapshot, applies the pending writes and swaps the
// pointer while holding the write mutex.
//
// The cache only grows. A signature stored for a method is never replaced or
// removed, and scanned markers are never cleared.
package sigcache

import (
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/anoideaopen/delegate/core/protocol"
	"github.com/anoideaopen/delegate/core/reflectx"
	"github.com/anoideaopen/delegate/core/signature"
)

// Key identifies a scanned class or protocol. Keys compare by type identity,
// so distinct types sharing a name never collide.
type Key struct {
	kind string
	name string
	typ  reflect.Type
}

// ClassKey is the scanned-marker key of a delegate class. Pointer and value
// types share one key.
func ClassKey(t reflect.Type) Key {
	return Key{kind: "class", typ: reflectx.Indirect(t)}
}

// ProtocolKey is the scanned-marker key of a protocol.
func ProtocolKey(p *protocol.Protocol) Key {
	return Key{kind: "protocol", name: p.Name(), typ: p.Type()}
}

func (k Key) String() string {
	if k.name != "" {
		return k.kind + ":" + k.name + "@" + reflectx.TypeName(k.typ)
	}

	return k.kind + ":" + reflectx.TypeName(k.typ)
}

type classMethod struct {
	class  reflect.Type
	method string
}

// Snapshot is an immutable view of the cache.
//
// It holds two indexes. The class index maps a delegate class and a method to
// the signature declared by the protocols of that class. The method index maps
// a method name alone to the first signature cached for it and serves lookups
// where the class is unknown.
type Snapshot struct {
	scanned    map[Key]struct{}
	signatures map[string]*signature.Signature
	classes    map[classMethod]*signature.Signature
}

var emptySnapshot = &Snapshot{
	scanned:    map[Key]struct{}{},
	signatures: map[string]*signature.Signature{},
	classes:    map[classMethod]*signature.Signature{},
}

// Signature returns the signature of the method from the method index.
func (s *Snapshot) Signature(method string) (*signature.Signature, bool) {
	sig, ok := s.signatures[method]
	return sig, ok
}

// ClassSignature returns the signature the protocols of class declare for the method.
func (s *Snapshot) ClassSignature(class reflect.Type, method string) (*signature.Signature, bool) {
	sig, ok := s.classes[classMethod{class: reflectx.Indirect(class), method: method}]
	return sig, ok
}

// Scanned reports whether the class or protocol key has been scanned.
func (s *Snapshot) Scanned(key Key) bool {
	_, ok := s.scanned[key]
	return ok
}

// Len returns the number of signatures in the method index.
func (s *Snapshot) Len() int { return len(s.signatures) }

// Methods returns the sorted names of the methods in the method index.
func (s *Snapshot) Methods() []string {
	names := make([]string, 0, len(s.signatures))
	for name := range s.signatures {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

type classEntry struct {
	key classMethod
	sig *signature.Signature
}

// Pending is a private set of writes waiting to be committed.
// It is not safe for concurrent use.
type Pending struct {
	scanned    []Key
	signatures []*signature.Signature
	classes    []classEntry
	marked     map[Key]struct{}
}

// MarkScanned records that the key has been scanned. It returns false when the
// key was already marked in this pending set.
func (p *Pending) MarkScanned(key Key) bool {
	if p.marked == nil {
		p.marked = make(map[Key]struct{})
	}

	if _, ok := p.marked[key]; ok {
		return false
	}

	p.marked[key] = struct{}{}
	p.scanned = append(p.scanned, key)

	return true
}

// Marked reports whether the key was marked in this pending set.
func (p *Pending) Marked(key Key) bool {
	_, ok := p.marked[key]
	return ok
}

// Put queues a signature for the method index.
func (p *Pending) Put(sig *signature.Signature) {
	if sig != nil {
		p.signatures = append(p.signatures, sig)
	}
}

// PutClass queues a signature for the class index.
func (p *Pending) PutClass(class reflect.Type, sig *signature.Signature) {
	if class == nil || sig == nil {
		return
	}

	p.classes = append(p.classes, classEntry{
		key: classMethod{class: reflectx.Indirect(class), method: sig.Name()},
		sig: sig,
	})
}

// Empty reports whether there is nothing to commit.
func (p *Pending) Empty() bool {
	return len(p.scanned) == 0 && len(p.signatures) == 0 && len(p.classes) == 0
}

// Cache is a copy-on-write signature cache. The zero value is ready to use.
type Cache struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{}
}

// Load returns the installed snapshot.
func (c *Cache) Load() *Snapshot {
	if s := c.current.Load(); s != nil {
		return s
	}

	return emptySnapshot
}

// Lookup returns the signature of the method from the method index.
func (c *Cache) Lookup(method string) (*signature.Signature, bool) {
	return c.Load().Signature(method)
}

// LookupClass returns the signature of the method from the class index.
func (c *Cache) LookupClass(class reflect.Type, method string) (*signature.Signature, bool) {
	return c.Load().ClassSignature(class, method)
}

// Scanned reports whether the key has been scanned.
func (c *Cache) Scanned(key Key) bool {
	return c.Load().Scanned(key)
}

// Commit installs the pending writes on top of the current snapshot. It returns
// the number of signatures added to the method index and whether a new snapshot
// was installed. Entries already cached are kept and pending ones for the same
// method, or the same class and method, are dropped.
func (c *Cache) Commit(p *Pending) (added int, installed bool) {
	if p == nil || p.Empty() {
		return 0, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.Load()
	next := &Snapshot{
		scanned:    make(map[Key]struct{}, len(cur.scanned)+len(p.scanned)),
		signatures: make(map[string]*signature.Signature, len(cur.signatures)+len(p.signatures)),
		classes:    make(map[classMethod]*signature.Signature, len(cur.classes)+len(p.classes)),
	}

	for k := range cur.scanned {
		next.scanned[k] = struct{}{}
	}

	for k, v := range cur.signatures {
		next.signatures[k] = v
	}

	for k, v := range cur.classes {
		next.classes[k] = v
	}

	changed := false
	for _, k := range p.scanned {
		if _, ok := next.scanned[k]; !ok {
			next.scanned[k] = struct{}{}
			changed = true
		}
	}

	for _, e := range p.classes {
		if _, ok := next.classes[e.key]; !ok {
			next.classes[e.key] = e.sig
			changed = true
		}
	}

	for _, sig := range p.signatures {
		if _, ok := next.signatures[sig.Name()]; ok {
			continue
		}

		next.signatures[sig.Name()] = sig
		added++
	}

	if !changed && added == 0 {
		return 0, false
	}

	c.current.Store(next)

	return added, true
}
