package protocol

import (
	"reflect"

	"github.com/anoideaopen/delegate/core/reflectx"
)

// Ancestors returns t with pointers stripped, followed by every struct type it
// embeds, breadth-first and without duplicates. Embedding is the closest Go
// has to a superclass chain: the embedding type inherits the embedded methods.
func Ancestors(t reflect.Type) []reflect.Type {
	t = reflectx.Indirect(t)
	if t == nil {
		return nil
	}

	var (
		out   []reflect.Type
		seen  = map[reflect.Type]struct{}{t: {}}
		queue = []reflect.Type{t}
	)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)

		if cur.Kind() != reflect.Struct {
			continue
		}

		for i := 0; i < cur.NumField(); i++ {
			f := cur.Field(i)
			if !f.Anonymous {
				continue
			}

			embedded := reflectx.Indirect(f.Type)
			if embedded.Kind() == reflect.Interface {
				continue
			}

			if _, ok := seen[embedded]; ok {
				continue
			}

			seen[embedded] = struct{}{}
			queue = append(queue, embedded)
		}
	}

	return out
}
