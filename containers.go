package gcarena

// GcSlice and GcMap are small generic container wrappers that give a slice
// or map of managed pointers a Trace method, the same role Vec<Gc<'gc, T>>
// and HashMap<K, Gc<'gc, T>> play in the original's own test suite. Go
// cannot attach methods to an unnamed []Gc[T] or map[K]Gc[V] instantiation,
// so these are thin named types over exactly that shape.

// GcSlice is a slice of strong pointers that traces every element.
type GcSlice[T any] []Gc[T]

func (s GcSlice[T]) NeedsTrace() bool { return true }

func (s GcSlice[T]) Trace(cc *CollectionContext) {
	for _, g := range s {
		g.Trace(cc)
	}
}

// GcMap is a map whose values are strong pointers; Trace visits every
// value (keys, by construction, are ordinary comparable Go values and
// never managed pointers).
type GcMap[K comparable, V any] map[K]Gc[V]

func (m GcMap[K, V]) NeedsTrace() bool { return true }

func (m GcMap[K, V]) Trace(cc *CollectionContext) {
	for _, g := range m {
		g.Trace(cc)
	}
}
