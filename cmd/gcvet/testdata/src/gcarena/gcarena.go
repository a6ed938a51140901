// Package gcarena is a minimal stand-in for the real collector package,
// just enough for gcvet's analyzer tests to resolve a Gc[T] type by import
// path without depending on the full module.
package gcarena

type Gc[T any] struct {
	box *int
}

type GcCell[T any] struct {
	box *int
}
