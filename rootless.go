package gcarena

// Rootless runs f inside an ephemeral arena with a `struct{}` root, for
// tests and utilities that want a MutationContext without modeling a real
// root type. The arena is freed when f returns.
func Rootless(f func(mc *MutationContext)) {
	a := New(ArenaParameters{}, func(mc *MutationContext) struct{} {
		return struct{}{}
	})
	defer a.Free()
	a.Mutate(func(mc *MutationContext, _ struct{}) {
		f(mc)
	})
}
