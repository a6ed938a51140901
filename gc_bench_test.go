package gcarena

import "testing"

func BenchmarkAllocate(b *testing.B) {
	arena := New(ArenaParameters{}, func(mc *MutationContext) GcCell[GcSlice[int]] {
		return AllocateCell(mc, GcSlice[int]{})
	})

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		arena.Mutate(func(mc *MutationContext, root GcCell[GcSlice[int]]) {
			g := Allocate(mc, i)
			w := root.Write(mc)
			*w.Value() = append(*w.Value(), g)
			w.Close()
		})
	}
}

func BenchmarkCollectDebt(b *testing.B) {
	arena := New(DefaultArenaParameters(), func(mc *MutationContext) GcCell[GcSlice[int]] {
		return AllocateCell(mc, GcSlice[int]{})
	})

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		arena.Mutate(func(mc *MutationContext, root GcCell[GcSlice[int]]) {
			w := root.Write(mc)
			*w.Value() = append(*w.Value(), Allocate(mc, i))
			if len(*w.Value()) > 64 {
				*w.Value() = (*w.Value())[1:]
			}
			w.Close()
		})
		arena.CollectDebt()
	}
}

func BenchmarkCellReadWrite(b *testing.B) {
	arena := New(ArenaParameters{}, func(mc *MutationContext) GcCell[int] {
		return AllocateCell(mc, 0)
	})

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		arena.Mutate(func(mc *MutationContext, root GcCell[int]) {
			w := root.Write(mc)
			*w.Value()++
			w.Close()

			r := root.Read()
			_ = *r.Value()
			r.Close()
		})
	}
}

func BenchmarkWeakUpgrade(b *testing.B) {
	var weak GcWeak[int]
	arena := New(ArenaParameters{}, func(mc *MutationContext) Gc[int] {
		target := Allocate(mc, 0)
		weak = Downgrade(target)
		return target
	})

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		arena.Mutate(func(mc *MutationContext, root Gc[int]) {
			if _, ok := weak.Upgrade(mc); !ok {
				b.Fatal("expected upgrade to succeed for the lifetime of this benchmark")
			}
		})
	}
}

func BenchmarkCollectAllFullGraph(b *testing.B) {
	for i := 0; i < b.N; i++ {
		arena := New(ArenaParameters{}, func(mc *MutationContext) GcCell[GcSlice[int]] {
			items := make(GcSlice[int], 0, 1000)
			for j := 0; j < 1000; j++ {
				items = append(items, Allocate(mc, j))
			}
			return AllocateCell(mc, items)
		})
		arena.CollectAll()
	}
}
