package gcarena

import (
	"strings"
	"testing"
)

func TestImprovedErrorMessages(t *testing.T) {
	t.Run("use after free shows hint", func(t *testing.T) {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("expected panic")
			}

			msg := r.(string)
			if !strings.Contains(msg, "use after free") {
				t.Errorf("expected 'use after free', got: %s", msg)
			}
			if !strings.Contains(msg, "Hint:") {
				t.Errorf("expected hint, got: %s", msg)
			}

			t.Logf("Good error message:\n%s", msg)
		}()

		a := New(ArenaParameters{}, func(mc *MutationContext) Gc[int] {
			return Allocate(mc, 42)
		})
		a.Free()
		a.Mutate(func(mc *MutationContext, root Gc[int]) {
			_ = *root.Value() // should panic
		})
	})

	t.Run("double free shows hint", func(t *testing.T) {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("expected panic")
			}

			msg := r.(string)
			if !strings.Contains(msg, "freed twice") {
				t.Errorf("expected 'freed twice', got: %s", msg)
			}
			if !strings.Contains(msg, "Hint:") {
				t.Errorf("expected hint, got: %s", msg)
			}

			t.Logf("Good error message:\n%s", msg)
		}()

		a := New(ArenaParameters{}, func(mc *MutationContext) struct{} { return struct{}{} })
		a.Free()
		a.Free() // should panic with helpful message
	})

	t.Run("recursive mutate shows hint", func(t *testing.T) {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("expected panic")
			}

			msg := r.(string)
			if !strings.Contains(msg, "recursive Mutate") {
				t.Errorf("expected 'recursive Mutate', got: %s", msg)
			}
			if !strings.Contains(msg, "Hint:") {
				t.Errorf("expected hint, got: %s", msg)
			}
		}()

		a := New(ArenaParameters{}, func(mc *MutationContext) struct{} { return struct{}{} })
		a.Mutate(func(mc *MutationContext, _ struct{}) {
			a.Mutate(func(mc *MutationContext, _ struct{}) {})
		})
	})

	t.Run("borrow conflict shows hint", func(t *testing.T) {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("expected panic")
			}

			msg := r.(string)
			if !strings.Contains(msg, "borrowed") {
				t.Errorf("expected a borrow-related message, got: %s", msg)
			}
			if !strings.Contains(msg, "Hint:") {
				t.Errorf("expected hint, got: %s", msg)
			}
		}()

		a := New(ArenaParameters{}, func(mc *MutationContext) GcCell[int] {
			return AllocateCell(mc, 0)
		})
		a.Mutate(func(mc *MutationContext, root GcCell[int]) {
			g1 := root.Write(mc)
			defer g1.Close()
			_ = root.Write(mc) // should panic: already exclusively borrowed
		})
	})
}
