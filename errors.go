package gcarena

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

// stackInfo captures a stack trace for debugging
type stackInfo struct {
	file string
	line int
	fn   string
}

// captureStack captures the stack location skip frames up, counted as
// runtime.Caller counts them (0 is captureStack itself)
func captureStack(skip int) *stackInfo {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return nil
	}

	fn := runtime.FuncForPC(pc)
	fnName := "unknown"
	if fn != nil {
		fnName = fn.Name()
		// Simplify function name
		if idx := strings.LastIndex(fnName, "/"); idx >= 0 {
			fnName = fnName[idx+1:]
		}
	}

	// Simplify file path
	if idx := strings.LastIndex(file, "/"); idx >= 0 {
		file = file[idx+1:]
	}

	return &stackInfo{
		file: file,
		line: line,
		fn:   fnName,
	}
}

// errorWithHint creates a panic message with helpful hints. Arenas are
// identified by uuid rather than a simple counter, since a program may run
// many short-lived arenas concurrently (one per goroutine) even though no
// single arena is ever touched from more than one goroutine.
func errorWithHint(arenaID uuid.UUID, errorType string, stack *stackInfo, hint string) string {
	var msg strings.Builder

	// Main error
	fmt.Fprintf(&msg, "arena %s: %s", arenaID, errorType)

	// Location
	if stack != nil {
		fmt.Fprintf(&msg, "\n  at %s:%d (%s)", stack.file, stack.line, stack.fn)
	}

	// Hint
	if hint != "" {
		fmt.Fprintf(&msg, "\n\n  \U0001F4A1 Hint: %s", hint)
	}

	return msg.String()
}

// Common hints
const (
	hintUseAfterFree       = "The box was swept before this access. Keep a path from the root to it, or copy the value out before it can become unreachable."
	hintDoubleFree         = "Arena.Free() was called twice. Make sure Free() is only called once, typically with defer."
	hintRecursiveMutate    = "Mutate() was called again from inside an already-active Mutate() callback on the same arena. Finish the outer callback first."
	hintBorrowConflict     = "The GcCell is already borrowed in a way that conflicts with this request. Close() the existing CellReadGuard/CellWriteGuard before taking another."
	hintStaleToken         = "A MutationContext was used after the callback that received it returned. Tokens are only valid for the duration of that callback."
	hintStaticRootReadDead = "The arena backing this static root has already been freed. A static root cannot outlive its arena."
	hintStaticRootReadBusy = "Arena.Free() was called from inside a static root's Read() callback. Let the read finish before freeing the arena."
)
