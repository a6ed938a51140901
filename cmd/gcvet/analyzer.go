// Package main implements gcvet, a go/analysis checker that flags direct
// writes to Gc-typed struct fields — the one mutation path that bypasses
// GcCell's write barrier and can leave a Black container holding an edge to
// a White box between collector steps.
package main

import (
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/buildssa"
	"golang.org/x/tools/go/ssa"
)

var Analyzer = &analysis.Analyzer{
	Name:     "gcvet",
	Doc:      "checks for writes to Gc-typed fields that bypass GcCell's write barrier",
	Run:      run,
	Requires: []*analysis.Analyzer{buildssa.Analyzer},
}

func run(pass *analysis.Pass) (interface{}, error) {
	ssaProg := pass.ResultOf[buildssa.Analyzer].(*buildssa.SSA)

	for _, fn := range ssaProg.SrcFuncs {
		if fn == nil || fn.Blocks == nil {
			continue
		}
		checkFunction(pass, fn)
	}

	return nil, nil
}

// checkFunction walks every store in fn looking for an assignment whose
// address is a field of a managed, non-cell Gc[T] type. A field store made
// directly on the pointer a CellWriteGuard's Value returns is skipped: Write
// already armed the barrier before handing that pointer out.
func checkFunction(pass *analysis.Pass, fn *ssa.Function) {
	for _, block := range fn.Blocks {
		for _, instr := range block.Instrs {
			store, ok := instr.(*ssa.Store)
			if !ok {
				continue
			}

			fieldAddr, ok := store.Addr.(*ssa.FieldAddr)
			if !ok {
				continue
			}

			if call, ok := fieldAddr.X.(*ssa.Call); ok {
				callee := call.Call.StaticCallee()
				if callee != nil && callee.Object() != nil && callee.Object().Name() == "Value" {
					if recv := callee.Signature.Recv(); recv != nil {
						if ptr, ok := recv.Type().(*types.Pointer); ok {
							if named, ok := ptr.Elem().(*types.Named); ok && named.Obj().Name() == "CellWriteGuard" {
								continue
							}
						}
					}
				}
			}

			structType, ok := derefStruct(fieldAddr.X.Type())
			if !ok {
				continue
			}
			field := structType.Field(fieldAddr.Field)
			if !isGcType(field.Type()) {
				continue
			}

			pass.Reportf(store.Pos(),
				"direct write to Gc-typed field %s bypasses the write barrier; wrap it in a GcCell and use Write(mc) instead",
				field.Name())
		}
	}
}

func derefStruct(t types.Type) (*types.Struct, bool) {
	if ptr, ok := t.Underlying().(*types.Pointer); ok {
		t = ptr.Elem()
	}
	st, ok := t.Underlying().(*types.Struct)
	return st, ok
}

// isGcType reports whether t is gcarena.Gc[T] (not GcCell[T], which is the
// sanctioned mutation path and is deliberately excluded here).
func isGcType(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	if obj.Pkg() == nil {
		return false
	}
	return strings.HasSuffix(obj.Pkg().Path(), "gcarena") && obj.Name() == "Gc"
}
