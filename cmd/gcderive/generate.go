package main

import (
	"bytes"
	"fmt"
	"go/types"
	"sort"
	"strings"
	"text/template"

	"golang.org/x/tools/go/packages"
)

// Generate locates qualifiedType (e.g. "mygame.Room") among pkgs and
// returns the generated NeedsTrace/Trace method bodies as formatted Go
// source.
func Generate(pkgs []*packages.Package, qualifiedType string) ([]byte, error) {
	dot := strings.LastIndexByte(qualifiedType, '.')
	if dot < 0 {
		return nil, fmt.Errorf("-type must be package-qualified, e.g. mygame.Room (got %q)", qualifiedType)
	}
	pkgName, typeName := qualifiedType[:dot], qualifiedType[dot+1:]

	for _, pkg := range pkgs {
		if pkg.Name != pkgName && pkg.PkgPath != pkgName {
			continue
		}
		obj := pkg.Types.Scope().Lookup(typeName)
		if obj == nil {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok {
			return nil, fmt.Errorf("%s is not a named type", qualifiedType)
		}
		st, ok := named.Underlying().(*types.Struct)
		if !ok {
			return nil, fmt.Errorf("%s is not a struct type", qualifiedType)
		}
		return generateForStruct(pkg.Name, named, st)
	}

	return nil, fmt.Errorf("type %s not found in the loaded packages", qualifiedType)
}

const collectTemplate = `// Code generated by gcderive. DO NOT EDIT.

package {{.Package}}

import "github.com/arenagc/gcarena"

// NeedsTrace reports whether {{.Type}} reaches any managed pointer.
func (v {{.Type}}) NeedsTrace() bool {
	{{- if .Fields}}
	return gcarena.Traceable(
		{{- range .Fields}}
		v.{{.}}.NeedsTrace(),
		{{- end}}
	)
	{{- else}}
	return false
	{{- end}}
}

// Trace visits every traceable field of {{.Type}}.
func (v {{.Type}}) Trace(cc *gcarena.CollectionContext) {
	{{- if .Fields}}
	gcarena.TraceAll(cc,
		{{- range .Fields}}
		v.{{.}},
		{{- end}}
	)
	{{- end}}
}
`

type collectData struct {
	Package string
	Type    string
	Fields  []string
}

// traceableMethodSet is the method set a field's type must carry to count
// as an edge in the managed graph: NeedsTrace() bool and
// Trace(*gcarena.CollectionContext). Fields without it (plain ints,
// strings, host-owned values) are left out of the generated body entirely,
// the same way a primitive has no blanket Collect impl in the original.
func isTraceableField(t types.Type) bool {
	ms := types.NewMethodSet(t)
	hasNeedsTrace := false
	hasTrace := false
	for i := 0; i < ms.Len(); i++ {
		switch ms.At(i).Obj().Name() {
		case "NeedsTrace":
			hasNeedsTrace = true
		case "Trace":
			hasTrace = true
		}
	}
	return hasNeedsTrace && hasTrace
}

// isManagedPointerField reports whether t is gcarena.Gc[T] or
// gcarena.GcCell[T] specifically, the two field types MustNotImplDrop
// guards against appearing inside a type with an unsafe Finalize.
func isManagedPointerField(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	if obj.Pkg() == nil || !strings.HasSuffix(obj.Pkg().Path(), "gcarena") {
		return false
	}
	return obj.Name() == "Gc" || obj.Name() == "GcCell"
}

// checkMustNotImplDrop refuses to derive Collect for a type that defines a
// Finalize method while also holding a managed-pointer field, unless it
// opts out via an AllowsUnsafeFinalize() bool marker method — the runtime
// stand-in for the original's compile-time MustNotImplDrop bound, since Go
// has no linear "Drop" trait to forbid at the type-system level.
func checkMustNotImplDrop(named *types.Named, st *types.Struct) error {
	ms := types.NewMethodSet(types.NewPointer(named))
	hasFinalize := false
	hasEscape := false
	for i := 0; i < ms.Len(); i++ {
		switch ms.At(i).Obj().Name() {
		case "Finalize":
			hasFinalize = true
		case "AllowsUnsafeFinalize":
			hasEscape = true
		}
	}
	if !hasFinalize || hasEscape {
		return nil
	}
	for i := 0; i < st.NumFields(); i++ {
		if isManagedPointerField(st.Field(i).Type()) {
			return fmt.Errorf(
				"%s defines Finalize and holds a managed-pointer field %s; "+
					"Finalize must not touch managed pointers (they may already be swept) — "+
					"add an AllowsUnsafeFinalize() bool method to opt out of this check if that is intentional",
				named.Obj().Name(), st.Field(i).Name())
		}
	}
	return nil
}

func generateForStruct(pkgName string, named *types.Named, st *types.Struct) ([]byte, error) {
	if err := checkMustNotImplDrop(named, st); err != nil {
		return nil, err
	}

	var fields []string
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if isTraceableField(f.Type()) {
			fields = append(fields, f.Name())
		}
	}
	sort.Strings(fields)

	tmpl, err := template.New("collect").Parse(collectTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, collectData{
		Package: pkgName,
		Type:    named.Obj().Name(),
		Fields:  fields,
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
