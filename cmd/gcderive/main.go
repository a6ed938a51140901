// Command gcderive generates NeedsTrace/Trace method bodies for composite
// struct types from their field lists — the Go analogue of the #[derive(Collect)]
// macro the collector was modeled on. Run it against a package path with
// -type naming the struct to derive for:
//
//	gcderive -type mygame.Room -out room_collect.go ./...
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/tools/go/packages"
)

func main() {
	typeName := flag.String("type", "", "package-qualified struct type to derive Collect for, e.g. mygame.Room")
	out := flag.String("out", "", "output file (defaults to stdout)")
	flag.Parse()

	if *typeName == "" {
		fmt.Fprintln(os.Stderr, "gcderive: -type is required")
		os.Exit(2)
	}
	patterns := flag.Args()
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	cfg := &packages.Config{Mode: packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax | packages.NeedName}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gcderive: loading packages: %v\n", err)
		os.Exit(1)
	}
	if packages.PrintErrors(pkgs) > 0 {
		os.Exit(1)
	}

	src, err := Generate(pkgs, *typeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gcderive: %v\n", err)
		os.Exit(1)
	}

	if *out == "" {
		os.Stdout.Write(src)
		return
	}
	if err := os.WriteFile(*out, src, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "gcderive: writing %s: %v\n", *out, err)
		os.Exit(1)
	}
}
