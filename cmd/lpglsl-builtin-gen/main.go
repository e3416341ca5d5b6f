// Command lpglsl-builtin-gen scans one or more package directories for
// //lpfx:impl directive comments on exported int32-in/int32-out
// functions and emits the builtin.register() table builtin/
// zz_generated_registry.go's header describes regenerating.
//
// Usage:
//
//	lpglsl-builtin-gen [-o file] <dir>...
//
// Only functions whose parameters and results are all int32 (arity 1-3)
// are emitted automatically — a builtin taking or returning a q32.Vec2/
// Vec3 (most of package lpfx) needs a hand-written unpacking closure the
// //lpfx:impl directive alone doesn't carry enough shape information to
// reconstruct, so those are reported as skipped rather than silently
// guessed at. See DESIGN.md's entry for this tool.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"sort"
	"strings"
)

var output = flag.String("o", "", "output file (default: stdout)")

type directive struct {
	symbol  string
	results int
}

type foundFn struct {
	pkgImportBase string // e.g. "q32" or "lpfx"
	funcName      string
	arity         int
	dir           directive
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lpglsl-builtin-gen [-o file] <dir>...\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	dirs := flag.Args()
	if len(dirs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one package directory required")
		flag.Usage()
		os.Exit(1)
	}

	var found []foundFn
	var skipped []string
	for _, dir := range dirs {
		fns, skips, err := scanDir(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error scanning %s: %v\n", dir, err)
			os.Exit(1)
		}
		found = append(found, fns...)
		skipped = append(skipped, skips...)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].dir.symbol < found[j].dir.symbol })

	src := render(found, skipped)
	if *output == "" {
		fmt.Print(src)
		return
	}
	if err := os.WriteFile(*output, []byte(src), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *output, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d builtins, %d skipped)\n", *output, len(found), len(skipped))
}

func scanDir(dir string) ([]foundFn, []string, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, func(fi os.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ParseComments)
	if err != nil {
		return nil, nil, err
	}

	var found []foundFn
	var skipped []string
	for pkgName, pkg := range pkgs {
		for _, file := range pkg.Files {
			for _, decl := range file.Decls {
				fn, ok := decl.(*ast.FuncDecl)
				if !ok || fn.Doc == nil {
					continue
				}
				dir, ok := parseDirective(fn.Doc)
				if !ok {
					continue
				}
				arity, uniform := int32Arity(fn)
				if !uniform {
					skipped = append(skipped, fmt.Sprintf("%s.%s (non-uniform int32 signature)", pkgName, fn.Name.Name))
					continue
				}
				found = append(found, foundFn{pkgImportBase: pkgName, funcName: fn.Name.Name, arity: arity, dir: dir})
			}
		}
	}
	return found, skipped, nil
}

// parseDirective looks for a "//lpfx:impl key=value key=value" line
// within doc, a simple space-separated key=value grammar (no quoting,
// matching the annotation style already present in package q32).
func parseDirective(doc *ast.CommentGroup) (directive, bool) {
	for _, c := range doc.List {
		text := strings.TrimPrefix(c.Text, "//")
		text = strings.TrimSpace(text)
		if !strings.HasPrefix(text, "lpfx:impl ") {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(text, "lpfx:impl "))
		var d directive
		for _, f := range fields {
			kv := strings.SplitN(f, "=", 2)
			if len(kv) != 2 {
				continue
			}
			switch kv[0] {
			case "symbol":
				d.symbol = kv[1]
			case "results":
				fmt.Sscanf(kv[1], "%d", &d.results)
			}
		}
		if d.symbol != "" {
			return d, true
		}
	}
	return directive{}, false
}

// int32Arity reports whether fn's full signature is (int32, int32, ...)
// -> int32 (arity 1-3), the shape wrap1/wrap2/wrap3 cover.
func int32Arity(fn *ast.FuncDecl) (int, bool) {
	n := 0
	for _, p := range fn.Type.Params.List {
		if !isInt32Ident(p.Type) {
			return 0, false
		}
		if len(p.Names) == 0 {
			n++
		} else {
			n += len(p.Names)
		}
	}
	if n < 1 || n > 3 {
		return 0, false
	}
	if fn.Type.Results == nil || len(fn.Type.Results.List) != 1 {
		return 0, false
	}
	if !isInt32Ident(fn.Type.Results.List[0].Type) {
		return 0, false
	}
	return n, true
}

func isInt32Ident(e ast.Expr) bool {
	id, ok := e.(*ast.Ident)
	return ok && id.Name == "int32"
}

func render(found []foundFn, skipped []string) string {
	var sb strings.Builder
	sb.WriteString("// Code generated by cmd/lpglsl-builtin-gen. DO NOT EDIT.\n")
	sb.WriteString("//\n// This is the arity-uniform (int32...int32 -> int32) subset only; any\n")
	sb.WriteString("// builtin taking/returning a q32.Vec2/Vec3 still needs a hand-written\n")
	sb.WriteString("// wrapper in builtin/zz_generated_registry.go (see that file and\n")
	sb.WriteString("// DESIGN.md for why).\n")
	for _, s := range skipped {
		sb.WriteString(fmt.Sprintf("// skipped: %s\n", s))
	}
	sb.WriteString("\nfunc init() {\n")
	wrapName := map[int]string{1: "wrap1", 2: "wrap2", 3: "wrap3"}
	for _, f := range found {
		sb.WriteString(fmt.Sprintf("\tregister(%s, %q, %d, %s(%s.%s))\n",
			idName(f.dir.symbol), f.dir.symbol, maxInt(f.dir.results, 1), wrapName[f.arity], f.pkgImportBase, f.funcName))
	}
	sb.WriteString("}\n")
	return sb.String()
}

func idName(symbol string) string {
	parts := strings.Split(strings.TrimPrefix(symbol, "__"), "_")
	var sb strings.Builder
	sb.WriteString("ID")
	for _, p := range parts {
		if p == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]))
		sb.WriteString(p[1:])
	}
	return sb.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
