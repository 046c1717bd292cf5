// Package fileperm provides a linter to check for hardcoded file permissions
package fileperm

import (
	"go/ast"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/analysis"
)

// Analyzer is a custom analysis pass that checks for hardcoded file permissions
var Analyzer = &analysis.Analyzer{
	Name: "fileperm",
	Doc:  "checks for hardcoded file permission literals instead of using fileutil constants",
	Run:  run,
}

// permArgIndex maps a function or method name to the position of its mode argument.
var permArgIndex = map[string]int{
	"WriteFile": 2,
	"OpenFile":  2,
	"Mkdir":     1,
	"MkdirAll":  1,
	"Chmod":     1,
}

// permConstants maps a mode to the fileutil constant that names it.
var permConstants = map[int64]string{
	0o600: "fileutil.ReadWriteUserPermission",
	0o644: "fileutil.ReadWriteUserReadOthers",
	0o755: "fileutil.ReadWriteExecuteUserReadExecuteOthers",
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			fun, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			idx, ok := permArgIndex[fun.Sel.Name]
			if !ok || len(call.Args) <= idx {
				return true
			}
			lit, ok := call.Args[idx].(*ast.BasicLit)
			if !ok || lit.Kind != token.INT {
				return true
			}
			mode, err := strconv.ParseInt(lit.Value, 0, 64)
			if err != nil {
				return true
			}
			if name, known := permConstants[mode]; known {
				pass.Reportf(lit.Pos(), "use %s instead of hardcoded %s in %s", name, lit.Value, fun.Sel.Name)
			}
			return true
		})
	}
	return nil, nil
}
