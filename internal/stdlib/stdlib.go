// Package stdlib defines the fixed standard-library function signatures: a
// plain name-to-signature table seeded once into the namespace.
package stdlib

import "dicec/internal/ast"

// Signature is a stdlib function's parameter and return types.
type Signature struct {
	Name    string
	Params  []ast.Type
	Returns ast.Type
}

// Names of the ten fixed stdlib functions.
const (
	RollD3 = "roll_d3"
	RollD6 = "roll_d6"
	Roll   = "roll"
	Filter = "filter"
	Count  = "count"
	Len    = "len"
	Join   = "join"
	Sum    = "sum"
	Min    = "min"
	Max    = "max"
)

// Signatures is the fixed table of stdlib names to parameter/return types.
var Signatures = map[string]Signature{
	RollD3: {Name: RollD3, Params: []ast.Type{ast.TInt}, Returns: ast.TVecInt},
	RollD6: {Name: RollD6, Params: []ast.Type{ast.TInt}, Returns: ast.TVecInt},
	Roll:   {Name: Roll, Params: []ast.Type{ast.TInt, ast.TInt, ast.TInt}, Returns: ast.TVecInt},
	Filter: {Name: Filter, Params: []ast.Type{ast.TVecBool, ast.TVecInt}, Returns: ast.TVecInt},
	Count:  {Name: Count, Params: []ast.Type{ast.TVecBool}, Returns: ast.TInt},
	Len:    {Name: Len, Params: []ast.Type{ast.TVecInt}, Returns: ast.TInt},
	Join:   {Name: Join, Params: []ast.Type{ast.TVecInt, ast.TVecInt}, Returns: ast.TVecInt},
	Sum:    {Name: Sum, Params: []ast.Type{ast.TVecInt}, Returns: ast.TInt},
	Min:    {Name: Min, Params: []ast.Type{ast.TVecInt}, Returns: ast.TInt},
	Max:    {Name: Max, Params: []ast.Type{ast.TVecInt}, Returns: ast.TInt},
}

// IsStdlib reports whether name is one of the fixed stdlib functions.
func IsStdlib(name string) bool {
	_, ok := Signatures[name]
	return ok
}
