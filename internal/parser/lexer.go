package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// DiceLexer tokenizes the dice-expression surface grammar: ordered rules,
// longer/more-specific patterns first, elided whitespace.
var DiceLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"EnvIntOpen", `%d\{\{`, nil},
		{"EnvBoolOpen", `%b\{\{`, nil},
		{"DblClose", `\}\}`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `[0-9]+`, nil},
		{"Arrow", `->`, nil},
		{"Operator", `(==|!=|<=|>=|[-+*/&|<>])`, nil},
		{"Punctuation", `[:;,(){}]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
