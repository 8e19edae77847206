package parser

import "github.com/alecthomas/participle/v2/lexer"

// Grammar node types for the dice-expression surface syntax: plain exported
// fields, participle struct tags driving the parse, a Pos field of type
// lexer.Position populated automatically.

type TypeTag struct {
	Pos     lexer.Position
	Name    string  `@Ident`
	VecElem *string `("<" @Ident ">")?`
}

type Literal struct {
	Pos     lexer.Position
	EnvInt  *string `(  "%d{{" @Ident "}}"`
	EnvBool *string ` | "%b{{" @Ident "}}"`
	BoolLit *string ` | @("true" | "false")`
	IntLit  *int64  ` | @Integer )`
}

// CallExpr is a stdlib or user function invocation.
type CallExpr struct {
	Pos    lexer.Position
	Callee string  `@Ident`
	Args   []*Expr `"(" (@@ ("," @@)*)? ")"`
}

// ParenExpr is a fully-parenthesized binary operation.
type ParenExpr struct {
	Pos   lexer.Position
	Left  *Expr  `"(" @@`
	Op    string `@("+" | "-" | "*" | "/" | "&" | "|" | "==" | "!=" | "<=" | ">=" | "<" | ">")`
	Right *Expr  `@@ ")"`
}

// Expr covers all four expr alternatives. Literal is tried before Ident so
// that the "true"/"false" keywords are not mistaken for bare identifiers;
// Call is tried before Ident so `f(...)` is not mistaken for a bare name.
type Expr struct {
	Pos     lexer.Position
	Paren   *ParenExpr `(  @@`
	Literal *Literal   ` | @@`
	Call    *CallExpr  ` | @@`
	Ident   *string    ` | @Ident )`
}

type Param struct {
	Pos  lexer.Position
	Name string   `@Ident`
	Type *TypeTag `":" @@`
}

type ConstDecl struct {
	Pos  lexer.Position
	Name string   `"const" @Ident`
	Type *TypeTag `":" @@`
	Expr *Expr    `"=" @@ ";"`
}

type LetStmt struct {
	Pos  lexer.Position
	Name string   `"let" @Ident`
	Type *TypeTag `":" @@`
	Expr *Expr    `"=" @@ ";"`
}

type ReturnStmt struct {
	Pos  lexer.Position
	Expr *Expr `"return" @@ ";"`
}

type Stmt struct {
	Pos    lexer.Position
	Let    *LetStmt    `(  @@`
	Return *ReturnStmt ` | @@ )`
}

type FuncDecl struct {
	Pos        lexer.Position
	Name       string   `"fn" @Ident`
	Params     []*Param `"(" (@@ ("," @@)*)? ")"`
	ReturnType *TypeTag `"->" @@`
	Body       []*Stmt  `"{" @@* "}"`
}

type AnalyzeDecl struct {
	Pos  lexer.Position
	Expr *Expr `"analyze" @@ ";"`
}

type TopLevel struct {
	Pos     lexer.Position
	Const   *ConstDecl   `(  @@`
	Func    *FuncDecl    ` | @@`
	Analyze *AnalyzeDecl ` | @@ )`
}

type Program struct {
	Pos   lexer.Position
	Items []*TopLevel `@@*`
}
