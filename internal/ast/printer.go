package ast

import (
	"fmt"
	"strings"
)

// Printer pretty-prints a Program back into source form using an
// indent/writeLine tree walk.
type Printer struct {
	indent int
	output strings.Builder
}

// Format returns the canonical source-text rendering of a program.
func Format(p *Program) string {
	pr := &Printer{}
	pr.printProgram(p)
	return pr.output.String()
}

func (pr *Printer) writeIndent() {
	for i := 0; i < pr.indent; i++ {
		pr.output.WriteString("    ")
	}
}

func (pr *Printer) writeLine(format string, args ...interface{}) {
	pr.writeIndent()
	pr.output.WriteString(fmt.Sprintf(format, args...))
	pr.output.WriteString("\n")
}

func (pr *Printer) printProgram(p *Program) {
	for _, d := range p.Decls {
		switch decl := d.(type) {
		case *ConstDecl:
			pr.writeLine("const %s: %s = %s;", decl.Name, decl.Type, exprString(decl.Expr))
		case *FuncDecl:
			pr.printFunc(decl)
		case *AnalyzeDecl:
			pr.writeLine("analyze %s;", exprString(decl.Expr))
		}
	}
}

func (pr *Printer) printFunc(f *FuncDecl) {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	pr.writeLine("fn %s(%s) -> %s {", f.Name, strings.Join(params, ", "), f.ReturnType)
	pr.indent++
	for _, s := range f.Body {
		switch stmt := s.(type) {
		case *LetStmt:
			pr.writeLine("let %s: %s = %s;", stmt.Name, stmt.Type, exprString(stmt.Expr))
		case *ReturnStmt:
			pr.writeLine("return %s;", exprString(stmt.Expr))
		}
	}
	pr.indent--
	pr.writeLine("}")
}

func exprString(e Expr) string {
	switch v := e.(type) {
	case *Literal:
		switch v.Kind {
		case LitInt:
			return fmt.Sprintf("%d", v.IntVal)
		case LitBool:
			return fmt.Sprintf("%t", v.BoolVal)
		case LitEnvInt:
			return fmt.Sprintf("%%d{{%s}}", v.EnvName)
		case LitEnvBool:
			return fmt.Sprintf("%%b{{%s}}", v.EnvName)
		}
		return "<bad literal>"
	case *Ident:
		return v.Name
	case *Call:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = exprString(a)
		}
		return fmt.Sprintf("%s(%s)", v.Callee, strings.Join(args, ", "))
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", exprString(v.Left), v.Op, exprString(v.Right))
	default:
		return "<bad expr>"
	}
}

// String implementations delegate to the shared exprString/Format helpers so
// every node satisfies Node without duplicating the switch above.
func (p *Program) String() string     { return Format(p) }
func (d *ConstDecl) String() string   { return fmt.Sprintf("const %s: %s = %s;", d.Name, d.Type, exprString(d.Expr)) }
func (d *FuncDecl) String() string    { pr := &Printer{}; pr.printFunc(d); return pr.output.String() }
func (d *AnalyzeDecl) String() string { return fmt.Sprintf("analyze %s;", exprString(d.Expr)) }
func (s *LetStmt) String() string {
	return fmt.Sprintf("let %s: %s = %s;", s.Name, s.Type, exprString(s.Expr))
}
func (s *ReturnStmt) String() string { return fmt.Sprintf("return %s;", exprString(s.Expr)) }
func (l *Literal) String() string    { return exprString(l) }
func (i *Ident) String() string      { return i.Name }
func (c *Call) String() string       { return exprString(c) }
func (b *Binary) String() string     { return exprString(b) }
