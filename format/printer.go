// Package format prints j-- syntax trees back as canonical source text.
package format

import (
	"bytes"
	"io"
	"strings"

	"github.com/dhamidi/jminus/ast"
	"github.com/dhamidi/jminus/diag"
	"github.com/dhamidi/jminus/parser"
	"github.com/dhamidi/jminus/types"
)

// Printer writes a compilation unit with four-space indentation and one
// statement per line. Comments are not part of the tree and are dropped.
type Printer struct {
	w           io.Writer
	indent      int
	indentStr   string
	atLineStart bool
	err         error
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:           w,
		indentStr:   "    ",
		atLineStart: true,
	}
}

// Print writes unit and returns the first write error, if any.
func (p *Printer) Print(unit *ast.CompilationUnit) error {
	p.printCompilationUnit(unit)
	return p.err
}

func (p *Printer) printCompilationUnit(unit *ast.CompilationUnit) {
	sections := 0
	if unit.Package != "" {
		p.line("package " + unit.Package + ";")
		sections++
	}
	if len(unit.Imports) > 0 {
		if sections > 0 {
			p.newline()
		}
		for _, imp := range unit.Imports {
			p.line("import " + imp + ";")
		}
		sections++
	}
	for _, class := range unit.Types {
		if sections > 0 {
			p.newline()
		}
		p.printClass(class)
		sections++
	}
}

func (p *Printer) printClass(c *ast.ClassDeclaration) {
	p.writeIndent()
	p.writeModifiers(c.Mods)
	p.write("class " + c.Name)
	if c.Super != nil {
		p.write(" extends " + typeString(c.Super))
	}
	if len(c.Members) == 0 {
		p.write(" {}")
		p.newline()
		return
	}
	p.write(" {")
	p.newline()
	p.indent++
	for i, m := range c.Members {
		if i > 0 && !(isField(m) && isField(c.Members[i-1])) {
			p.newline()
		}
		p.printMember(m)
	}
	p.indent--
	p.line("}")
}

func isField(m ast.Member) bool {
	_, ok := m.(*ast.FieldDeclaration)
	return ok
}

func (p *Printer) printMember(m ast.Member) {
	switch m := m.(type) {
	case *ast.FieldDeclaration:
		p.printFieldDecl(m)
	case *ast.MethodDeclaration:
		p.printMethodDecl(m)
	case *ast.ConstructorDeclaration:
		p.printConstructorDecl(m)
	}
}

func (p *Printer) printFieldDecl(f *ast.FieldDeclaration) {
	p.writeIndent()
	p.writeModifiers(f.Mods)
	p.write(declaratorsString(f.Declarators))
	p.write(";")
	p.newline()
}

func (p *Printer) printMethodDecl(m *ast.MethodDeclaration) {
	p.writeIndent()
	p.writeModifiers(m.Mods)
	p.write(typeString(m.ReturnType) + " " + m.Name)
	p.writeSignatureTail(m.Params, m.Throws)
	if m.Body == nil {
		p.write(";")
		p.newline()
		return
	}
	p.write(" ")
	p.printBlock(m.Body)
	p.newline()
}

func (p *Printer) printConstructorDecl(c *ast.ConstructorDeclaration) {
	p.writeIndent()
	p.writeModifiers(c.Mods)
	p.write(c.Name)
	p.writeSignatureTail(c.Params, c.Throws)
	p.write(" ")
	p.printBlock(c.Body)
	p.newline()
}

func (p *Printer) writeSignatureTail(params []*ast.FormalParameter, throws []*types.Type) {
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = parameterString(param)
	}
	p.write("(" + strings.Join(parts, ", ") + ")")
	if len(throws) > 0 {
		names := make([]string, len(throws))
		for i, t := range throws {
			names[i] = typeString(t)
		}
		p.write(" throws " + strings.Join(names, ", "))
	}
}

func parameterString(param *ast.FormalParameter) string {
	if param.Varargs && param.Type.IsArray() {
		return typeString(param.Type.ComponentType()) + "... " + param.Name
	}
	return typeString(param.Type) + " " + param.Name
}

func (p *Printer) writeModifiers(mods []string) {
	for _, m := range mods {
		p.write(m + " ")
	}
}

// typeString spells t the way a declaration would, with String and Object
// unqualified.
func typeString(t *types.Type) string {
	switch {
	case t == nil:
		return ""
	case t.IsArray():
		return typeString(t.ComponentType()) + "[]"
	case t == types.String || t == types.Object:
		return t.SimpleName()
	}
	return t.String()
}

func (p *Printer) writeIndent() {
	if !p.atLineStart {
		return
	}
	for i := 0; i < p.indent; i++ {
		p.write(p.indentStr)
	}
	p.atLineStart = false
}

func (p *Printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *Printer) newline() {
	p.write("\n")
	p.atLineStart = true
}

func (p *Printer) line(s string) {
	p.writeIndent()
	p.write(s)
	p.newline()
}

// Source parses source and prints it back in canonical form. Input with
// diagnostics is not printed; the error lists them all.
func Source(source []byte) ([]byte, error) {
	return SourceFile(source, "")
}

func SourceFile(source []byte, filename string) ([]byte, error) {
	opts := []parser.Option{}
	if filename != "" {
		opts = append(opts, parser.WithFile(filename))
	}
	collector := diag.NewCollector()
	opts = append(opts, parser.WithSink(collector))
	unit := parser.New(bytes.NewReader(source), opts...).ParseCompilationUnit()
	if err := collector.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := NewPrinter(&buf).Print(unit); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
