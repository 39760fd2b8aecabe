package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dhamidi/jminus/ast"
	"github.com/dhamidi/jminus/diag"
)

// sexpr renders an expression as a compact prefix form.
func sexpr(e ast.Expression) string {
	switch x := e.(type) {
	case nil:
		return "nil"
	case *ast.Literal:
		return x.Text
	case *ast.Variable:
		return x.Name
	case *ast.AmbiguousName:
		return "(name " + x.Name + ")"
	case *ast.This:
		return "this"
	case *ast.Super:
		return "super"
	case *ast.BinaryExpression:
		return fmt.Sprintf("(%s %s %s)", x.Op, sexpr(x.Lhs), sexpr(x.Rhs))
	case *ast.AssignExpression:
		return fmt.Sprintf("(%s %s %s)", x.Op, sexpr(x.Lhs), sexpr(x.Rhs))
	case *ast.UnaryExpression:
		return fmt.Sprintf("(%s %s)", x.Op, sexpr(x.Operand))
	case *ast.Ternary:
		return fmt.Sprintf("(? %s %s %s)", sexpr(x.Cond), sexpr(x.Then), sexpr(x.Else))
	case *ast.Cast:
		return fmt.Sprintf("(cast %s %s)", x.Target, sexpr(x.Operand))
	case *ast.InstanceOf:
		return fmt.Sprintf("(instanceof %s %s)", sexpr(x.Operand), x.Target)
	case *ast.FieldSelection:
		return fmt.Sprintf("(. %s %s)", sexpr(x.Target), x.Name)
	case *ast.ArrayExpression:
		return fmt.Sprintf("([] %s %s)", sexpr(x.Array), sexpr(x.Index))
	case *ast.MessageExpression:
		return "(call " + strings.Join(append([]string{sexpr(x.Target), x.Name}, sexprs(x.Args)...), " ") + ")"
	case *ast.NewOp:
		return "(new " + strings.Join(append([]string{x.Class.String()}, sexprs(x.Args)...), " ") + ")"
	case *ast.NewArrayOp:
		return "(newarray " + strings.Join(append([]string{x.Array.String()}, sexprs(x.Dims)...), " ") + ")"
	case *ast.ArrayInitializer:
		return "(init " + strings.Join(append([]string{x.Array.String()}, sexprs(x.Elements)...), " ") + ")"
	case *ast.ThisConstruction:
		return "(this " + strings.Join(sexprs(x.Args), " ") + ")"
	case *ast.SuperConstruction:
		return "(super " + strings.Join(sexprs(x.Args), " ") + ")"
	case *ast.Wild:
		return "wild"
	}
	return fmt.Sprintf("%T", e)
}

func sexprs(es []ast.Expression) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = sexpr(e)
	}
	return out
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"42", "42"},
		{"a - b - c", "(- (- a b) c)"},
		{"a = b = c", "(= a (= b c))"},
		{"a ? b : c ? d : e", "(? a b (? c d e))"},
		{"a + b * c", "(+ a (* b c))"},
		{"(a + b) * c", "(* (+ a b) c)"},
		{"a || b && c", "(|| a (&& b c))"},
		{"a && b || c", "(|| (&& a b) c)"},
		{"a | b ^ c & d", "(| a (^ b (& c d)))"},
		{"a == b < c", "(== a (< b c))"},
		{"a < b + c", "(< a (+ b c))"},
		{"a << b + c", "(<< a (+ b c))"},
		{"a >>> 2 >> 1", "(>> (>>> a 2) 1)"},
		{"a % b / c", "(/ (% a b) c)"},
		{"-a * b", "(* (- a) b)"},
		{"- -a", "(- (- a))"},
		{"!a && b", "(&& (! a) b)"},
		{"~a | b", "(| (~ a) b)"},
		{"(int) x + 1", "(+ (cast int x) 1)"},
		{"(int[]) x", "(cast int[] x)"},
		{"(Foo) x", "(cast Foo x)"},
		{"(Foo) !x", "(cast Foo (! x))"},
		{"(x) - y", "(- x y)"},
		{"(x) + 1", "(+ x 1)"},
		{"a.b.c", "(. (name a.b) c)"},
		{"a.b(1)", "(call (name a) b 1)"},
		{"f(x, y)", "(call nil f x y)"},
		{"f().g", "(. (call nil f) g)"},
		{"a[i][j]", "([] ([] a i) j)"},
		{"i++", "(post++ i)"},
		{"++i", "(++pre i)"},
		{"--a[0]", "(--pre ([] a 0))"},
		{"x += 1", "(+= x 1)"},
		{"a >>>= 2", "(>>>= a 2)"},
		{"x instanceof Foo", "(instanceof x Foo)"},
		{"new Foo(1)", "(new Foo 1)"},
		{"new int[3][]", "(newarray int[][] 3)"},
		{"new int[3][4]", "(newarray int[][] 3 4)"},
		{"new int[] {1, 2,}", "(init int[] 1 2)"},
		{"this.x", "(. this x)"},
		{"super.f()", "(call super f)"},
		{"'c' + \"s\"", "(+ 'c' \"s\")"},
		{"0x1F + 1L", "(+ 0x1F 1L)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := diag.NewCollector()
			p := NewString(tt.input, WithFile("test.java"), WithSink(c))
			got := sexpr(p.ParseExpression())
			if got != tt.expected {
				t.Errorf("ParseExpression() = %s, want %s", got, tt.expected)
			}
			if p.ErrorHasOccurred() {
				t.Errorf("unexpected errors: %v", c.Diagnostics())
			}
		})
	}
}

func TestParseStatement(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"{ }", "*ast.Block"},
		{"if (a) b(); else c();", "*ast.IfStatement"},
		{"while (a) b();", "*ast.WhileStatement"},
		{"do b(); while (a);", "*ast.DoWhileStatement"},
		{"do { b(); } until (a);", "*ast.DoUntilStatement"},
		{"for (int i = 0; i < n; i++) f();", "*ast.ForStatement"},
		{"for (;;) break;", "*ast.ForStatement"},
		{"for (i = 0, j = 1; ; i++, j++) ;", "*ast.ForStatement"},
		{"for (int x : xs) f(x);", "*ast.ForEachStatement"},
		{"return;", "*ast.ReturnStatement"},
		{"return a + 1;", "*ast.ReturnStatement"},
		{"break;", "*ast.BreakStatement"},
		{";", "*ast.EmptyStatement"},
		{"throw new E();", "*ast.ThrowStatement"},
		{"throw e;", "*ast.ThrowStatement"},
		{"try { f(); } catch (E e) { g(); }", "*ast.TryStatement"},
		{"try { f(); } catch (E e) { } catch (F f) { } finally { h(); }", "*ast.TryStatement"},
		{"switch (x) { case 1: f(); break; default: g(); }", "*ast.SwitchStatement"},
		{"int x = 1, y;", "*ast.VariableDeclaration"},
		{"Foo[] xs = {a, b};", "*ast.VariableDeclaration"},
		{"a.b.C c;", "*ast.VariableDeclaration"},
		{"x = 1;", "*ast.StatementExpression"},
		{"a.b = 1;", "*ast.StatementExpression"},
		{"a[0] = 1;", "*ast.StatementExpression"},
		{"this(1);", "*ast.StatementExpression"},
		{"new Foo();", "*ast.StatementExpression"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := diag.NewCollector()
			p := NewString(tt.input, WithFile("test.java"), WithSink(c))
			got := fmt.Sprintf("%T", p.ParseStatement())
			if got != tt.expected {
				t.Errorf("ParseStatement() = %s, want %s", got, tt.expected)
			}
			if p.ErrorHasOccurred() {
				t.Errorf("unexpected errors: %v", c.Diagnostics())
			}
		})
	}
}

func TestParseThrowIsNew(t *testing.T) {
	tests := []struct {
		input string
		isNew bool
	}{
		{"throw new E();", true},
		{"throw e;", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, ok := NewString(tt.input).ParseStatement().(*ast.ThrowStatement)
			if !ok {
				t.Fatal("not a throw statement")
			}
			if s.IsNew != tt.isNew {
				t.Errorf("IsNew = %v, want %v", s.IsNew, tt.isNew)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		messages []string
	}{
		{"no side effect", "class A { void m() { x + 1; } }", []string{"Invalid statement expression; it does not have a side effect"}},
		{"ternary has no side effect", "class A { void m() { a ? f() : g(); } }", []string{"Invalid statement expression; it does not have a side effect"}},
		{"missing semicolon", "class A { void m() { int x = 1 int y = 2; } }", []string{"int found where ; sought"}},
		{"creator", "class A { void m() { x = new Foo; } }", []string{"( or [ sought where ; found"}},
		{"repeated modifier", "static static class A { }", []string{"Repeated modifier: static"}},
		{"access conflict", "public private class A { }", []string{"Access conflict in modifiers"}},
		{"varargs", "class A { void m(int... a, int b) { } }", []string{"Varargs parameter must be the last parameter"}},
		{"type", "class A { void m(+ a) { } }", []string{"Type sought where + found"}},
		{"literal", "class A { void m() { x = ); } }", []string{"Literal sought where ) found"}},
		{"duplicate case", "class A { void m() { switch (x) { case 1: case 2: f(); case 2: case 3: g(); } } }", []string{"Duplicate case label in switch statement"}},
		{"duplicate default", "class A { void m() { switch (x) { default: f(); default: g(); } } }", []string{"Duplicate case label in switch statement"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := diag.NewCollector()
			p := NewString(tt.input, WithFile("test.java"), WithSink(c))
			p.ParseCompilationUnit()
			if !p.ErrorHasOccurred() {
				t.Errorf("ErrorHasOccurred() = false, want true")
			}
			ds := c.Diagnostics()
			if len(ds) != len(tt.messages) {
				t.Fatalf("got %d diagnostics, want %d: %v", len(ds), len(tt.messages), ds)
			}
			for i, d := range ds {
				if d.Message != tt.messages[i] {
					t.Errorf("diagnostic %d = %q, want %q", i, d.Message, tt.messages[i])
				}
				if d.File != "test.java" {
					t.Errorf("File = %q, want %q", d.File, "test.java")
				}
			}
		})
	}
}

func TestParseMissingSemicolonKeepsTree(t *testing.T) {
	c := diag.NewCollector()
	p := NewString("class A {\n  void m() {\n    int x = 1\n    int y = 2;\n  }\n}\n", WithSink(c))
	unit := p.ParseCompilationUnit()

	ds := c.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(ds), ds)
	}
	if ds[0].Line != 4 {
		t.Errorf("Line = %d, want 4", ds[0].Line)
	}
	m := unit.Types[0].Members[0].(*ast.MethodDeclaration)
	if n := len(m.Body.Statements); n != 2 {
		t.Fatalf("got %d statements, want 2", n)
	}
	for i, s := range m.Body.Statements {
		if _, ok := s.(*ast.VariableDeclaration); !ok {
			t.Errorf("statement %d = %T, want *ast.VariableDeclaration", i, s)
		}
	}
}

func TestParseSwitchGroups(t *testing.T) {
	c := diag.NewCollector()
	p := NewString("switch (x) { case 1: case 2: f(); break; case 3: default: g(); }", WithSink(c))
	sw, ok := p.ParseStatement().(*ast.SwitchStatement)
	if !ok {
		t.Fatal("not a switch statement")
	}
	if len(sw.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(sw.Groups))
	}
	if n := len(sw.Groups[0].Labels); n != 2 {
		t.Errorf("group 0 has %d labels, want 2", n)
	}
	if n := len(sw.Groups[0].Body); n != 2 {
		t.Errorf("group 0 has %d statements, want 2", n)
	}
	if sw.Groups[1].Labels[1] != nil {
		t.Errorf("group 1 label 1 = %v, want default", sw.Groups[1].Labels[1])
	}
	if c.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", c.Diagnostics())
	}
}

func TestParseSwitchDuplicateKeepsFirstGroup(t *testing.T) {
	c := diag.NewCollector()
	p := NewString("switch (x) { case 1: case 2: f(); case 2: case 3: g(); }", WithSink(c))
	sw := p.ParseStatement().(*ast.SwitchStatement)
	if len(sw.Groups) != 1 {
		t.Errorf("got %d groups, want 1", len(sw.Groups))
	}
	if c.Len() != 1 {
		t.Errorf("got %d diagnostics, want 1", c.Len())
	}
}

func TestParseCompilationUnit(t *testing.T) {
	input := `package a.b;
import java.util.List;
import c.D;

public class Point extends Shape {
    private int x, y = 0;
    static String name;

    public Point(int x) throws E, F {
        this.x = x;
    }

    public abstract int area();

    void move(int... deltas) {
        for (int d : deltas) {
            x += d;
        }
    }
}

class Other { }
`
	c := diag.NewCollector()
	p := NewString(input, WithFile("Point.java"), WithSink(c))
	unit := p.ParseCompilationUnit()
	if p.ErrorHasOccurred() || p.LexicalErrorHasOccurred() {
		t.Fatalf("unexpected errors: %v", c.Diagnostics())
	}

	if unit.File != "Point.java" {
		t.Errorf("File = %q, want %q", unit.File, "Point.java")
	}
	if unit.Package != "a.b" {
		t.Errorf("Package = %q, want %q", unit.Package, "a.b")
	}
	if got := strings.Join(unit.Imports, ","); got != "java.util.List,c.D" {
		t.Errorf("Imports = %s, want java.util.List,c.D", got)
	}
	if len(unit.Types) != 2 {
		t.Fatalf("got %d types, want 2", len(unit.Types))
	}

	cls := unit.Types[0]
	if cls.Name != "Point" || cls.Super.String() != "Shape" {
		t.Errorf("class = %s extends %s, want Point extends Shape", cls.Name, cls.Super)
	}
	if unit.Types[1].Super != nil {
		t.Errorf("Other.Super = %v, want nil", unit.Types[1].Super)
	}

	wantMembers := []string{
		"*ast.FieldDeclaration",
		"*ast.FieldDeclaration",
		"*ast.ConstructorDeclaration",
		"*ast.MethodDeclaration",
		"*ast.MethodDeclaration",
	}
	if len(cls.Members) != len(wantMembers) {
		t.Fatalf("got %d members, want %d", len(cls.Members), len(wantMembers))
	}
	for i, m := range cls.Members {
		if got := fmt.Sprintf("%T", m); got != wantMembers[i] {
			t.Errorf("member %d = %s, want %s", i, got, wantMembers[i])
		}
	}

	ctor := cls.Members[2].(*ast.ConstructorDeclaration)
	if len(ctor.Throws) != 2 {
		t.Errorf("constructor throws %d types, want 2", len(ctor.Throws))
	}
	area := cls.Members[3].(*ast.MethodDeclaration)
	if area.Body != nil {
		t.Error("abstract method has a body")
	}
	move := cls.Members[4].(*ast.MethodDeclaration)
	if !move.Params[0].Varargs || move.Params[0].Type.String() != "int[]" {
		t.Errorf("param = %s varargs=%v, want int[] varargs", move.Params[0].Type, move.Params[0].Varargs)
	}
}

func TestParseLines(t *testing.T) {
	p := NewString("a\n+\nb")
	e := p.ParseExpression().(*ast.BinaryExpression)
	if e.Line() != 1 {
		t.Errorf("Line() = %d, want 1", e.Line())
	}
	if e.Rhs.Line() != 3 {
		t.Errorf("Rhs.Line() = %d, want 3", e.Rhs.Line())
	}
}
