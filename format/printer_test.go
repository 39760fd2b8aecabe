package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dhamidi/jminus/ast"
	"github.com/dhamidi/jminus/diag"
	"github.com/dhamidi/jminus/parser"
)

func formatExpr(t *testing.T, input string) string {
	t.Helper()
	collector := diag.NewCollector()
	e := parser.NewString(input, parser.WithSink(collector)).ParseExpression()
	if err := collector.Err(); err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return exprString(e, precAssign)
}

func TestPrintExpression(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"spacing", "a+b*c", "a + b * c"},
		{"grouping kept", "(a+b)*c", "(a + b) * c"},
		{"right operand grouped", "a-(b-c)", "a - (b - c)"},
		{"left associative", "a-b-c", "a - b - c"},
		{"redundant parens dropped", "((a))*(b)", "a * b"},
		{"chained assignment", "a=b=c", "a = b = c"},
		{"compound assignment", "a[i][j] += 0x1F", "a[i][j] += 0x1F"},
		{"relational under equality", "(a<b)==c", "a < b == c"},
		{"logical ladder", "a || b && c", "a || b && c"},
		{"logical grouping", "(a || b) && c", "(a || b) && c"},
		{"shifts", "1 << 2 >>> 3", "1 << 2 >>> 3"},
		{"not of group", "!(a && b)", "!(a && b)"},
		{"double negation", "-(-x)", "- -x"},
		{"plus of preincrement", "+ ++x", "+ ++x"},
		{"postfix on field", "this.x++", "this.x++"},
		{"basic cast", "(int) x + 1", "(int) x + 1"},
		{"basic cast of sum", "(int)(x + 1)", "(int) (x + 1)"},
		{"reference cast", "(String)o", "(String) o"},
		{"cast as target", "((A) o).f()", "((A) o).f()"},
		{"nested ternary", "c ? a : b ? d : e", "c ? a : b ? d : e"},
		{"ternary condition", "(c ? a : b) ? d : e", "(c ? a : b) ? d : e"},
		{"instanceof", "x instanceof String", "x instanceof String"},
		{"qualified call", "a.b.c(1,x)", "a.b.c(1, x)"},
		{"super call", "super.f(x)", "super.f(x)"},
		{"string literals", `s + 'c' + "str"`, `s + 'c' + "str"`},
		{"new object", "new p.Q(1)", "new p.Q(1)"},
		{"new array", "new int[3][]", "new int[3][]"},
		{"array initializer", "new int[] {1, 2,}", "new int[] {1, 2}"},
		{"index into new array", "(new int[3])[0]", "(new int[3])[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatExpr(t, tt.input)
			if got != tt.expected {
				t.Errorf("formatExpr(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

const messySource = `package demo;
import java.util.List;
public class Shapes extends Base {
  private int count=0, total;
  static String[] names = {"a","b",};
  public Shapes(int n) { super(n); this.count = n; }
  public abstract int area();
  int sum(int... xs) throws Oops, java.io.IOException {
    int s = 0;
    for (int x : xs) s += x;
    for (int i = 0, j = 1; i < 10; i++, j--) { s = s + i * j; }
    for (;;) break;
    while (s > 100) s = s / 2;
    do { s--; } while (s > 50);
    do s++; until (s >= 60);
    if (s == 0) return 0; else if (s < 0) { return -s; } else ;
    switch (s) { case 1: case 2: s = 3; break; default: s = 0; }
    try { risky(); } catch (Oops e) { throw e; } finally { count++; }
    throw new Oops("bad" + s);
  }
}
`

const canonicalSource = `package demo;

import java.util.List;

public class Shapes extends Base {
    private int count = 0, total;
    static String[] names = {"a", "b"};

    public Shapes(int n) {
        super(n);
        this.count = n;
    }

    public abstract int area();

    int sum(int... xs) throws Oops, java.io.IOException {
        int s = 0;
        for (int x : xs)
            s += x;
        for (int i = 0, j = 1; i < 10; i++, j--) {
            s = s + i * j;
        }
        for (;;)
            break;
        while (s > 100)
            s = s / 2;
        do {
            s--;
        } while (s > 50);
        do
            s++;
        until (s >= 60);
        if (s == 0)
            return 0;
        else if (s < 0) {
            return -s;
        } else
            ;
        switch (s) {
            case 1:
            case 2:
                s = 3;
                break;
            default:
                s = 0;
        }
        try {
            risky();
        } catch (Oops e) {
            throw e;
        } finally {
            count++;
        }
        throw new Oops("bad" + s);
    }
}
`

func TestSource(t *testing.T) {
	got, err := Source([]byte(messySource))
	if err != nil {
		t.Fatalf("Source() error = %v", err)
	}
	if string(got) != canonicalSource {
		t.Errorf("Source() =\n%s\nwant\n%s", got, canonicalSource)
	}
}

func TestSourceIsIdempotent(t *testing.T) {
	got, err := Source([]byte(canonicalSource))
	if err != nil {
		t.Fatalf("Source() error = %v", err)
	}
	if string(got) != canonicalSource {
		t.Errorf("formatting canonical source changed it:\n%s", got)
	}
}

func TestSourcePreservesTree(t *testing.T) {
	formatted, err := Source([]byte(messySource))
	if err != nil {
		t.Fatalf("Source() error = %v", err)
	}
	before := parser.NewString(messySource).ParseCompilationUnit()
	after := parser.New(bytes.NewReader(formatted)).ParseCompilationUnit()
	if ast.Shape(before) != ast.Shape(after) {
		t.Errorf("tree changed by formatting\nbefore:\n%s\nafter:\n%s", ast.Shape(before), ast.Shape(after))
	}
}

func TestSourceRejectsInvalidInput(t *testing.T) {
	got, err := SourceFile([]byte("class A { int x }"), "A.java")
	if err == nil {
		t.Fatalf("SourceFile() = %q, want error", got)
	}
	if !strings.Contains(err.Error(), "A.java") {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestPrintDanglingElse(t *testing.T) {
	call := func(name string) ast.Statement {
		return ast.NewStatementExpression(1, ast.NewMessageExpression(1, nil, name, nil))
	}
	inner := ast.NewIfStatement(1, ast.NewVariable(1, "b"), call("x"), nil)
	outer := ast.NewIfStatement(1, ast.NewVariable(1, "a"), inner, call("y"))

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printStatement(outer)

	want := "if (a) {\n    if (b)\n        x();\n} else\n    y();\n"
	if buf.String() != want {
		t.Errorf("printStatement() = %q, want %q", buf.String(), want)
	}
}

func TestPrintEmptyClass(t *testing.T) {
	unit := ast.NewCompilationUnit("", 1, "", nil, []*ast.ClassDeclaration{
		ast.NewClassDeclaration(1, []string{"final"}, "Empty", nil, nil),
	})
	var buf bytes.Buffer
	if err := NewPrinter(&buf).Print(unit); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if want := "final class Empty {}\n"; buf.String() != want {
		t.Errorf("Print() = %q, want %q", buf.String(), want)
	}
}
