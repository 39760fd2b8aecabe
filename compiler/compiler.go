// Package compiler drives a j-- source file through lexing and parsing,
// semantic analysis and code generation. Each phase runs only when the
// phases before it reported no errors.
package compiler

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jminus/ast"
	"github.com/dhamidi/jminus/diag"
	"github.com/dhamidi/jminus/emit"
	"github.com/dhamidi/jminus/parser"
)

var (
	ErrLexical  = errors.New("lexical errors")
	ErrSyntax   = errors.New("syntax errors")
	ErrSemantic = errors.New("semantic errors")
)

// Phase names how far a compilation got.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseParsed
	PhaseAnalyzed
	PhaseGenerated
)

func (p Phase) String() string {
	switch p {
	case PhaseParsed:
		return "parsed"
	case PhaseAnalyzed:
		return "analyzed"
	case PhaseGenerated:
		return "generated"
	}
	return "none"
}

type Option func(*Compiler)

// WithFile sets the file name used in diagnostics.
func WithFile(path string) Option {
	return func(c *Compiler) {
		c.file = path
	}
}

// WithSink forwards every diagnostic to sink as it is reported, in
// addition to collecting it in the Result.
func WithSink(sink diag.Sink) Option {
	return func(c *Compiler) {
		c.sink = sink
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(c *Compiler) {
		c.log = log
	}
}

// Compiler holds the settings for one compilation. It is cheap to create;
// make one per file.
type Compiler struct {
	file string
	sink diag.Sink
	log  commonlog.Logger
}

func New(opts ...Option) *Compiler {
	c := &Compiler{
		file: "<input>",
		sink: diag.Discard,
		log:  commonlog.GetLogger("jminus.compiler"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is everything a compilation produced. Fields for phases that did
// not run are nil.
type Result struct {
	Phase       Phase
	Unit        *ast.CompilationUnit
	Analyzed    *ast.CompilationUnit
	Listing     *emit.Listing
	Diagnostics []diag.Diagnostic
}

// Parse lexes and parses r. The tree is returned even when errors were
// reported; the error then wraps ErrLexical or ErrSyntax.
func (c *Compiler) Parse(r io.Reader) (*Result, error) {
	collector := diag.NewCollector()
	res, err := c.parse(r, collector)
	res.Diagnostics = collector.Diagnostics()
	return res, err
}

// Check parses and analyzes r without generating code.
func (c *Compiler) Check(r io.Reader) (*Result, error) {
	collector := diag.NewCollector()
	res, err := c.parse(r, collector)
	if err == nil {
		err = c.analyze(res, collector)
	}
	res.Diagnostics = collector.Diagnostics()
	return res, err
}

// Compile runs every phase and resolves the generated labels.
func (c *Compiler) Compile(r io.Reader) (*Result, error) {
	collector := diag.NewCollector()
	res, err := c.parse(r, collector)
	if err == nil {
		err = c.analyze(res, collector)
	}
	if err == nil {
		err = c.generate(res)
	}
	res.Diagnostics = collector.Diagnostics()
	return res, err
}

// CompileFile opens path and compiles it. The file name defaults to path.
func CompileFile(path string, opts ...Option) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return New(append([]Option{WithFile(path)}, opts...)...).Compile(f)
}

func (c *Compiler) parse(r io.Reader, collector *diag.Collector) (*Result, error) {
	c.log.Debugf("parsing %s", c.file)
	p := parser.New(r, parser.WithFile(c.file), parser.WithSink(diag.Tee{collector, c.sink}))
	res := &Result{Unit: p.ParseCompilationUnit(), Phase: PhaseParsed}
	switch {
	case p.LexicalErrorHasOccurred():
		c.log.Infof("%s: %d diagnostic(s), stopping after lexing", c.file, collector.Len())
		return res, errors.Wrapf(ErrLexical, "%s", c.file)
	case p.ErrorHasOccurred():
		c.log.Infof("%s: %d diagnostic(s), stopping after parsing", c.file, collector.Len())
		return res, errors.Wrapf(ErrSyntax, "%s", c.file)
	}
	return res, nil
}

func (c *Compiler) analyze(res *Result, collector *diag.Collector) error {
	c.log.Debugf("analyzing %s", c.file)
	ctx := ast.NewContext(c.file, diag.Tee{collector, c.sink})
	res.Analyzed = res.Unit.Analyze(ctx)
	res.Phase = PhaseAnalyzed
	if ctx.ErrorHasOccurred() {
		c.log.Infof("%s: %d diagnostic(s), stopping after analysis", c.file, collector.Len())
		return errors.Wrapf(ErrSemantic, "%s", c.file)
	}
	return nil
}

func (c *Compiler) generate(res *Result) error {
	c.log.Debugf("generating code for %s", c.file)
	listing := res.Analyzed.Codegen()
	if err := listing.Resolve(); err != nil {
		return errors.Wrapf(err, "generate %s", c.file)
	}
	res.Listing = listing
	res.Phase = PhaseGenerated
	return nil
}
