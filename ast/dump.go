package ast

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/jminus/types"
)

// Attr is one attribute of a dumped element.
type Attr struct {
	Key   string
	Value string
}

// Dumper receives a nested, tagged rendering of a tree. Every Open is
// matched by a Close.
type Dumper interface {
	Open(tag string, attrs ...Attr)
	Text(format string, args ...any)
	Close()
}

func lineAttr(line int) Attr {
	return Attr{"line", strconv.Itoa(line)}
}

// nodeAttrs builds the standard attribute list: line, then type once
// analysis has filled it in, then any extras.
func nodeAttrs(line int, t *types.Type, extra ...Attr) []Attr {
	attrs := []Attr{lineAttr(line)}
	if t != nil {
		attrs = append(attrs, Attr{"type", t.String()})
	}
	return append(attrs, extra...)
}

// dumpSection wraps children in a plain element, e.g. <Condition>.
func dumpSection(d Dumper, tag string, nodes ...Node) {
	d.Open(tag)
	for _, n := range nodes {
		if n != nil {
			n.Dump(d)
		}
	}
	d.Close()
}

// XMLPrinter writes an indented, XML-like tree.
type XMLPrinter struct {
	w         io.Writer
	indent    int
	stack     []string
	omitLines bool
}

func NewXMLPrinter(w io.Writer) *XMLPrinter {
	return &XMLPrinter{w: w}
}

func (p *XMLPrinter) printf(format string, args ...any) {
	fmt.Fprintf(p.w, "%s", strings.Repeat("    ", p.indent))
	fmt.Fprintf(p.w, format, args...)
}

func (p *XMLPrinter) Open(tag string, attrs ...Attr) {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)
	for _, a := range attrs {
		if p.omitLines && a.Key == "line" {
			continue
		}
		fmt.Fprintf(&b, " %s=%q", a.Key, a.Value)
	}
	b.WriteString(">\n")
	p.printf("%s", b.String())
	p.stack = append(p.stack, tag)
	p.indent++
}

func (p *XMLPrinter) Text(format string, args ...any) {
	p.printf(format+"\n", args...)
}

func (p *XMLPrinter) Close() {
	if len(p.stack) == 0 {
		return
	}
	tag := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	p.indent--
	p.printf("</%s>\n", tag)
}

// DumpXML renders n to a string.
func DumpXML(n Node) string {
	var b strings.Builder
	n.Dump(NewXMLPrinter(&b))
	return b.String()
}

// Equal reports whether two expressions have the same shape, ignoring
// source lines. Literals compare by value, so 0x1 equals 1.
func Equal(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	la, aok := a.(*Literal)
	lb, bok := b.(*Literal)
	if aok && bok {
		return la.Value() == lb.Value()
	}
	return Shape(a) == Shape(b)
}

// Shape renders n like DumpXML without line attributes.
func Shape(n Node) string {
	var b strings.Builder
	n.Dump(&XMLPrinter{w: &b, omitLines: true})
	return b.String()
}

type jsonNode struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     []string          `json:"text,omitempty"`
	Children []*jsonNode       `json:"children,omitempty"`
}

// JSONDumper builds a tree of elements and encodes it as JSON.
type JSONDumper struct {
	root  *jsonNode
	stack []*jsonNode
}

func NewJSONDumper() *JSONDumper {
	return &JSONDumper{}
}

func (j *JSONDumper) Open(tag string, attrs ...Attr) {
	n := &jsonNode{Tag: tag}
	if len(attrs) > 0 {
		n.Attrs = make(map[string]string, len(attrs))
		for _, a := range attrs {
			n.Attrs[a.Key] = a.Value
		}
	}
	if len(j.stack) == 0 {
		switch {
		case j.root == nil:
			j.root = n
		case j.root.Tag == "Root":
			j.root.Children = append(j.root.Children, n)
		default:
			j.root = &jsonNode{Tag: "Root", Children: []*jsonNode{j.root, n}}
		}
	} else {
		parent := j.stack[len(j.stack)-1]
		parent.Children = append(parent.Children, n)
	}
	j.stack = append(j.stack, n)
}

func (j *JSONDumper) Text(format string, args ...any) {
	if len(j.stack) == 0 {
		return
	}
	top := j.stack[len(j.stack)-1]
	top.Text = append(top.Text, fmt.Sprintf(format, args...))
}

func (j *JSONDumper) Close() {
	if len(j.stack) > 0 {
		j.stack = j.stack[:len(j.stack)-1]
	}
}

func (j *JSONDumper) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.root)
}

// Encode writes the collected tree as indented JSON.
func (j *JSONDumper) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(j.root)
}
