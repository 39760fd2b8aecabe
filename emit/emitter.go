// Package emit is the abstract instruction sink that code generation writes
// to: a stack machine with symbolic labels. Recorder keeps the stream in
// memory, checks label usage and renders a text listing.
package emit

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Label is a symbolic branch target handed out by CreateLabel.
type Label int

func (l Label) String() string {
	return "L" + strconv.Itoa(int(l))
}

// Emitter accepts an ordered stream of instructions.
type Emitter interface {
	CreateLabel() Label
	AddLabel(l Label)
	AddNoArgInstruction(op Opcode)
	AddBranchInstruction(op Opcode, target Label)
	AddOneArgInstruction(op Opcode, arg int)
	AddIINCInstruction(slot, delta int)
	AddLDCInstruction(constant any)
	AddMemberAccessInstruction(op Opcode, owner, name, descriptor string)
	AddReferenceInstruction(op Opcode, typeName string)
	AddMultiArrayInstruction(typeDescriptor string, dims int)
	// AddExceptionHandler routes exceptions of catchType thrown between
	// start and end to handler. An empty catchType catches everything.
	AddExceptionHandler(start, end, handler Label, catchType string)
}

// ExceptionHandler is one entry of a method's exception table.
type ExceptionHandler struct {
	Start, End, Handler Label
	CatchType           string
}

func (h ExceptionHandler) String() string {
	catchType := h.CatchType
	if catchType == "" {
		catchType = "any"
	}
	return fmt.Sprintf("%s %s %s %s", h.Start, h.End, h.Handler, catchType)
}

type InstructionKind int

const (
	KindNoArg InstructionKind = iota
	KindBranch
	KindOneArg
	KindIINC
	KindLDC
	KindMember
	KindReference
	KindMultiArray
	KindLabel
)

// Instruction is one recorded entry. Labels are recorded in-line as
// KindLabel entries so the listing shows where they were placed.
type Instruction struct {
	Kind       InstructionKind
	Op         Opcode
	Target     Label
	Args       []int
	Constant   any
	Owner      string
	Name       string
	Descriptor string
}

func (in Instruction) String() string {
	switch in.Kind {
	case KindLabel:
		return in.Target.String() + ":"
	case KindBranch:
		return fmt.Sprintf("%s %s", in.Op, in.Target)
	case KindOneArg:
		return fmt.Sprintf("%s %d", in.Op, in.Args[0])
	case KindIINC:
		return fmt.Sprintf("%s %d %d", in.Op, in.Args[0], in.Args[1])
	case KindLDC:
		if s, ok := in.Constant.(string); ok {
			return fmt.Sprintf("%s %s", in.Op, strconv.Quote(s))
		}
		return fmt.Sprintf("%s %v", in.Op, in.Constant)
	case KindMember:
		return fmt.Sprintf("%s %s.%s %s", in.Op, in.Owner, in.Name, in.Descriptor)
	case KindReference:
		return fmt.Sprintf("%s %s", in.Op, in.Descriptor)
	case KindMultiArray:
		return fmt.Sprintf("%s %s %d", in.Op, in.Descriptor, in.Args[0])
	}
	return in.Op.String()
}

// Recorder is an in-memory Emitter.
type Recorder struct {
	instructions []Instruction
	nextLabel    int
	placed       map[Label]int
	placedTwice  []Label
	targeted     map[Label]bool
	handlers     []ExceptionHandler
}

func NewRecorder() *Recorder {
	return &Recorder{
		placed:   make(map[Label]int),
		targeted: make(map[Label]bool),
	}
}

func (r *Recorder) CreateLabel() Label {
	l := Label(r.nextLabel)
	r.nextLabel++
	return l
}

func (r *Recorder) AddLabel(l Label) {
	if _, ok := r.placed[l]; ok {
		r.placedTwice = append(r.placedTwice, l)
		return
	}
	r.placed[l] = len(r.instructions)
	r.instructions = append(r.instructions, Instruction{Kind: KindLabel, Target: l})
}

func (r *Recorder) AddNoArgInstruction(op Opcode) {
	r.instructions = append(r.instructions, Instruction{Kind: KindNoArg, Op: op})
}

func (r *Recorder) AddBranchInstruction(op Opcode, target Label) {
	r.targeted[target] = true
	r.instructions = append(r.instructions, Instruction{Kind: KindBranch, Op: op, Target: target})
}

func (r *Recorder) AddOneArgInstruction(op Opcode, arg int) {
	r.instructions = append(r.instructions, Instruction{Kind: KindOneArg, Op: op, Args: []int{arg}})
}

func (r *Recorder) AddIINCInstruction(slot, delta int) {
	r.instructions = append(r.instructions, Instruction{Kind: KindIINC, Op: IINC, Args: []int{slot, delta}})
}

func (r *Recorder) AddLDCInstruction(constant any) {
	r.instructions = append(r.instructions, Instruction{Kind: KindLDC, Op: LDC, Constant: constant})
}

func (r *Recorder) AddMemberAccessInstruction(op Opcode, owner, name, descriptor string) {
	r.instructions = append(r.instructions, Instruction{Kind: KindMember, Op: op, Owner: owner, Name: name, Descriptor: descriptor})
}

func (r *Recorder) AddReferenceInstruction(op Opcode, typeName string) {
	r.instructions = append(r.instructions, Instruction{Kind: KindReference, Op: op, Descriptor: typeName})
}

func (r *Recorder) AddMultiArrayInstruction(typeDescriptor string, dims int) {
	r.instructions = append(r.instructions, Instruction{Kind: KindMultiArray, Op: MULTIANEWARRAY, Descriptor: typeDescriptor, Args: []int{dims}})
}

func (r *Recorder) AddExceptionHandler(start, end, handler Label, catchType string) {
	for _, l := range []Label{start, end, handler} {
		r.targeted[l] = true
	}
	r.handlers = append(r.handlers, ExceptionHandler{Start: start, End: end, Handler: handler, CatchType: catchType})
}

// Handlers returns the exception table in registration order. Entries
// whose range holds no instruction are left out; the JVM requires
// start < end.
func (r *Recorder) Handlers() []ExceptionHandler {
	var out []ExceptionHandler
	for _, h := range r.handlers {
		if !r.emptyRange(h.Start, h.End) {
			out = append(out, h)
		}
	}
	return out
}

// emptyRange reports whether only labels lie between two placed labels.
func (r *Recorder) emptyRange(start, end Label) bool {
	from, ok := r.placed[start]
	if !ok {
		return false
	}
	to, ok := r.placed[end]
	if !ok || to < from {
		return false
	}
	for _, in := range r.instructions[from:to] {
		if in.Kind != KindLabel {
			return false
		}
	}
	return true
}

// Instructions returns the recorded stream, labels included.
func (r *Recorder) Instructions() []Instruction {
	return r.instructions
}

// Opcodes returns just the opcodes of the recorded stream, skipping labels.
func (r *Recorder) Opcodes() []Opcode {
	var ops []Opcode
	for _, in := range r.instructions {
		if in.Kind != KindLabel {
			ops = append(ops, in.Op)
		}
	}
	return ops
}

// Resolve checks that every created label was placed exactly once and
// that every branch target exists. It returns the instruction index of
// each label.
func (r *Recorder) Resolve() (map[Label]int, error) {
	var problems []string
	for _, l := range r.placedTwice {
		problems = append(problems, fmt.Sprintf("label %s placed more than once", l))
	}
	for i := 0; i < r.nextLabel; i++ {
		l := Label(i)
		if _, ok := r.placed[l]; !ok {
			if r.targeted[l] {
				problems = append(problems, fmt.Sprintf("branch to unplaced label %s", l))
			} else {
				problems = append(problems, fmt.Sprintf("label %s created but never placed", l))
			}
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("resolve labels: %s", strings.Join(problems, "; "))
	}
	out := make(map[Label]int, len(r.placed))
	for l, at := range r.placed {
		out[l] = at
	}
	return out, nil
}

// WriteTo writes the listing, one instruction per line, labels flush left.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, in := range r.instructions {
		var line string
		if in.Kind == KindLabel {
			line = in.String() + "\n"
		} else {
			line = "    " + in.String() + "\n"
		}
		n, err := io.WriteString(w, line)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	for _, h := range r.Handlers() {
		n, err := io.WriteString(w, "    handler "+h.String()+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (r *Recorder) String() string {
	var b strings.Builder
	r.WriteTo(&b)
	return b.String()
}
