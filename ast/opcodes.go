package ast

import (
	"github.com/dhamidi/jminus/emit"
	"github.com/dhamidi/jminus/types"
)

func loadOpcode(t *types.Type) emit.Opcode {
	switch t {
	case types.Int, types.Char, types.Boolean:
		return emit.ILOAD
	case types.Long:
		return emit.LLOAD
	case types.Float:
		return emit.FLOAD
	case types.Double:
		return emit.DLOAD
	}
	return emit.ALOAD
}

func storeOpcode(t *types.Type) emit.Opcode {
	switch t {
	case types.Int, types.Char, types.Boolean:
		return emit.ISTORE
	case types.Long:
		return emit.LSTORE
	case types.Float:
		return emit.FSTORE
	case types.Double:
		return emit.DSTORE
	}
	return emit.ASTORE
}

func arrayLoadOpcode(component *types.Type) emit.Opcode {
	switch component {
	case types.Int:
		return emit.IALOAD
	case types.Char:
		return emit.CALOAD
	case types.Boolean:
		return emit.BALOAD
	case types.Long:
		return emit.LALOAD
	case types.Float:
		return emit.FALOAD
	case types.Double:
		return emit.DALOAD
	}
	return emit.AALOAD
}

func arrayStoreOpcode(component *types.Type) emit.Opcode {
	switch component {
	case types.Int:
		return emit.IASTORE
	case types.Char:
		return emit.CASTORE
	case types.Boolean:
		return emit.BASTORE
	case types.Long:
		return emit.LASTORE
	case types.Float:
		return emit.FASTORE
	case types.Double:
		return emit.DASTORE
	}
	return emit.AASTORE
}

func returnOpcode(t *types.Type) emit.Opcode {
	switch t {
	case types.Void:
		return emit.RETURN
	case types.Int, types.Char, types.Boolean:
		return emit.IRETURN
	case types.Long:
		return emit.LRETURN
	case types.Float:
		return emit.FRETURN
	case types.Double:
		return emit.DRETURN
	}
	return emit.ARETURN
}

// newarray operand codes for primitive element types.
var primitiveArrayCodes = map[*types.Type]int{
	types.Boolean: 4,
	types.Char:    5,
	types.Float:   6,
	types.Double:  7,
	types.Int:     10,
	types.Long:    11,
}

// emitNewArray allocates a one-dimensional array of component; the length
// is already on the stack.
func emitNewArray(out emit.Emitter, component *types.Type) {
	if code, ok := primitiveArrayCodes[component]; ok {
		out.AddOneArgInstruction(emit.NEWARRAY, code)
		return
	}
	out.AddReferenceInstruction(emit.ANEWARRAY, component.JVMName())
}

// lvalue is implemented by nodes that can appear on the left of an
// assignment or under ++ and --. The protocol is: codegenRef pushes
// whatever locates the variable, codegenDupRef duplicates it so a
// compound update can load before storing, codegenLoad and codegenStore
// consume it, and codegenDupValue copies the value below the reference so
// it survives the store.
type lvalue interface {
	Expression
	codegenRef(out emit.Emitter)
	codegenDupRef(out emit.Emitter)
	codegenLoad(out emit.Emitter)
	codegenDupValue(out emit.Emitter)
	codegenStore(out emit.Emitter)
	// localSlot returns the slot of an int local, for IINC.
	localSlot() (int, bool)
}

// dupOpcode copies a value of type t past refWords words of reference.
func dupOpcode(t *types.Type, refWords int) emit.Opcode {
	if t != nil && t.WordSize() == 2 {
		switch refWords {
		case 1:
			return emit.DUP2_X1
		case 2:
			return emit.DUP2_X2
		}
		return emit.DUP2
	}
	switch refWords {
	case 1:
		return emit.DUP_X1
	case 2:
		return emit.DUP_X2
	}
	return emit.DUP
}
