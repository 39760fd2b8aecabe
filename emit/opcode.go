package emit

// Opcode is a JVM instruction mnemonic. Values match the class-file
// encoding so listings line up with javap output.
type Opcode uint8

const (
	NOP            Opcode = 0x00
	ACONST_NULL    Opcode = 0x01
	ICONST_M1      Opcode = 0x02
	ICONST_0       Opcode = 0x03
	ICONST_1       Opcode = 0x04
	ICONST_2       Opcode = 0x05
	ICONST_3       Opcode = 0x06
	ICONST_4       Opcode = 0x07
	ICONST_5       Opcode = 0x08
	LCONST_0       Opcode = 0x09
	LCONST_1       Opcode = 0x0a
	FCONST_0       Opcode = 0x0b
	FCONST_1       Opcode = 0x0c
	FCONST_2       Opcode = 0x0d
	DCONST_0       Opcode = 0x0e
	DCONST_1       Opcode = 0x0f
	BIPUSH         Opcode = 0x10
	SIPUSH         Opcode = 0x11
	LDC            Opcode = 0x12
	ILOAD          Opcode = 0x15
	LLOAD          Opcode = 0x16
	FLOAD          Opcode = 0x17
	DLOAD          Opcode = 0x18
	ALOAD          Opcode = 0x19
	IALOAD         Opcode = 0x2e
	LALOAD         Opcode = 0x2f
	FALOAD         Opcode = 0x30
	DALOAD         Opcode = 0x31
	AALOAD         Opcode = 0x32
	BALOAD         Opcode = 0x33
	CALOAD         Opcode = 0x34
	ISTORE         Opcode = 0x36
	LSTORE         Opcode = 0x37
	FSTORE         Opcode = 0x38
	DSTORE         Opcode = 0x39
	ASTORE         Opcode = 0x3a
	IASTORE        Opcode = 0x4f
	LASTORE        Opcode = 0x50
	FASTORE        Opcode = 0x51
	DASTORE        Opcode = 0x52
	AASTORE        Opcode = 0x53
	BASTORE        Opcode = 0x54
	CASTORE        Opcode = 0x55
	POP            Opcode = 0x57
	POP2           Opcode = 0x58
	DUP            Opcode = 0x59
	DUP_X1         Opcode = 0x5a
	DUP_X2         Opcode = 0x5b
	DUP2           Opcode = 0x5c
	DUP2_X1        Opcode = 0x5d
	DUP2_X2        Opcode = 0x5e
	SWAP           Opcode = 0x5f
	IADD           Opcode = 0x60
	LADD           Opcode = 0x61
	FADD           Opcode = 0x62
	DADD           Opcode = 0x63
	ISUB           Opcode = 0x64
	LSUB           Opcode = 0x65
	FSUB           Opcode = 0x66
	DSUB           Opcode = 0x67
	IMUL           Opcode = 0x68
	LMUL           Opcode = 0x69
	FMUL           Opcode = 0x6a
	DMUL           Opcode = 0x6b
	IDIV           Opcode = 0x6c
	LDIV           Opcode = 0x6d
	FDIV           Opcode = 0x6e
	DDIV           Opcode = 0x6f
	IREM           Opcode = 0x70
	LREM           Opcode = 0x71
	FREM           Opcode = 0x72
	DREM           Opcode = 0x73
	INEG           Opcode = 0x74
	LNEG           Opcode = 0x75
	FNEG           Opcode = 0x76
	DNEG           Opcode = 0x77
	ISHL           Opcode = 0x78
	ISHR           Opcode = 0x7a
	IUSHR          Opcode = 0x7c
	IAND           Opcode = 0x7e
	IOR            Opcode = 0x80
	IXOR           Opcode = 0x82
	IINC           Opcode = 0x84
	I2L            Opcode = 0x85
	I2F            Opcode = 0x86
	I2D            Opcode = 0x87
	L2I            Opcode = 0x88
	L2F            Opcode = 0x89
	L2D            Opcode = 0x8a
	F2I            Opcode = 0x8b
	F2L            Opcode = 0x8c
	F2D            Opcode = 0x8d
	D2I            Opcode = 0x8e
	D2L            Opcode = 0x8f
	D2F            Opcode = 0x90
	I2C            Opcode = 0x92
	IFEQ           Opcode = 0x99
	IFNE           Opcode = 0x9a
	IFLT           Opcode = 0x9b
	IFGE           Opcode = 0x9c
	IFGT           Opcode = 0x9d
	IFLE           Opcode = 0x9e
	IF_ICMPEQ      Opcode = 0x9f
	IF_ICMPNE      Opcode = 0xa0
	IF_ICMPLT      Opcode = 0xa1
	IF_ICMPGE      Opcode = 0xa2
	IF_ICMPGT      Opcode = 0xa3
	IF_ICMPLE      Opcode = 0xa4
	IF_ACMPEQ      Opcode = 0xa5
	IF_ACMPNE      Opcode = 0xa6
	GOTO           Opcode = 0xa7
	IRETURN        Opcode = 0xac
	LRETURN        Opcode = 0xad
	FRETURN        Opcode = 0xae
	DRETURN        Opcode = 0xaf
	ARETURN        Opcode = 0xb0
	RETURN         Opcode = 0xb1
	GETSTATIC      Opcode = 0xb2
	PUTSTATIC      Opcode = 0xb3
	GETFIELD       Opcode = 0xb4
	PUTFIELD       Opcode = 0xb5
	INVOKEVIRTUAL  Opcode = 0xb6
	INVOKESPECIAL  Opcode = 0xb7
	INVOKESTATIC   Opcode = 0xb8
	NEW            Opcode = 0xbb
	NEWARRAY       Opcode = 0xbc
	ANEWARRAY      Opcode = 0xbd
	ARRAYLENGTH    Opcode = 0xbe
	ATHROW         Opcode = 0xbf
	CHECKCAST      Opcode = 0xc0
	INSTANCEOF     Opcode = 0xc1
	MULTIANEWARRAY Opcode = 0xc5
	IFNULL         Opcode = 0xc6
	IFNONNULL      Opcode = 0xc7
)

var opcodeNames = map[Opcode]string{
	NOP:            "nop",
	ACONST_NULL:    "aconst_null",
	ICONST_M1:      "iconst_m1",
	ICONST_0:       "iconst_0",
	ICONST_1:       "iconst_1",
	ICONST_2:       "iconst_2",
	ICONST_3:       "iconst_3",
	ICONST_4:       "iconst_4",
	ICONST_5:       "iconst_5",
	LCONST_0:       "lconst_0",
	LCONST_1:       "lconst_1",
	FCONST_0:       "fconst_0",
	FCONST_1:       "fconst_1",
	FCONST_2:       "fconst_2",
	DCONST_0:       "dconst_0",
	DCONST_1:       "dconst_1",
	BIPUSH:         "bipush",
	SIPUSH:         "sipush",
	LDC:            "ldc",
	ILOAD:          "iload",
	LLOAD:          "lload",
	FLOAD:          "fload",
	DLOAD:          "dload",
	ALOAD:          "aload",
	IALOAD:         "iaload",
	LALOAD:         "laload",
	FALOAD:         "faload",
	DALOAD:         "daload",
	AALOAD:         "aaload",
	BALOAD:         "baload",
	CALOAD:         "caload",
	ISTORE:         "istore",
	LSTORE:         "lstore",
	FSTORE:         "fstore",
	DSTORE:         "dstore",
	ASTORE:         "astore",
	IASTORE:        "iastore",
	LASTORE:        "lastore",
	FASTORE:        "fastore",
	DASTORE:        "dastore",
	AASTORE:        "aastore",
	BASTORE:        "bastore",
	CASTORE:        "castore",
	POP:            "pop",
	POP2:           "pop2",
	DUP:            "dup",
	DUP_X1:         "dup_x1",
	DUP_X2:         "dup_x2",
	DUP2:           "dup2",
	DUP2_X1:        "dup2_x1",
	DUP2_X2:        "dup2_x2",
	SWAP:           "swap",
	IADD:           "iadd",
	LADD:           "ladd",
	FADD:           "fadd",
	DADD:           "dadd",
	ISUB:           "isub",
	LSUB:           "lsub",
	FSUB:           "fsub",
	DSUB:           "dsub",
	IMUL:           "imul",
	LMUL:           "lmul",
	FMUL:           "fmul",
	DMUL:           "dmul",
	IDIV:           "idiv",
	LDIV:           "ldiv",
	FDIV:           "fdiv",
	DDIV:           "ddiv",
	IREM:           "irem",
	LREM:           "lrem",
	FREM:           "frem",
	DREM:           "drem",
	INEG:           "ineg",
	LNEG:           "lneg",
	FNEG:           "fneg",
	DNEG:           "dneg",
	ISHL:           "ishl",
	ISHR:           "ishr",
	IUSHR:          "iushr",
	IAND:           "iand",
	IOR:            "ior",
	IXOR:           "ixor",
	IINC:           "iinc",
	I2L:            "i2l",
	I2F:            "i2f",
	I2D:            "i2d",
	L2I:            "l2i",
	L2F:            "l2f",
	L2D:            "l2d",
	F2I:            "f2i",
	F2L:            "f2l",
	F2D:            "f2d",
	D2I:            "d2i",
	D2L:            "d2l",
	D2F:            "d2f",
	I2C:            "i2c",
	IFEQ:           "ifeq",
	IFNE:           "ifne",
	IFLT:           "iflt",
	IFGE:           "ifge",
	IFGT:           "ifgt",
	IFLE:           "ifle",
	IF_ICMPEQ:      "if_icmpeq",
	IF_ICMPNE:      "if_icmpne",
	IF_ICMPLT:      "if_icmplt",
	IF_ICMPGE:      "if_icmpge",
	IF_ICMPGT:      "if_icmpgt",
	IF_ICMPLE:      "if_icmple",
	IF_ACMPEQ:      "if_acmpeq",
	IF_ACMPNE:      "if_acmpne",
	GOTO:           "goto",
	IRETURN:        "ireturn",
	LRETURN:        "lreturn",
	FRETURN:        "freturn",
	DRETURN:        "dreturn",
	ARETURN:        "areturn",
	RETURN:         "return",
	GETSTATIC:      "getstatic",
	PUTSTATIC:      "putstatic",
	GETFIELD:       "getfield",
	PUTFIELD:       "putfield",
	INVOKEVIRTUAL:  "invokevirtual",
	INVOKESPECIAL:  "invokespecial",
	INVOKESTATIC:   "invokestatic",
	NEW:            "new",
	NEWARRAY:       "newarray",
	ANEWARRAY:      "anewarray",
	ARRAYLENGTH:    "arraylength",
	ATHROW:         "athrow",
	CHECKCAST:      "checkcast",
	INSTANCEOF:     "instanceof",
	MULTIANEWARRAY: "multianewarray",
	IFNULL:         "ifnull",
	IFNONNULL:      "ifnonnull",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "unknown"
}

// IsBranch reports whether op takes a label operand.
func (op Opcode) IsBranch() bool {
	switch op {
	case IFEQ, IFNE, IFLT, IFGE, IFGT, IFLE,
		IF_ICMPEQ, IF_ICMPNE, IF_ICMPLT, IF_ICMPGE, IF_ICMPGT, IF_ICMPLE,
		IF_ACMPEQ, IF_ACMPNE, GOTO, IFNULL, IFNONNULL:
		return true
	}
	return false
}

var negations = map[Opcode]Opcode{
	IFEQ:      IFNE,
	IFNE:      IFEQ,
	IFLT:      IFGE,
	IFGE:      IFLT,
	IFGT:      IFLE,
	IFLE:      IFGT,
	IF_ICMPEQ: IF_ICMPNE,
	IF_ICMPNE: IF_ICMPEQ,
	IF_ICMPLT: IF_ICMPGE,
	IF_ICMPGE: IF_ICMPLT,
	IF_ICMPGT: IF_ICMPLE,
	IF_ICMPLE: IF_ICMPGT,
	IF_ACMPEQ: IF_ACMPNE,
	IF_ACMPNE: IF_ACMPEQ,
	IFNULL:    IFNONNULL,
	IFNONNULL: IFNULL,
}

// Negate returns the conditional branch taken exactly when op is not.
// Unconditional and non-branch opcodes are returned unchanged.
func (op Opcode) Negate() Opcode {
	if n, ok := negations[op]; ok {
		return n
	}
	return op
}
