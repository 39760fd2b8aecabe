package parser

type TokenKind int

const (
	TokenEOF TokenKind = iota

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenHexLiteral
	TokenOctalLiteral
	TokenBinaryLiteral
	TokenLongLiteral
	TokenFloatLiteral
	TokenDoubleLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenTrue
	TokenFalse
	TokenNull

	// Keywords
	TokenAbstract
	TokenAssert
	TokenBoolean
	TokenBreak
	TokenByte
	TokenCase
	TokenCatch
	TokenChar
	TokenClass
	TokenConst
	TokenContinue
	TokenDefault
	TokenDo
	TokenDouble
	TokenElse
	TokenEnum
	TokenExtends
	TokenFinal
	TokenFinally
	TokenFloat
	TokenFor
	TokenGoto
	TokenIf
	TokenImplements
	TokenImport
	TokenInstanceof
	TokenInt
	TokenInterface
	TokenLong
	TokenNative
	TokenNew
	TokenPackage
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReturn
	TokenShort
	TokenStatic
	TokenStrictfp
	TokenSuper
	TokenSwitch
	TokenSynchronized
	TokenThis
	TokenThrow
	TokenThrows
	TokenTransient
	TokenTry
	TokenUntil
	TokenVoid
	TokenVolatile
	TokenWhile

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis

	TokenAssign
	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenAnd
	TokenOr
	TokenNot
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenShl
	TokenShr
	TokenUShr
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenIncrement
	TokenDecrement
	TokenQuestion
	TokenColon
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign
	TokenUShrAssign

	tokenKindCount
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "EOF",
	TokenIdent:         "Identifier",
	TokenIntLiteral:    "IntLiteral",
	TokenHexLiteral:    "HexLiteral",
	TokenOctalLiteral:  "OctalLiteral",
	TokenBinaryLiteral: "BinaryLiteral",
	TokenLongLiteral:   "LongLiteral",
	TokenFloatLiteral:  "FloatLiteral",
	TokenDoubleLiteral: "DoubleLiteral",
	TokenCharLiteral:   "CharLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenTrue:          "true",
	TokenFalse:         "false",
	TokenNull:          "null",

	TokenAbstract:     "abstract",
	TokenAssert:       "assert",
	TokenBoolean:      "boolean",
	TokenBreak:        "break",
	TokenByte:         "byte",
	TokenCase:         "case",
	TokenCatch:        "catch",
	TokenChar:         "char",
	TokenClass:        "class",
	TokenConst:        "const",
	TokenContinue:     "continue",
	TokenDefault:      "default",
	TokenDo:           "do",
	TokenDouble:       "double",
	TokenElse:         "else",
	TokenEnum:         "enum",
	TokenExtends:      "extends",
	TokenFinal:        "final",
	TokenFinally:      "finally",
	TokenFloat:        "float",
	TokenFor:          "for",
	TokenGoto:         "goto",
	TokenIf:           "if",
	TokenImplements:   "implements",
	TokenImport:       "import",
	TokenInstanceof:   "instanceof",
	TokenInt:          "int",
	TokenInterface:    "interface",
	TokenLong:         "long",
	TokenNative:       "native",
	TokenNew:          "new",
	TokenPackage:      "package",
	TokenPrivate:      "private",
	TokenProtected:    "protected",
	TokenPublic:       "public",
	TokenReturn:       "return",
	TokenShort:        "short",
	TokenStatic:       "static",
	TokenStrictfp:     "strictfp",
	TokenSuper:        "super",
	TokenSwitch:       "switch",
	TokenSynchronized: "synchronized",
	TokenThis:         "this",
	TokenThrow:        "throw",
	TokenThrows:       "throws",
	TokenTransient:    "transient",
	TokenTry:          "try",
	TokenUntil:        "until",
	TokenVoid:         "void",
	TokenVolatile:     "volatile",
	TokenWhile:        "while",

	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenLBracket:  "[",
	TokenRBracket:  "]",
	TokenSemicolon: ";",
	TokenComma:     ",",
	TokenDot:       ".",
	TokenEllipsis:  "...",

	TokenAssign:        "=",
	TokenEQ:            "==",
	TokenNE:            "!=",
	TokenLT:            "<",
	TokenLE:            "<=",
	TokenGT:            ">",
	TokenGE:            ">=",
	TokenAnd:           "&&",
	TokenOr:            "||",
	TokenNot:           "!",
	TokenBitAnd:        "&",
	TokenBitOr:         "|",
	TokenBitXor:        "^",
	TokenBitNot:        "~",
	TokenShl:           "<<",
	TokenShr:           ">>",
	TokenUShr:          ">>>",
	TokenPlus:          "+",
	TokenMinus:         "-",
	TokenStar:          "*",
	TokenSlash:         "/",
	TokenPercent:       "%",
	TokenIncrement:     "++",
	TokenDecrement:     "--",
	TokenQuestion:      "?",
	TokenColon:         ":",
	TokenPlusAssign:    "+=",
	TokenMinusAssign:   "-=",
	TokenStarAssign:    "*=",
	TokenSlashAssign:   "/=",
	TokenPercentAssign: "%=",
	TokenAndAssign:     "&=",
	TokenOrAssign:      "|=",
	TokenXorAssign:     "^=",
	TokenShlAssign:     "<<=",
	TokenShrAssign:     ">>=",
	TokenUShrAssign:    ">>>=",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Image is the text used for k in diagnostics: the fixed spelling for
// keywords and operators, a bracketed category name otherwise.
func (k TokenKind) Image() string {
	if k.IsFixed() {
		return tokenKindNames[k]
	}
	switch k {
	case TokenEOF:
		return "<EOF>"
	case TokenIdent:
		return "<IDENTIFIER>"
	case TokenIntLiteral, TokenHexLiteral, TokenOctalLiteral, TokenBinaryLiteral:
		return "<INT_LITERAL>"
	case TokenLongLiteral:
		return "<LONG_LITERAL>"
	case TokenFloatLiteral:
		return "<FLOAT_LITERAL>"
	case TokenDoubleLiteral:
		return "<DOUBLE_LITERAL>"
	case TokenCharLiteral:
		return "<CHAR_LITERAL>"
	case TokenStringLiteral:
		return "<STRING_LITERAL>"
	}
	return "<UNKNOWN>"
}

// IsFixed reports whether every token of kind k has the same spelling.
func (k TokenKind) IsFixed() bool {
	return k >= TokenTrue && k < tokenKindCount
}

// IsLiteral reports whether k is a literal category, including true,
// false and null.
func (k TokenKind) IsLiteral() bool {
	return k >= TokenIntLiteral && k <= TokenNull
}

// FixedKinds lists every kind with a fixed spelling.
func FixedKinds() []TokenKind {
	var kinds []TokenKind
	for k := TokenTrue; k < tokenKindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

type Token struct {
	Kind    TokenKind
	Literal string
	Line    int
}

// Image is the token's own text, or <EOF> at end of input.
func (t Token) Image() string {
	if t.Kind == TokenEOF {
		return "<EOF>"
	}
	return t.Literal
}

var keywords = map[string]TokenKind{
	"abstract":     TokenAbstract,
	"assert":       TokenAssert,
	"boolean":      TokenBoolean,
	"break":        TokenBreak,
	"byte":         TokenByte,
	"case":         TokenCase,
	"catch":        TokenCatch,
	"char":         TokenChar,
	"class":        TokenClass,
	"const":        TokenConst,
	"continue":     TokenContinue,
	"default":      TokenDefault,
	"do":           TokenDo,
	"double":       TokenDouble,
	"else":         TokenElse,
	"enum":         TokenEnum,
	"extends":      TokenExtends,
	"false":        TokenFalse,
	"final":        TokenFinal,
	"finally":      TokenFinally,
	"float":        TokenFloat,
	"for":          TokenFor,
	"goto":         TokenGoto,
	"if":           TokenIf,
	"implements":   TokenImplements,
	"import":       TokenImport,
	"instanceof":   TokenInstanceof,
	"int":          TokenInt,
	"interface":    TokenInterface,
	"long":         TokenLong,
	"native":       TokenNative,
	"new":          TokenNew,
	"null":         TokenNull,
	"package":      TokenPackage,
	"private":      TokenPrivate,
	"protected":    TokenProtected,
	"public":       TokenPublic,
	"return":       TokenReturn,
	"short":        TokenShort,
	"static":       TokenStatic,
	"strictfp":     TokenStrictfp,
	"super":        TokenSuper,
	"switch":       TokenSwitch,
	"synchronized": TokenSynchronized,
	"this":         TokenThis,
	"throw":        TokenThrow,
	"throws":       TokenThrows,
	"transient":    TokenTransient,
	"true":         TokenTrue,
	"try":          TokenTry,
	"until":        TokenUntil,
	"void":         TokenVoid,
	"volatile":     TokenVolatile,
	"while":        TokenWhile,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
