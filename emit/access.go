package emit

import "strings"

// AccessFlags uses the class-file bit layout.
type AccessFlags uint16

const (
	AccPublic    AccessFlags = 0x0001
	AccPrivate   AccessFlags = 0x0002
	AccProtected AccessFlags = 0x0004
	AccStatic    AccessFlags = 0x0008
	AccFinal     AccessFlags = 0x0010
	AccSuper     AccessFlags = 0x0020
	AccVarargs   AccessFlags = 0x0080
	AccAbstract  AccessFlags = 0x0400
)

func (f AccessFlags) IsPublic() bool    { return f&AccPublic != 0 }
func (f AccessFlags) IsPrivate() bool   { return f&AccPrivate != 0 }
func (f AccessFlags) IsProtected() bool { return f&AccProtected != 0 }
func (f AccessFlags) IsStatic() bool    { return f&AccStatic != 0 }
func (f AccessFlags) IsFinal() bool     { return f&AccFinal != 0 }
func (f AccessFlags) IsVarargs() bool   { return f&AccVarargs != 0 }
func (f AccessFlags) IsAbstract() bool  { return f&AccAbstract != 0 }

var modifierFlags = map[string]AccessFlags{
	"public":    AccPublic,
	"private":   AccPrivate,
	"protected": AccProtected,
	"static":    AccStatic,
	"final":     AccFinal,
	"abstract":  AccAbstract,
}

// FlagsFromModifiers maps source modifiers to access flags. Unknown
// modifiers are ignored.
func FlagsFromModifiers(mods []string) AccessFlags {
	var f AccessFlags
	for _, m := range mods {
		f |= modifierFlags[m]
	}
	return f
}

var flagOrder = []struct {
	flag AccessFlags
	name string
}{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccAbstract, "abstract"},
	{AccVarargs, "varargs"},
}

func (f AccessFlags) String() string {
	var parts []string
	for _, fo := range flagOrder {
		if f&fo.flag != 0 {
			parts = append(parts, fo.name)
		}
	}
	return strings.Join(parts, " ")
}
