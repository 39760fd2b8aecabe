package emit

import (
	"fmt"
	"io"
	"strings"
)

// Method is the code of one method or constructor.
type Method struct {
	Access     AccessFlags
	Name       string
	Descriptor string
	Code       *Recorder
}

// Class groups the generated methods of one class declaration.
type Class struct {
	Access  AccessFlags
	Name    string
	Super   string
	Fields  []Field
	Methods []*Method
}

type Field struct {
	Access     AccessFlags
	Name       string
	Descriptor string
}

// Listing is everything generated for one compilation unit.
type Listing struct {
	Classes []*Class
}

// AddClass starts a new class in the listing.
func (l *Listing) AddClass(access AccessFlags, name, super string) *Class {
	c := &Class{Access: access, Name: name, Super: super}
	l.Classes = append(l.Classes, c)
	return c
}

// AddMethod starts a method and returns it; code generation writes into
// m.Code.
func (c *Class) AddMethod(access AccessFlags, name, descriptor string) *Method {
	m := &Method{Access: access, Name: name, Descriptor: descriptor, Code: NewRecorder()}
	c.Methods = append(c.Methods, m)
	return m
}

func (c *Class) AddField(access AccessFlags, name, descriptor string) {
	c.Fields = append(c.Fields, Field{Access: access, Name: name, Descriptor: descriptor})
}

// Resolve resolves labels in every method and reports the first failure.
func (l *Listing) Resolve() error {
	for _, c := range l.Classes {
		for _, m := range c.Methods {
			if _, err := m.Code.Resolve(); err != nil {
				return fmt.Errorf("%s.%s%s: %w", c.Name, m.Name, m.Descriptor, err)
			}
		}
	}
	return nil
}

func (l *Listing) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	for i, c := range l.Classes {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "class %s extends %s", c.Name, c.Super)
		if s := c.Access.String(); s != "" {
			fmt.Fprintf(&b, " [%s]", s)
		}
		b.WriteByte('\n')
		for _, f := range c.Fields {
			fmt.Fprintf(&b, "  field %s %s", f.Name, f.Descriptor)
			if s := f.Access.String(); s != "" {
				fmt.Fprintf(&b, " [%s]", s)
			}
			b.WriteByte('\n')
		}
		for _, m := range c.Methods {
			fmt.Fprintf(&b, "  method %s%s", m.Name, m.Descriptor)
			if s := m.Access.String(); s != "" {
				fmt.Fprintf(&b, " [%s]", s)
			}
			b.WriteByte('\n')
			m.Code.WriteTo(&b)
		}
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
