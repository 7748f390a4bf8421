package ir

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Repr is a readable dump of a component, used by print-repr.
type Repr struct {
	Namespace          string              `yaml:"namespace"`
	Crate              string              `yaml:"crate"`
	ContractVersion    int                 `yaml:"contract_version"`
	Errors             []string            `yaml:"errors,omitempty"`
	Types              []string            `yaml:"types"`
	Enums              map[string][]string `yaml:"enums,omitempty"`
	Records            map[string][]string `yaml:"records,omitempty"`
	Objects            map[string][]string `yaml:"objects,omitempty"`
	CallbackInterfaces map[string][]string `yaml:"callback_interfaces,omitempty"`
	Functions          []string            `yaml:"functions,omitempty"`
	FfiFunctions       []string            `yaml:"ffi_functions,omitempty"`
	FfiDefinitions     []string            `yaml:"ffi_definitions,omitempty"`
}

// NewRepr builds the dump of ci.
func NewRepr(ci *ComponentInterface) Repr {
	r := Repr{
		Namespace:       ci.Namespace,
		Crate:           ci.Crate(),
		ContractVersion: ci.UniffiContractVersion(),
		Errors:          ci.Errors,
	}
	for _, t := range ci.IterTypes() {
		r.Types = append(r.Types, t.String())
	}
	for _, e := range ci.Enums {
		if r.Enums == nil {
			r.Enums = map[string][]string{}
		}
		for _, v := range e.Variants {
			line := v.Name
			if v.HasFields() {
				line += "(" + fieldList(v.Fields) + ")"
			}
			if v.Discr != nil {
				line += " = " + LiteralString(v.Discr)
			}
			r.Enums[e.Name] = append(r.Enums[e.Name], line)
		}
	}
	for _, rec := range ci.Records {
		if r.Records == nil {
			r.Records = map[string][]string{}
		}
		r.Records[rec.Name] = strings.Split(fieldList(rec.Fields), ", ")
	}
	for i := range ci.Objects {
		o := &ci.Objects[i]
		if r.Objects == nil {
			r.Objects = map[string][]string{}
		}
		members := []string{"impl " + o.Impl.String()}
		for j := range o.Constructors {
			members = append(members, "constructor "+Signature(&o.Constructors[j]))
		}
		for j := range o.Methods {
			members = append(members, "method "+Signature(&o.Methods[j]))
		}
		for _, tr := range o.Traits {
			members = append(members, "trait "+tr.Kind.String())
		}
		r.Objects[o.Name] = members
	}
	for i := range ci.CallbackInterfaces {
		cb := &ci.CallbackInterfaces[i]
		if r.CallbackInterfaces == nil {
			r.CallbackInterfaces = map[string][]string{}
		}
		for j := range cb.Methods {
			r.CallbackInterfaces[cb.Name] = append(r.CallbackInterfaces[cb.Name], Signature(&cb.Methods[j]))
		}
	}
	for i := range ci.Functions {
		r.Functions = append(r.Functions, Signature(&ci.Functions[i]))
	}
	for _, f := range ci.FfiFunctions {
		r.FfiFunctions = append(r.FfiFunctions, ffiSignature(f.Name, f.Arguments, f.ReturnType))
	}
	for _, d := range ci.FfiDefinitions {
		switch d := d.(type) {
		case *FfiCallbackDef:
			r.FfiDefinitions = append(r.FfiDefinitions, "callback "+ffiSignature(d.Name, d.Arguments, d.ReturnType))
		case *FfiStructDef:
			r.FfiDefinitions = append(r.FfiDefinitions, "struct "+ffiSignature(d.Name, d.Fields, nil))
		}
	}
	return r
}

// MarshalRepr renders the dump of each component as a YAML stream.
func MarshalRepr(components []*ComponentInterface) ([]byte, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	for _, ci := range components {
		if err := enc.Encode(NewRepr(ci)); err != nil {
			return nil, err
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// Signature renders a callable as "name(a: t) -> r throws e".
func Signature(c *Callable) string {
	var b strings.Builder
	if c.IsAsync {
		b.WriteString("async ")
	}
	b.WriteString(c.Name)
	b.WriteString("(")
	for i, a := range c.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Name + ": " + a.Type.String())
		if a.Default != nil {
			b.WriteString(" = " + LiteralString(a.Default))
		}
	}
	b.WriteString(")")
	if c.ReturnType != nil {
		b.WriteString(" -> " + c.ReturnType.String())
	}
	if c.ThrowsType != nil {
		b.WriteString(" throws " + c.ThrowsType.String())
	}
	return b.String()
}

func fieldList(fields []Field) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		part := f.Name + ": " + f.Type.String()
		if f.Default != nil {
			part += " = " + LiteralString(f.Default)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

func ffiSignature(name string, args []FfiArgument, ret FfiType) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, a.Name+": "+a.Type.String())
	}
	s := name + "(" + strings.Join(parts, ", ") + ")"
	if ret != nil {
		s += " -> " + ret.String()
	}
	return s
}
