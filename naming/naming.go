// Package naming turns raw interface identifiers into Java identifiers.
//
// Every function is pure. The only state is the reserved-word policy carried
// by Namer, which the renderer builds from configuration.
package naming

import (
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/teranos/javabind/errors"
)

// ffiPrefix namespaces synthetic FFI callback and struct names so they can
// never collide with user classes or java.lang.
const ffiPrefix = "Uniffi"

// ErrorRegistry reports which names are thrown as errors.
// *ir.ComponentInterface implements it.
type ErrorRegistry interface {
	IsNameUsedAsError(name string) bool
}

// ClassName returns the UpperCamel class name for raw. Names registered as
// errors have a trailing "Error" rewritten to "Exception".
func ClassName(raw string, errs ErrorRegistry) string {
	name := strcase.ToCamel(raw)
	if errs != nil && errs.IsNameUsedAsError(raw) {
		return ConvertErrorSuffix(name)
	}
	return name
}

// ConvertErrorSuffix rewrites an exact trailing "Error" to "Exception".
func ConvertErrorSuffix(name string) string {
	if stripped, ok := strings.CutSuffix(name, "Error"); ok {
		return stripped + "Exception"
	}
	return name
}

// FnName returns the lowerCamel function name, escaping reserved words.
func FnName(raw string) string { return EscapeReserved(strcase.ToLowerCamel(raw)) }

// VarName returns the lowerCamel variable name, escaping reserved words.
func VarName(raw string) string { return EscapeReserved(strcase.ToLowerCamel(raw)) }

// GetterName returns "get" + UpperCamel(raw).
func GetterName(raw string) string { return "get" + strcase.ToCamel(raw) }

// SetterName returns "set" + UpperCamel(raw).
func SetterName(raw string) string { return "set" + strcase.ToCamel(raw) }

// EnumVariantName returns the SHOUTY_SNAKE constant name for a variant.
func EnumVariantName(raw string) string { return strcase.ToScreamingSnake(raw) }

// ErrorVariantName returns the exception class name for an error variant.
func ErrorVariantName(raw string) string { return ConvertErrorSuffix(strcase.ToCamel(raw)) }

// FfiCallbackName returns the JNA callback interface name for an FFI callback.
func FfiCallbackName(raw string) string { return ffiPrefix + strcase.ToCamel(raw) }

// FfiStructName returns the JNA structure class name for an FFI struct.
func FfiStructName(raw string) string { return ffiPrefix + strcase.ToCamel(raw) }

// ObjectNames returns the (interface, class) names generated for an object.
// Objects foreign code may implement keep their name for the interface.
func ObjectNames(raw string, hasCallbackInterface bool, errs ErrorRegistry) (string, string) {
	className := ClassName(raw, errs)
	if hasCallbackInterface {
		return className, className + "Impl"
	}
	return className + "Interface", className
}

// Docstring renders text as a javadoc comment indented by indent spaces.
func Docstring(text string, indent int) string {
	if text == "" {
		return ""
	}
	pad := strings.Repeat(" ", max(indent, 0))

	var b strings.Builder
	b.WriteString(pad + "/**\n")
	for _, line := range strings.Split(dedent(text), "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			b.WriteString(pad + " *\n")
			continue
		}
		b.WriteString(pad + " * " + strings.ReplaceAll(line, "*/", "*&#47;") + "\n")
	}
	b.WriteString(pad + " */")
	return b.String()
}

// dedent strips the whitespace prefix common to every non-blank line.
func dedent(text string) string {
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	prefix := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if prefix < 0 || n < prefix {
			prefix = n
		}
	}
	if prefix <= 0 {
		return strings.Join(lines, "\n")
	}
	for i, line := range lines {
		if len(line) >= prefix {
			lines[i] = line[prefix:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}

// ReservedPolicy decides what happens to identifiers that are Java keywords.
type ReservedPolicy int

const (
	// Escape appends an underscore.
	Escape ReservedPolicy = iota
	// Reject fails generation with ErrReservedWord.
	Reject
)

// ParseReservedPolicy maps the reserved_words config value.
func ParseReservedPolicy(s string) (ReservedPolicy, error) {
	switch s {
	case "", "escape":
		return Escape, nil
	case "reject":
		return Reject, nil
	default:
		return Escape, errors.MarkInvalidConfig("unknown reserved_words mode %q (want escape or reject)", s)
	}
}

func (p ReservedPolicy) String() string {
	if p == Reject {
		return "reject"
	}
	return "escape"
}

// Namer applies a reserved-word policy to function and variable names.
type Namer struct {
	Policy ReservedPolicy
}

// FnName is FnName under the namer's policy.
func (n Namer) FnName(raw string) (string, error) {
	return n.apply(raw, strcase.ToLowerCamel(raw))
}

// VarName is VarName under the namer's policy.
func (n Namer) VarName(raw string) (string, error) {
	return n.apply(raw, strcase.ToLowerCamel(raw))
}

func (n Namer) apply(raw, name string) (string, error) {
	if !IsReserved(name) {
		return name, nil
	}
	if n.Policy == Reject {
		return "", errors.WithHintf(
			errors.Mark(errors.Newf("identifier %q is the Java keyword %q", raw, name), errors.ErrReservedWord),
			"rename %q in the interface, or set reserved_words = \"escape\" under [javabind]", raw,
		)
	}
	return name + "_", nil
}
