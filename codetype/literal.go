package codetype

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/ir"
)

func literalMismatch(lit ir.Literal, t ir.Type) error {
	return errors.MarkLiteralMismatch("%s literal %s for type %s", tagOf(lit), ir.LiteralString(lit), t)
}

func tagOf(lit ir.Literal) string {
	if lit == nil {
		return "missing"
	}
	return lit.Tag()
}

// bits is the width of an integer kind.
func bits(k ir.PrimitiveKind) int {
	switch k {
	case ir.Int8, ir.UInt8:
		return 8
	case ir.Int16, ir.UInt16:
		return 16
	case ir.Int32, ir.UInt32:
		return 32
	default:
		return 64
	}
}

// renderSigned renders a signed literal as kind. Octal and hexadecimal
// sources both render as Java hex, two's complement at the kind's width.
func renderSigned(l ir.LitInt, kind ir.PrimitiveKind) (string, error) {
	if kind.IsUnsigned() {
		if l.Value < 0 {
			return "", errors.MarkLiteralMismatch("negative literal %d for unsigned type %s", l.Value, kind)
		}
		return renderUnsigned(ir.LitUInt{Value: uint64(l.Value), Radix: l.Radix}, kind), nil
	}
	if isFloat(kind) {
		return renderFloat(strconv.FormatInt(l.Value, 10), kind), nil
	}

	if l.Radix == ir.Decimal {
		return typedSigned(strconv.FormatInt(l.Value, 10), kind, false), nil
	}
	mask := uint64(1)<<bits(kind) - 1
	if bits(kind) == 64 {
		mask = ^uint64(0)
	}
	return typedSigned("0x"+strconv.FormatUint(uint64(l.Value)&mask, 16), kind, true), nil
}

func renderUnsigned(l ir.LitUInt, kind ir.PrimitiveKind) string {
	if isFloat(kind) {
		return renderFloat(strconv.FormatUint(l.Value, 10), kind)
	}
	if !kind.IsUnsigned() {
		if l.Radix == ir.Decimal {
			return typedSigned(strconv.FormatUint(l.Value, 10), kind, false)
		}
		return typedSigned("0x"+strconv.FormatUint(l.Value, 16), kind, true)
	}

	// Java has no unsigned literals, so the bit pattern comes from a parse helper
	arg := strconv.Quote(strconv.FormatUint(l.Value, 10))
	if l.Radix != ir.Decimal {
		arg = strconv.Quote(strconv.FormatUint(l.Value, 16)) + ", 16"
	}
	switch kind {
	case ir.UInt8:
		return "(byte) Integer.parseUnsignedInt(" + arg + ")"
	case ir.UInt16:
		return "(short) Integer.parseUnsignedInt(" + arg + ")"
	case ir.UInt32:
		return "Integer.parseUnsignedInt(" + arg + ")"
	default:
		return "Long.parseUnsignedLong(" + arg + ")"
	}
}

// typedSigned adds the suffix or cast a signed kind needs. Narrow hex
// literals are int constants in Java and need a cast to fit.
func typedSigned(text string, kind ir.PrimitiveKind, hex bool) string {
	switch kind {
	case ir.Int8:
		if hex {
			return "(byte)" + text
		}
	case ir.Int16:
		if hex {
			return "(short)" + text
		}
	case ir.Int64:
		return text + "L"
	}
	return text
}

// renderFloat suffixes float literals; doubles need a decimal point so an
// integral value is not an int constant.
func renderFloat(text string, kind ir.PrimitiveKind) string {
	if kind == ir.Float32 {
		return text + "f"
	}
	if !strings.ContainsAny(text, ".eE") {
		return text + ".0"
	}
	return text
}

// QuoteJava renders s as a Java string literal.
func QuoteJava(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if unicode.IsPrint(r) {
				b.WriteRune(r)
				continue
			}
			if r > 0xFFFF {
				hi, lo := utf16.EncodeRune(r)
				writeUnicodeEscape(&b, hi)
				writeUnicodeEscape(&b, lo)
				continue
			}
			writeUnicodeEscape(&b, r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func writeUnicodeEscape(b *strings.Builder, r rune) {
	hex := strconv.FormatInt(int64(r), 16)
	b.WriteString(`\u`)
	b.WriteString(strings.Repeat("0", 4-len(hex)))
	b.WriteString(hex)
}
