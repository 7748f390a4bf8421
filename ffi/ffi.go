// Package ffi maps low-level FFI types to their JNA representations.
//
// Java has no unsigned integers, so unsigned widths share the signed type of
// the same width. Callers interpret the bit pattern.
package ffi

import (
	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/ir"
	"github.com/teranos/javabind/naming"
)

var basicLabels = map[ir.FfiKind]string{
	ir.FfiInt8:           "Byte",
	ir.FfiUInt8:          "Byte",
	ir.FfiInt16:          "Short",
	ir.FfiUInt16:         "Short",
	ir.FfiInt32:          "Integer",
	ir.FfiUInt32:         "Integer",
	ir.FfiInt64:          "Long",
	ir.FfiUInt64:         "Long",
	ir.FfiFloat32:        "Float",
	ir.FfiFloat64:        "Double",
	ir.FfiHandle:         "Long",
	ir.FfiForeignBytes:   "ForeignBytes.ByValue",
	ir.FfiRustCallStatus: "UniffiRustCallStatus.ByValue",
	ir.FfiVoidPointer:    "Pointer",
}

// Label is the base JNA type name for t.
func Label(t ir.FfiType) (string, error) {
	switch t := t.(type) {
	case ir.FfiBasic:
		if label, ok := basicLabels[t.Kind]; ok {
			return label, nil
		}
		return "", errors.MarkUnsupportedFfi("no label for ffi kind %s", t.Kind)
	case ir.FfiRustArcPtr:
		return "Pointer", nil
	case ir.FfiRustBuffer:
		return "RustBuffer" + t.Suffix, nil
	case ir.FfiCallback:
		return naming.FfiCallbackName(t.Name), nil
	case ir.FfiStruct:
		return naming.FfiStructName(t.Name), nil
	case ir.FfiReference:
		return ByReference(t.Inner)
	default:
		return "", errors.MarkUnsupportedFfi("unknown ffi type %T", t)
	}
}

// ByValue is the representation used in native function signatures.
func ByValue(t ir.FfiType) (string, error) {
	switch t := t.(type) {
	case ir.FfiRustBuffer:
		label, err := Label(t)
		if err != nil {
			return "", err
		}
		return label + ".ByValue", nil
	case ir.FfiStruct:
		return naming.FfiStructName(t.Name) + ".UniffiByValue", nil
	default:
		return Label(t)
	}
}

// JNA names its int reference IntByReference, not IntegerByReference.
var basicReferences = map[ir.FfiKind]string{
	ir.FfiInt8:    "ByteByReference",
	ir.FfiUInt8:   "ByteByReference",
	ir.FfiInt16:   "ShortByReference",
	ir.FfiUInt16:  "ShortByReference",
	ir.FfiInt32:   "IntByReference",
	ir.FfiUInt32:  "IntByReference",
	ir.FfiInt64:   "LongByReference",
	ir.FfiUInt64:  "LongByReference",
	ir.FfiFloat32: "FloatByReference",
	ir.FfiFloat64: "DoubleByReference",
}

// ByReference is the pointer-to representation. Only numerics, object
// pointers, buffers and structs have one.
func ByReference(t ir.FfiType) (string, error) {
	switch t := t.(type) {
	case ir.FfiBasic:
		if ref, ok := basicReferences[t.Kind]; ok {
			return ref, nil
		}
	case ir.FfiRustArcPtr:
		return "PointerByReference", nil
	case ir.FfiRustBuffer, ir.FfiStruct:
		return Label(t)
	}
	return "", errors.MarkUnsupportedFfi("no by-reference representation for %s", t)
}

// ForStructField is the representation used for fields of FFI structs.
// Callback fields hold the callback interface itself so the field can be
// left null.
func ForStructField(t ir.FfiType) (string, error) {
	if cb, ok := t.(ir.FfiCallback); ok {
		return naming.FfiCallbackName(cb.Name), nil
	}
	return ByValue(t)
}

var basicDefaults = map[ir.FfiKind]string{
	ir.FfiInt8:           "(byte)0",
	ir.FfiUInt8:          "(byte)0",
	ir.FfiInt16:          "(short)0",
	ir.FfiUInt16:         "(short)0",
	ir.FfiInt32:          "0",
	ir.FfiUInt32:         "0",
	ir.FfiInt64:          "0L",
	ir.FfiUInt64:         "0L",
	ir.FfiHandle:         "0L",
	ir.FfiFloat32:        "0.0f",
	ir.FfiFloat64:        "0.0",
	ir.FfiVoidPointer:    "Pointer.NULL",
	ir.FfiRustCallStatus: "new UniffiRustCallStatus.ByValue()",
	ir.FfiForeignBytes:   "new ForeignBytes.ByValue()",
}

// DefaultValue is the zero literal used to pre-populate structs and
// out-parameters.
func DefaultValue(t ir.FfiType) (string, error) {
	switch t := t.(type) {
	case ir.FfiBasic:
		if v, ok := basicDefaults[t.Kind]; ok {
			return v, nil
		}
	case ir.FfiRustArcPtr:
		return "Pointer.NULL", nil
	case ir.FfiRustBuffer:
		return "new RustBuffer" + t.Suffix + ".ByValue()", nil
	case ir.FfiCallback:
		return "null", nil
	case ir.FfiStruct:
		return "new " + naming.FfiStructName(t.Name) + ".UniffiByValue()", nil
	}
	return "", errors.MarkUnsupportedFfi("no default value for %s", t)
}
