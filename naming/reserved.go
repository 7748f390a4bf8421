package naming

// Java keywords and literals (JLS 3.9, 3.10.3, 3.10.7), plus the
// underscore identifier.
var reserved = map[string]struct{}{
	"abstract": {}, "assert": {}, "boolean": {}, "break": {}, "byte": {},
	"case": {}, "catch": {}, "char": {}, "class": {}, "const": {},
	"continue": {}, "default": {}, "do": {}, "double": {}, "else": {},
	"enum": {}, "extends": {}, "final": {}, "finally": {}, "float": {},
	"for": {}, "goto": {}, "if": {}, "implements": {}, "import": {},
	"instanceof": {}, "int": {}, "interface": {}, "long": {}, "native": {},
	"new": {}, "package": {}, "private": {}, "protected": {}, "public": {},
	"return": {}, "short": {}, "static": {}, "strictfp": {}, "super": {},
	"switch": {}, "synchronized": {}, "this": {}, "throw": {}, "throws": {},
	"transient": {}, "try": {}, "void": {}, "volatile": {}, "while": {},
	"true": {}, "false": {}, "null": {}, "_": {},
}

// IsReserved reports whether name cannot be used as a Java identifier.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

// EscapeReserved appends "_" to reserved names and returns others unchanged.
func EscapeReserved(name string) string {
	if IsReserved(name) {
		return name + "_"
	}
	return name
}
