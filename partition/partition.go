// Package partition splits a rendered Java document into one compilation
// unit per top-level declaration.
//
// Every declaration in a document starts with the package line. Splitting on
// that line yields chunks; the first declaration signature found at the start
// of a line names the unit. The chunk before the first package line is the
// document preamble and normally holds no declaration.
package partition

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/logger"
)

// Warning codes
const (
	CodePartitionMiss        = "partition-miss"
	CodeDuplicateDeclaration = "duplicate-declaration"
)

var declaration = regexp.MustCompile(
	`(?m)^(?:(?:public|protected|private|final|abstract|static|sealed|non-sealed)\s+)*` +
		`(?:class|interface|enum|record|@interface)\s+([A-Za-z_$][A-Za-z0-9_$]*)`)

var importLine = regexp.MustCompile(`(?m)^import\s+[\w.*]+\s*;[ \t]*$`)

// Unit is one output file.
type Unit struct {
	// Name is the declared identifier, also the file's base name.
	Name    string
	Package string
	// Path is slash separated and relative to the output root.
	Path    string
	Content string
}

// Warning reports a chunk that produced no unit.
type Warning struct {
	Code      string `json:"code"`
	Index     int    `json:"index"`
	FirstLine string `json:"first_line"`
}

func (w Warning) String() string {
	return w.Code + ": chunk " + strconv.Itoa(w.Index) + ": " + w.FirstLine
}

// Options tune a split.
type Options struct {
	// CarryImports copies the preamble imports into every unit that does
	// not already have them.
	CarryImports bool
	// FailOnMiss turns the first dropped declaration chunk into an error.
	FailOnMiss bool
	Logger     *zap.SugaredLogger
}

// Result holds the units in document order.
type Result struct {
	Units    []Unit
	Warnings []Warning
}

// Header is the package line declarations start with.
func Header(pkg string) string { return "package " + pkg + ";" }

// Dir returns the directory of pkg relative to the output root.
func Dir(pkg string) string { return strings.ReplaceAll(pkg, ".", "/") }

// Split partitions document. Chunks without a declaration are dropped;
// the preamble silently, any later non-blank chunk with a warning.
func Split(document, pkg string, opts Options) (*Result, error) {
	if pkg == "" {
		return nil, errors.MarkInvalidConfig("partition: empty package name")
	}
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("partition")
	}
	log = log.With(logger.FieldPackage, pkg)

	header := Header(pkg)
	chunks := strings.Split(document, header)

	var carried []string
	if opts.CarryImports {
		carried = importLine.FindAllString(chunks[0], -1)
	}

	res := &Result{}
	seen := make(map[string]int)
	for i, chunk := range chunks {
		m := declaration.FindStringSubmatch(chunk)
		if m == nil {
			if i == 0 || strings.TrimSpace(chunk) == "" {
				continue
			}
			w := Warning{Code: CodePartitionMiss, Index: i, FirstLine: firstLine(chunk)}
			log.Warnw("Dropped chunk with no declaration",
				logger.FieldChunk, i,
				logger.FieldLine, w.FirstLine)
			if opts.FailOnMiss {
				return nil, errors.Mark(
					errors.Newf("chunk %d of package %s has no declaration: %q", i, pkg, w.FirstLine),
					errors.ErrPartitionMiss)
			}
			res.Warnings = append(res.Warnings, w)
			continue
		}

		name := m[1]
		if prev, dup := seen[name]; dup {
			res.Warnings = append(res.Warnings, Warning{
				Code:      CodeDuplicateDeclaration,
				Index:     i,
				FirstLine: name + " already declared by chunk " + strconv.Itoa(prev),
			})
			log.Warnw("Duplicate declaration", logger.FieldType, name, logger.FieldChunk, i)
			continue
		}
		seen[name] = i

		res.Units = append(res.Units, Unit{
			Name:    name,
			Package: pkg,
			Path:    path.Join(Dir(pkg), name+".java"),
			Content: assemble(header, chunk, carried),
		})
	}

	log.Debugw("Partitioned document",
		logger.FieldCount, len(res.Units),
		"warnings", len(res.Warnings))
	return res, nil
}

// assemble writes the package line, the carried imports the chunk lacks,
// then the chunk body.
func assemble(header, chunk string, carried []string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")

	body := strings.TrimLeft(chunk, "\n")
	var extra []string
	for _, imp := range carried {
		if !strings.Contains(body, imp) {
			extra = append(extra, imp)
		}
	}
	if len(extra) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(extra, "\n"))
		b.WriteString("\n")
	}
	if body != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(body, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

func firstLine(chunk string) string {
	for _, line := range strings.Split(chunk, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
