package qss

import (
	"fmt"
	"strings"
)

// StatementKind discriminates entries of the flattened statement sequence.
type StatementKind int

const (
	// StatementRaw is any line that is not a variable declaration. It may
	// still contain variable references and color function calls.
	StatementRaw StatementKind = iota
	// StatementDeclaration binds a variable name to a value.
	StatementDeclaration
)

// Statement is a single line of the flattened sequence produced by import
// expansion. File and Line point back at the originating source so
// diagnostics stay useful after flattening.
type Statement struct {
	Kind  StatementKind
	Text  string // line as it appeared in the source
	Name  string // declaration only
	Value string // declaration only, unresolved
	File  string // canonical path of the originating source unit
	Line  int    // 1-based line within File
}

// ImportCycleError is returned when a file is imported while it is still
// being expanded. Chain holds the full path chain, entry file first,
// offending file last.
type ImportCycleError struct {
	Chain []string
}

func (e *ImportCycleError) Error() string {
	return "import cycle detected: " + strings.Join(e.Chain, " -> ")
}

// ImportNotFoundError is returned when an imported file (or the entry file
// itself) cannot be read.
type ImportNotFoundError struct {
	Path           string
	ReferencedFrom string // empty for the entry file
	Err            error
}

func (e *ImportNotFoundError) Error() string {
	if len(e.ReferencedFrom) == 0 {
		return fmt.Sprintf("import not found: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("import not found: %s (imported from %s): %v", e.Path, e.ReferencedFrom, e.Err)
}

func (e *ImportNotFoundError) Unwrap() error { return e.Err }

// UndefinedVariableError is returned when a variable is referenced before
// any declaration for that name in flattened order.
type UndefinedVariableError struct {
	Name string
	File string
	Line int
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable $%s at %s:%d", e.Name, e.File, e.Line)
}

// InvalidColorExpressionError is returned for malformed color function
// calls: wrong argument count, unparsable literal or out-of-range parameter.
type InvalidColorExpressionError struct {
	Expr   string
	Reason string
}

func (e *InvalidColorExpressionError) Error() string {
	return fmt.Sprintf("invalid color expression %q: %s", e.Expr, e.Reason)
}
