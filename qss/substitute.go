package qss

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// varTable is the order-sensitive variable namespace of one compilation
// unit. It is mutated only by declarations during the single forward pass.
type varTable struct {
	values    map[string]string
	lastWrite map[string]int // flattened statement index of the binding
}

func newVarTable() *varTable {
	return &varTable{
		values:    make(map[string]string),
		lastWrite: make(map[string]int),
	}
}

func (t *varTable) set(name, value string, at int) {
	t.values[name] = value
	t.lastWrite[name] = at
}

func (t *varTable) get(name string) (string, bool) {
	v, ok := t.values[name]
	return v, ok
}

// substitute performs the single forward pass over the flattened sequence:
// declarations update the table (value fully resolved before storage, later
// wins), every other line gets its references replaced with current bindings
// and its color function calls evaluated. Returns the resolved line per
// statement and the set of declaration indices for the emitter to strip.
// There is no second pass and no lookahead - a name must be declared earlier
// in flattened order than any point it is used.
func (c *Compiler) substitute(seq []Statement) ([]string, map[int]bool, error) {
	tbl := newVarTable()
	lines := make([]string, len(seq))
	decls := make(map[int]bool)

	for i, stmt := range seq {
		switch stmt.Kind {
		case StatementDeclaration:
			val, err := resolveRefs(stmt.Value, stmt, tbl)
			if err != nil {
				return nil, nil, err
			}
			val, err = applyFunctions(val)
			if err != nil {
				return nil, nil, fmt.Errorf("%s:%d: %w", stmt.File, stmt.Line, err)
			}
			if prev, ok := tbl.lastWrite[stmt.Name]; ok {
				c.log.Debug("Overriding variable",
					zap.String("name", stmt.Name), zap.Int("previous", prev), zap.String("file", stmt.File), zap.Int("line", stmt.Line))
			}
			tbl.set(stmt.Name, val, i)
			decls[i] = true
			lines[i] = stmt.Text

		default:
			out, err := resolveRefs(stmt.Text, stmt, tbl)
			if err != nil {
				return nil, nil, err
			}
			out, err = applyFunctions(out)
			if err != nil {
				return nil, nil, fmt.Errorf("%s:%d: %w", stmt.File, stmt.Line, err)
			}
			lines[i] = out
		}
	}
	return lines, decls, nil
}

// resolveRefs replaces every word-bounded $identifier occurrence in text with
// its current binding. Names are matched maximal-munch, so a lookup for
// $radius is never satisfied inside $radius2 and vice versa. Replacement
// values are not re-scanned. An unknown name is an error, not a blank
// substitution.
func resolveRefs(text string, stmt Statement, tbl *varTable) (string, error) {
	if !strings.ContainsRune(text, '$') {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		ch := text[i]
		if ch != '$' || i+1 >= len(text) || !isIdentStart(text[i+1]) {
			b.WriteByte(ch)
			i++
			continue
		}
		j := i + 1
		for j < len(text) && isIdentChar(text[j]) {
			j++
		}
		name := text[i+1 : j]
		val, ok := tbl.get(name)
		if !ok {
			return "", &UndefinedVariableError{Name: name, File: stmt.File, Line: stmt.Line}
		}
		b.WriteString(val)
		i = j
	}
	return b.String(), nil
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
