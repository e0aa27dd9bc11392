package qss

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	black = colorful.Color{R: 0, G: 0, B: 0}
)

// funcCall is a single recognized color function call site in a line.
type funcCall struct {
	name       string // lowercased: lighten, darken or alpha
	expr       string // full original call text, for diagnostics
	args       []string
	start, end int // byte extents within the line
}

// applyFunctions rewrites every recognized color function call in line with
// its evaluated literal. Nested calls are resolved innermost first; since a
// result is never itself a recognized call the loop always terminates.
func applyFunctions(line string) (string, error) {
	for {
		call, found := findInnermostCall(line)
		if !found {
			return line, nil
		}
		repl, err := evaluate(call)
		if err != nil {
			return "", err
		}
		line = line[:call.start] + repl + line[call.end:]
	}
}

func isColorFunction(name string) bool {
	switch name {
	case "lighten", "darken", "alpha":
		return true
	}
	return false
}

// findInnermostCall tokenizes the line with the CSS lexer and returns the
// first recognized call that contains no nested recognized call. Going
// through the lexer (instead of plain substring search) keeps function-like
// text inside strings, urls and comments from being evaluated.
func findInnermostCall(line string) (funcCall, bool) {
	type frame struct {
		name       string
		start      int
		recognized bool
		nested     bool
	}

	l := css.NewLexer(parse.NewInput(strings.NewReader(line)))
	var stack []frame
	offset := 0
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			// end of line or unbalanced input
			return funcCall{}, false

		case css.FunctionToken:
			name := strings.ToLower(strings.TrimSuffix(string(data), "("))
			recognized := isColorFunction(name)
			if recognized {
				for i := range stack {
					if stack[i].recognized {
						stack[i].nested = true
					}
				}
			}
			stack = append(stack, frame{name: name, start: offset, recognized: recognized})

		case css.LeftParenthesisToken:
			stack = append(stack, frame{})

		case css.RightParenthesisToken:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.recognized && !top.nested {
					end := offset + len(data)
					return funcCall{
						name:  top.name,
						expr:  line[top.start:end],
						args:  splitArgs(line[top.start+len(top.name)+1 : end-1]),
						start: top.start,
						end:   end,
					}, true
				}
			}
		}
		offset += len(data)
	}
}

// splitArgs splits a call body at top-level commas.
func splitArgs(body string) []string {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	var args []string
	depth, last := 0, 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(body[last:i]))
				last = i + 1
			}
		}
	}
	return append(args, strings.TrimSpace(body[last:]))
}

// evaluate maps (operation, color literal, parameter) to the output literal.
// lighten moves each channel toward 255 by pct percent of the remaining
// distance, darken scales each channel by (1-pct/100) - a linear channel
// blend, documented as such. alpha re-emits the channels as rgba() with the
// given fraction. Malformed input is an error; only valid-but-extreme
// numeric results are clamped.
func evaluate(call funcCall) (string, error) {
	if len(call.args) != 2 {
		return "", &InvalidColorExpressionError{Expr: call.expr, Reason: fmt.Sprintf("expected 2 arguments, got %d", len(call.args))}
	}

	col, lower, err := parseColorLiteral(call.args[0], call.expr)
	if err != nil {
		return "", err
	}

	switch call.name {
	case "lighten":
		f, err := parsePercent(call.args[1], call.expr)
		if err != nil {
			return "", err
		}
		return formatHex(col.BlendRgb(white, f), lower), nil

	case "darken":
		f, err := parsePercent(call.args[1], call.expr)
		if err != nil {
			return "", err
		}
		return formatHex(col.BlendRgb(black, f), lower), nil

	case "alpha":
		f, err := parseFraction(call.args[1], call.expr)
		if err != nil {
			return "", err
		}
		r, g, b := col.RGB255()
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(f, 'g', -1, 64)), nil
	}

	// unreachable, findInnermostCall only returns recognized names
	return "", &InvalidColorExpressionError{Expr: call.expr, Reason: "unknown function"}
}

// parseColorLiteral accepts #rgb and #rrggbb literals, case-insensitive, the
// leading # optional. The second result reports whether the literal used
// lowercase hex digits so output can preserve the casing style.
func parseColorLiteral(lit, expr string) (colorful.Color, bool, error) {
	s := strings.TrimPrefix(strings.TrimSpace(lit), "#")
	if len(s) == 3 {
		var b strings.Builder
		for _, ch := range s {
			b.WriteRune(ch)
			b.WriteRune(ch)
		}
		s = b.String()
	}
	if len(s) != 6 {
		return colorful.Color{}, false, &InvalidColorExpressionError{Expr: expr, Reason: fmt.Sprintf("invalid color literal %q", lit)}
	}
	col, err := colorful.Hex("#" + s)
	if err != nil {
		return colorful.Color{}, false, &InvalidColorExpressionError{Expr: expr, Reason: fmt.Sprintf("invalid color literal %q", lit)}
	}
	lower := strings.ContainsAny(s, "abcdef") && !strings.ContainsAny(s, "ABCDEF")
	return col, lower, nil
}

// parsePercent parses lighten/darken parameters: an integer or decimal
// percentage in [0,100], with or without the % suffix. Returns the fraction.
func parsePercent(arg, expr string) (float64, error) {
	s := strings.TrimSpace(arg)
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &InvalidColorExpressionError{Expr: expr, Reason: fmt.Sprintf("invalid percentage %q", arg)}
	}
	if v < 0 || v > 100 {
		return 0, &InvalidColorExpressionError{Expr: expr, Reason: fmt.Sprintf("percentage %q out of range [0,100]", arg)}
	}
	return v / 100, nil
}

// parseFraction parses the alpha parameter: a decimal in [0,1], or a
// percentage that lands in that range after division by 100.
func parseFraction(arg, expr string) (float64, error) {
	s := strings.TrimSpace(arg)
	pct := strings.HasSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, &InvalidColorExpressionError{Expr: expr, Reason: fmt.Sprintf("invalid alpha fraction %q", arg)}
	}
	if pct {
		v /= 100
	}
	if v < 0 || v > 1 {
		return 0, &InvalidColorExpressionError{Expr: expr, Reason: fmt.Sprintf("alpha fraction %q out of range [0,1]", arg)}
	}
	return v, nil
}

func formatHex(c colorful.Color, lower bool) string {
	r, g, b := c.Clamped().RGB255()
	if lower {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
