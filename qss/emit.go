package qss

import "strings"

// emit serializes the resolved sequence: drops every line at a recorded
// declaration index, optionally strips comments, collapses blank-line runs
// that resulted from stripping down to at most one blank line and trims a
// single leading/trailing blank line from the whole unit. Blank runs the
// author wrote deliberately (no stripping nearby) pass through verbatim.
func emit(lines []string, removed map[int]bool, stripComments bool) string {
	if stripComments {
		lines = stripAllComments(lines, removed)
	}

	type kept struct {
		text       string
		blank      bool
		afterStrip bool // a line was stripped since the last non-blank line
	}
	res := make([]kept, 0, len(lines))
	pending := false
	for i, ln := range lines {
		if removed[i] {
			pending = true
			continue
		}
		blank := strings.TrimSpace(ln) == ""
		res = append(res, kept{text: ln, blank: blank, afterStrip: pending})
		if !blank {
			pending = false
		}
	}

	out := make([]string, 0, len(res))
	for i := 0; i < len(res); {
		if !res[i].blank {
			out = append(out, res[i].text)
			i++
			continue
		}
		j, touched := i, false
		for j < len(res) && res[j].blank {
			touched = touched || res[j].afterStrip
			j++
		}
		if touched {
			out = append(out, "")
		} else {
			for k := i; k < j; k++ {
				out = append(out, res[k].text)
			}
		}
		i = j
	}

	if len(out) > 0 && strings.TrimSpace(out[0]) == "" {
		out = out[1:]
	}
	if n := len(out); n > 0 && strings.TrimSpace(out[n-1]) == "" {
		out = out[:n-1]
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

// stripAllComments removes /* */ spans, multi-line aware. A line whose whole
// content was a comment is marked removed so the blank-run collapsing above
// treats it like a stripped declaration.
func stripAllComments(lines []string, removed map[int]bool) []string {
	out := make([]string, len(lines))
	inComment := false
	for i, ln := range lines {
		hadComment := inComment
		var b strings.Builder
		for j := 0; j < len(ln); {
			if inComment {
				if k := strings.Index(ln[j:], "*/"); k >= 0 {
					j += k + 2
					inComment = false
				} else {
					j = len(ln)
				}
				continue
			}
			if strings.HasPrefix(ln[j:], "/*") {
				inComment = true
				hadComment = true
				j += 2
				continue
			}
			b.WriteByte(ln[j])
			j++
		}
		s := strings.TrimRight(b.String(), " \t")
		if hadComment && len(strings.TrimSpace(s)) == 0 && len(strings.TrimSpace(ln)) != 0 {
			removed[i] = true
			s = ""
		}
		out[i] = s
	}
	return out
}
