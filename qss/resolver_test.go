package qss

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// mapRead serves file content from memory keyed by slash paths.
func mapRead(files map[string]string) ReadFileFunc {
	return func(path string) ([]byte, error) {
		if data, ok := files[filepath.ToSlash(path)]; ok {
			return []byte(data), nil
		}
		return nil, os.ErrNotExist
	}
}

func TestExpand_Flattening(t *testing.T) {
	comp := NewCompiler(nil, WithReadFile(mapRead(map[string]string{
		"/theme/main.qsspp":       "@import \"sub/colors.qsspp\";\nQWidget { color: $fg; }\n",
		"/theme/sub/colors.qsspp": "$fg: #ffffff;\n",
	})))

	seq, err := comp.expand("/theme/main.qsspp", "", nil)
	if err != nil {
		t.Fatalf("expand() error = %v", err)
	}
	if len(seq) != 2 {
		t.Fatalf("expand() produced %d statements, want 2", len(seq))
	}
	// the import statement itself leaves no line, imported content is spliced
	// in its place
	if seq[0].Kind != StatementDeclaration || seq[0].Name != "fg" || seq[0].Value != "#ffffff" {
		t.Errorf("statement 0 = %+v, want declaration of fg", seq[0])
	}
	if seq[0].File != "/theme/sub/colors.qsspp" || seq[0].Line != 1 {
		t.Errorf("statement 0 provenance = %s:%d, want /theme/sub/colors.qsspp:1", seq[0].File, seq[0].Line)
	}
	if seq[1].Kind != StatementRaw || seq[1].Text != "QWidget { color: $fg; }" {
		t.Errorf("statement 1 = %+v, want raw widget line", seq[1])
	}
	if seq[1].File != "/theme/main.qsspp" || seq[1].Line != 2 {
		t.Errorf("statement 1 provenance = %s:%d, want /theme/main.qsspp:2", seq[1].File, seq[1].Line)
	}
}

func TestExpand_ParentRelativeImport(t *testing.T) {
	comp := NewCompiler(nil, WithReadFile(mapRead(map[string]string{
		"/theme/dark/main.qsspp": "@import \"../common.qsspp\";\n",
		"/theme/common.qsspp":    "QWidget { margin: 0; }\n",
	})))

	seq, err := comp.expand("/theme/dark/main.qsspp", "", nil)
	if err != nil {
		t.Fatalf("expand() error = %v", err)
	}
	if len(seq) != 1 || seq[0].File != "/theme/common.qsspp" {
		t.Fatalf("expand() = %+v, want single statement from /theme/common.qsspp", seq)
	}
}

func TestExpand_TrailingContentAfterImport(t *testing.T) {
	comp := NewCompiler(nil, WithReadFile(mapRead(map[string]string{
		"/a.qsspp": "@import \"b.qsspp\"; /* palette */\n",
		"/b.qsspp": "$x: 1;\n",
	})))

	seq, err := comp.expand("/a.qsspp", "", nil)
	if err != nil {
		t.Fatalf("expand() error = %v", err)
	}
	if len(seq) != 1 || seq[0].Name != "x" {
		t.Fatalf("expand() = %+v, want declaration of x only", seq)
	}
}

func TestExpand_CRLF(t *testing.T) {
	comp := NewCompiler(nil, WithReadFile(mapRead(map[string]string{
		"/a.qsspp": "$x: 1;\r\nQWidget {}\r\n",
	})))

	seq, err := comp.expand("/a.qsspp", "", nil)
	if err != nil {
		t.Fatalf("expand() error = %v", err)
	}
	if len(seq) != 2 {
		t.Fatalf("expand() produced %d statements, want 2", len(seq))
	}
	if seq[0].Kind != StatementDeclaration || seq[0].Name != "x" {
		t.Errorf("statement 0 = %+v, want declaration of x", seq[0])
	}
	if seq[1].Text != "QWidget {}" {
		t.Errorf("statement 1 text = %q, want carriage return stripped", seq[1].Text)
	}
}

func TestExpand_Cycle(t *testing.T) {
	comp := NewCompiler(nil, WithReadFile(mapRead(map[string]string{
		"/a.qsspp": "@import \"b.qsspp\";\n",
		"/b.qsspp": "@import \"a.qsspp\";\n",
	})))

	_, err := comp.expand("/a.qsspp", "", nil)
	var cerr *ImportCycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("expand() error = %v, want *ImportCycleError", err)
	}
	want := []string{"/a.qsspp", "/b.qsspp", "/a.qsspp"}
	if !reflect.DeepEqual(cerr.Chain, want) {
		t.Errorf("cycle chain = %v, want %v", cerr.Chain, want)
	}
}

func TestExpand_SelfImport(t *testing.T) {
	comp := NewCompiler(nil, WithReadFile(mapRead(map[string]string{
		"/a.qsspp": "@import \"a.qsspp\";\n",
	})))

	_, err := comp.expand("/a.qsspp", "", nil)
	var cerr *ImportCycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("expand() error = %v, want *ImportCycleError", err)
	}
}

func TestExpand_MissingImport(t *testing.T) {
	comp := NewCompiler(nil, WithReadFile(mapRead(map[string]string{
		"/a.qsspp": "@import \"gone.qsspp\";\n",
	})))

	_, err := comp.expand("/a.qsspp", "", nil)
	var nerr *ImportNotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expand() error = %v, want *ImportNotFoundError", err)
	}
	if nerr.Path != "/gone.qsspp" || nerr.ReferencedFrom != "/a.qsspp" {
		t.Errorf("not found = %q from %q, want /gone.qsspp from /a.qsspp", nerr.Path, nerr.ReferencedFrom)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expand() error does not unwrap to os.ErrNotExist: %v", err)
	}
}

func TestExpand_DiamondImportsTwice(t *testing.T) {
	// a file reachable over two non-overlapping branches is not a cycle and
	// gets expanded each time
	comp := NewCompiler(nil, WithReadFile(mapRead(map[string]string{
		"/main.qsspp":   "@import \"a.qsspp\";\n@import \"b.qsspp\";\n",
		"/a.qsspp":      "@import \"shared.qsspp\";\n",
		"/b.qsspp":      "@import \"shared.qsspp\";\n",
		"/shared.qsspp": "$x: 1;\n",
	})))

	seq, err := comp.expand("/main.qsspp", "", nil)
	if err != nil {
		t.Fatalf("expand() error = %v", err)
	}
	if len(seq) != 2 {
		t.Fatalf("expand() produced %d statements, want shared content twice", len(seq))
	}
	for i, stmt := range seq {
		if stmt.Name != "x" || stmt.File != "/shared.qsspp" {
			t.Errorf("statement %d = %+v, want declaration of x from /shared.qsspp", i, stmt)
		}
	}
}

func TestExpand_DeclarationForms(t *testing.T) {
	tests := []struct {
		line  string
		decl  bool
		name  string
		value string
	}{
		{"$fg: #ffffff;", true, "fg", "#ffffff"},
		{"  $fg :  1px solid red;  ", true, "fg", "1px solid red"},
		{"$_private: x;", true, "_private", "x"},
		{"$v2: y;", true, "v2", "y"},
		{"$2bad: x;", false, "", ""},       // name must not start with a digit
		{"$fg: #ffffff", false, "", ""},    // missing terminator
		{"color: $fg;", false, "", ""},     // reference, not declaration
		{"$fg: ;", false, "", ""},          // empty value
		{"QWidget { a: b; }", false, "", ""},
	}
	for _, tc := range tests {
		comp := NewCompiler(nil, WithReadFile(mapRead(map[string]string{"/a.qsspp": tc.line + "\n"})))
		seq, err := comp.expand("/a.qsspp", "", nil)
		if err != nil {
			t.Fatalf("expand(%q) error = %v", tc.line, err)
		}
		if len(seq) != 1 {
			t.Fatalf("expand(%q) produced %d statements, want 1", tc.line, len(seq))
		}
		got := seq[0]
		if tc.decl {
			if got.Kind != StatementDeclaration || got.Name != tc.name || got.Value != tc.value {
				t.Errorf("expand(%q) = %+v, want declaration %s=%q", tc.line, got, tc.name, tc.value)
			}
		} else if got.Kind != StatementRaw {
			t.Errorf("expand(%q) = %+v, want raw statement", tc.line, got)
		}
	}
}
