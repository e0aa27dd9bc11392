package config

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}

func TestReport_Finalize(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "report.zip")
	conf := &ReporterConfig{Destination: dest}

	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if r.Name() != dest {
		t.Errorf("Name() = %q, want %q", r.Name(), dest)
	}

	// a stored path entry pointing at a real file
	stored := filepath.Join(t.TempDir(), "final.log")
	if err := os.WriteFile(stored, []byte("log line\n"), 0644); err != nil {
		t.Fatal(err)
	}
	r.Store("final.log", stored)
	// and an absent one - must be quietly skipped
	r.Store("missing.log", filepath.Join(t.TempDir(), "gone.log"))

	r.StoreData("result/a.qss", []byte("QWidget {}\n"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	arc, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatalf("report is not a readable archive: %v", err)
	}
	defer arc.Close()

	names := make(map[string]bool)
	for _, f := range arc.File {
		names[f.Name] = true
	}
	for _, want := range []string{"MANIFEST", "final.log", "result/a.qss"} {
		if !names[want] {
			t.Errorf("archive is missing %q, has %v", want, names)
		}
	}
	if names["missing.log"] {
		t.Error("archive should not contain entries for absent files")
	}
}

func TestReport_StoreDataVersionsDuplicates(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}

	r.StoreData("result/a.qss", []byte("one"))
	r.StoreData("result/a.qss", []byte("two"))

	if len(r.entries) != 2 {
		t.Errorf("entries = %d, want duplicate name versioned into a second entry", len(r.entries))
	}
	if _, exists := r.entries["result/a.qss"]; !exists {
		t.Error("original entry name should be preserved")
	}
}

func TestReport_StorePanicsOnConflict(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("final.log", "/tmp/a.log")

	defer func() {
		if recover() == nil {
			t.Error("Store() should panic when the same name points at a different path")
		}
	}()
	r.Store("final.log", "/tmp/b.log")
}

func TestReport_NilSafeOperations(t *testing.T) {
	var r *Report

	// none of these should panic on a nil report
	r.Store("x", "/tmp/x")
	r.StoreData("y", []byte("data"))
	if r.Name() != "" {
		t.Errorf("Name() on nil report = %q, want empty", r.Name())
	}
}
