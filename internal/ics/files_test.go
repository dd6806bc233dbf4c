package ics

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("BEGIN:VCALENDAR\nEND:VCALENDAR\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ics"))
	writeFile(t, filepath.Join(dir, "b.ICAL")) // extension match is case-insensitive
	writeFile(t, filepath.Join(dir, "notes.txt"))
	writeFile(t, filepath.Join(dir, "sub", "c.ics"))

	flat, err := CollectFiles(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(flat) != 2 {
		t.Errorf("non-recursive collected %d files (%v), want 2", len(flat), flat)
	}

	deep, err := CollectFiles(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(deep) != 3 {
		t.Errorf("recursive collected %d files (%v), want 3", len(deep), deep)
	}
}

func TestCollectFilesSingle(t *testing.T) {
	dir := t.TempDir()
	ics := filepath.Join(dir, "cal.ics")
	txt := filepath.Join(dir, "cal.txt")
	writeFile(t, ics)
	writeFile(t, txt)

	got, err := CollectFiles(ics, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != ics {
		t.Errorf("CollectFiles(file) = %v", got)
	}

	got, err = CollectFiles(txt, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("CollectFiles(non-calendar file) = %v, want empty", got)
	}
}

func TestCollectFilesMissing(t *testing.T) {
	if _, err := CollectFiles(filepath.Join(t.TempDir(), "nope"), false); err == nil {
		t.Error("CollectFiles on a missing path: err = nil, want error")
	}
}

func TestCollectFilesDedupesSymlinks(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "a.ics")
	writeFile(t, real)
	if err := os.Symlink(real, filepath.Join(dir, "b.ics")); err != nil {
		t.Skipf("symlink not supported: %v", err)
	}

	got, err := CollectFiles(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("collected %d files (%v), want 1 after symlink dedup", len(got), got)
	}
}
