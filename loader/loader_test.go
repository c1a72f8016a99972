package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rs")
	if err := os.WriteFile(path, []byte("fn main() {}"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Text != "fn main() {}" {
		t.Errorf("Text = %q", c.Text)
	}
	if c.DisplayName != "main.rs" {
		t.Errorf("DisplayName = %q, want main.rs", c.DisplayName)
	}
	if c.Language != "rust" {
		t.Errorf("Language = %q, want rust", c.Language)
	}
	if !filepath.IsAbs(c.Path) {
		t.Errorf("Path %q is not absolute", c.Path)
	}
}

func TestLoadFileNonexistent(t *testing.T) {
	_, err := LoadFile("/nonexistent/path/file.txt")
	var re *ReadError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *ReadError", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want to wrap fs.ErrNotExist", err)
	}
	if re.Path != "/nonexistent/path/file.txt" {
		t.Errorf("Path = %q", re.Path)
	}
}

func TestLoadFileDirectory(t *testing.T) {
	var re *ReadError
	if _, err := LoadFile(t.TempDir()); !errors.As(err, &re) {
		t.Errorf("LoadFile(dir) err = %v, want *ReadError", err)
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		name string
		want string
		ok   bool
	}{
		{"main.rs", "rust", true},
		{"x.c", "c", true},
		{"x.cpp", "cplusplus", true},
		{"x.cc", "cplusplus", true},
		{"x.cxx", "cplusplus", true},
		{"x.hpp", "cplusplus", true},
		{"x.py", "python", true},
		{"x.js", "javascript", true},
		{"x.ts", "typescript", true},
		{"x.java", "java", true},
		{"x.go", "go", true},
		{"x.cs", "csharp", true},
		{"README", "", false},
		{"notes.txt", "", false},
		{"archive.tar.rs", "rust", true},
	}
	for _, tc := range cases {
		got, ok := DetectLanguage(tc.name)
		if got != tc.want || ok != tc.ok {
			t.Errorf("DetectLanguage(%q) = (%q, %v), want (%q, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestReadDirOrder(t *testing.T) {
	root := t.TempDir()
	mustMkdir := func(p string) {
		if err := os.MkdirAll(filepath.Join(root, p), 0755); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	mustWrite := func(p string) {
		if err := os.WriteFile(filepath.Join(root, p), []byte("x"), 0644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	mustMkdir("zdir")
	mustMkdir("adir/inner")
	mustMkdir(".git")
	mustWrite("b.txt")
	mustWrite("a.txt")
	mustWrite("adir/z.go")
	mustWrite(".git/HEAD")

	entries, err := ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	want := []string{"adir", "zdir", "a.txt", "b.txt"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	adir := entries[0]
	if len(adir.Children) != 2 || adir.Children[0].Name != "inner" || adir.Children[1].Name != "z.go" {
		t.Errorf("adir children = %+v", adir.Children)
	}
}
