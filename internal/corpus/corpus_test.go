package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestWalkFindsGoFilesAndSkipsNoise(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "pkg", "util.go"), "package pkg\n")
	writeFile(t, filepath.Join(root, "README.md"), "# readme\n")
	writeFile(t, filepath.Join(root, "vendor", "dep.go"), "package dep\n")
	writeFile(t, filepath.Join(root, "testdata", "fixture.go"), "package fixture\n")
	writeFile(t, filepath.Join(root, ".hidden", "secret.go"), "package secret\n")

	files, err := Walk(root)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	got := make(map[string]SourceFile)
	for _, f := range files {
		got[f.RelPath] = f
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(got), got)
	}
	if _, ok := got["main.go"]; !ok {
		t.Errorf("expected main.go in results")
	}
	if _, ok := got[filepath.Join("pkg", "util.go")]; !ok {
		t.Errorf("expected pkg/util.go in results")
	}
}

func TestWalkDigestsDetectChanges(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	writeFile(t, path, "package main\n")

	before, err := Walk(root)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	writeFile(t, path, "package main\n\nfunc main() {}\n")
	after, err := Walk(root)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	if before[0].Digest == after[0].Digest {
		t.Errorf("expected digest to change when content changes")
	}

	same, err := Walk(root)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	if same[0].Digest != after[0].Digest {
		t.Errorf("expected digest to be stable for unchanged content")
	}
}

func TestIsSourceFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"main.go", true},
		{"util_test.go", true},
		{"notes.txt", false},
		{".hidden.go", false},
		{"go", false},
	}
	for _, tt := range tests {
		if got := IsSourceFile(tt.name); got != tt.want {
			t.Errorf("IsSourceFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
