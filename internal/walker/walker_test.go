package walker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTree creates files under a temp dir. Keys are slash paths.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func relPaths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func TestWalk_FindsLessonFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"rivers.json":          `{"title":"Rivers"}`,
		"term1/volcanoes.json": `{"title":"Volcanoes"}`,
		"notes.txt":            "not a lesson",
	})

	files, err := Walk(Config{RootDir: root})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	got := strings.Join(relPaths(files), ",")
	if got != "rivers.json,term1/volcanoes.json" {
		t.Errorf("unexpected files %q", got)
	}

	f := files[0]
	if !filepath.IsAbs(f.Path) {
		t.Errorf("Path should be absolute, got %q", f.Path)
	}
	if f.Size != int64(len(`{"title":"Rivers"}`)) {
		t.Errorf("unexpected size %d", f.Size)
	}
	if len(f.ContentHash) != 64 {
		t.Errorf("expected sha256 hex digest, got %q", f.ContentHash)
	}
}

func TestWalk_Filters(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.json":              "{}",
		"drafts/b.json":       "{}",
		"node_modules/c.json": "{}",
		".git/d.json":         "{}",
		"ignored/e.json":      "{}",
		"lesson.lesson":       "{}",
		".gitignore":          "ignored/\n# comment\n",
	})

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"defaults", Config{}, "a.json,drafts/b.json"},
		{"exclude glob", Config{Exclude: []string{"drafts/**"}}, "a.json"},
		{"custom include", Config{Include: []string{"*.lesson"}}, "lesson.lesson"},
		{"size limit", Config{MaxFileSize: 1}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.RootDir = root
			files, err := Walk(tt.cfg)
			if err != nil {
				t.Fatalf("Walk() error: %v", err)
			}
			if got := strings.Join(relPaths(files), ","); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWalk_SkipsBinaryFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"ok.json":  "{}",
		"bin.json": "{\x00}",
	})
	files, err := Walk(Config{RootDir: root})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if got := strings.Join(relPaths(files), ","); got != "ok.json" {
		t.Errorf("unexpected files %q", got)
	}
}

func TestWalk_SingleFile(t *testing.T) {
	root := writeTree(t, map[string]string{"one.json": "{}"})
	files, err := Walk(Config{RootDir: filepath.Join(root, "one.json")})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "one.json" {
		t.Errorf("unexpected result %+v", files)
	}

	if _, err := Walk(Config{RootDir: filepath.Join(root, "missing")}); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestWalk_ContentHashConsistency(t *testing.T) {
	root := writeTree(t, map[string]string{"a.json": "{}", "b.json": "{}", "c.json": "[]"})
	files, err := Walk(Config{RootDir: root})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if files[0].ContentHash != files[1].ContentHash {
		t.Error("identical content should hash the same")
	}
	if files[0].ContentHash == files[2].ContentHash {
		t.Error("different content should hash differently")
	}
}

func TestMatchesInclude(t *testing.T) {
	if !MatchesInclude("anything.txt", nil) {
		t.Error("empty patterns should include everything")
	}
	if !MatchesInclude("deep/dir/x.json", []string{"*.json"}) {
		t.Error("base-name pattern should match nested file")
	}
	if !MatchesInclude("term1/a/x.json", []string{"term1/**/*.json"}) {
		t.Error("doublestar pattern should match")
	}
	if MatchesInclude("x.txt", []string{"*.json"}) {
		t.Error("x.txt should not match *.json")
	}
}

func TestMatchesExclude(t *testing.T) {
	if MatchesExclude("a.json", nil) {
		t.Error("empty patterns should exclude nothing")
	}
	if !MatchesExclude("drafts/a.json", []string{"drafts/**"}) {
		t.Error("drafts/** should exclude drafts/a.json")
	}
	if !MatchesExclude("x/.hidden.json", []string{"**/.*"}) {
		t.Error("**/.* should exclude dot files")
	}
}
