package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	perr "qabundle/internal/platform/errors"
	kit "qabundle/internal/platform/testkit"
)

func TestDiscover_LexicalFilesOnly(t *testing.T) {
	dir := kit.WriteFiles(t, map[string]string{
		"book3.json":     "{}",
		"book1.json":     "{}",
		"notes.txt":      "x",
		"nested/a.json":  "{}",
		"book10.json":    "{}",
		"dir.json/inner": "x",
	})

	got, err := NewDiscoverer(dir, "").Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	var names []string
	for _, s := range got {
		names = append(names, s.Name)
		if s.Path != filepath.Join(dir, s.Name) {
			t.Fatalf("path %q for %q", s.Path, s.Name)
		}
	}
	want := []string{"book1.json", "book10.json", "book3.json"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestDiscover_RecursivePattern(t *testing.T) {
	dir := kit.WriteFiles(t, map[string]string{"a/book2.json": "{}", "b.json": "{}"})
	got, err := NewDiscoverer(dir, "**/*.json").Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(got) != 2 || got[0].Name != "a/book2.json" || got[1].Name != "b.json" {
		t.Fatalf("got %+v", got)
	}
}

func TestDiscover_Errors(t *testing.T) {
	ctx := context.Background()
	missing := filepath.Join(t.TempDir(), "nope")
	if _, err := NewDiscoverer(missing, "").Discover(ctx); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing dir: %v", err)
	}

	file := filepath.Join(t.TempDir(), "f.json")
	if err := os.WriteFile(file, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewDiscoverer(file, "").Discover(ctx); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("file as dir: %v", err)
	}

	if _, err := NewDiscoverer(t.TempDir(), "[").Discover(ctx); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("bad pattern: %v", err)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := NewDiscoverer(t.TempDir(), "").Discover(cctx); err == nil {
		t.Fatalf("cancelled ctx should fail")
	}
}

func TestDiscover_EmptyDir(t *testing.T) {
	got, err := NewDiscoverer(t.TempDir(), "*.json").Discover(context.Background())
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v err %v", got, err)
	}
}
