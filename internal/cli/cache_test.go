package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/graphdrift/graphdrift/pkg/cache"
	"github.com/graphdrift/graphdrift/pkg/graph"
	"github.com/graphdrift/graphdrift/pkg/solver"
)

// seedCacheDir fills the CLI cache directory with one parsed graph entry
// and one layout entry.
func seedCacheDir(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	defer fc.Close()

	ctx := context.Background()
	docData, err := json.Marshal(&graph.Document{Nodes: []graph.NodeDecl{{ID: "a"}}})
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Set(ctx, "graph:abc", docData, cache.TTLGraph); err != nil {
		t.Fatalf("Set(graph) error: %v", err)
	}

	frameData, err := json.Marshal(&solver.Frame{Seq: 0, Dims: 3})
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Set(ctx, "layout:def", frameData, cache.TTLLayout); err != nil {
		t.Fatalf("Set(layout) error: %v", err)
	}

	return dir
}

func cacheFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("walk cache dir: %v", err)
	}
	return files
}

func TestEntryKind(t *testing.T) {
	dir := seedCacheDir(t)

	kinds := map[string]int{}
	for _, path := range cacheFiles(t, dir) {
		kinds[entryKind(path)]++
	}
	if kinds["graph"] != 1 {
		t.Errorf("classified %d graph entries, want 1", kinds["graph"])
	}
	if kinds["layout"] != 1 {
		t.Errorf("classified %d layout entries, want 1", kinds["layout"])
	}
}

func TestEntryKindUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := entryKind(path); got != "other" {
		t.Errorf("entryKind(corrupt) = %q, want other", got)
	}
	if got := entryKind(filepath.Join(t.TempDir(), "missing.json")); got != "other" {
		t.Errorf("entryKind(missing) = %q, want other", got)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := seedCacheDir(t)
	if got := len(cacheFiles(t, dir)); got != 2 {
		t.Fatalf("seeded %d cache files, want 2", got)
	}

	c := newTestCLI()
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"cache", "clear"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}

	if got := len(cacheFiles(t, dir)); got != 0 {
		t.Errorf("%d cache files survived clear, want 0", got)
	}
}
