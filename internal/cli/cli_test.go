package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/graphdrift/graphdrift/pkg/graph"
	"github.com/graphdrift/graphdrift/pkg/sink"
	"github.com/graphdrift/graphdrift/pkg/solver"
)

func newTestCLI() *CLI {
	return New(io.Discard, log.FatalLevel)
}

func TestRootCommand(t *testing.T) {
	c := newTestCLI()
	root := c.RootCommand()

	if root.Use != "graphdrift" {
		t.Errorf("root.Use = %q, want %q", root.Use, "graphdrift")
	}

	want := []string{"parse", "layout", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestNewCacheSelection(t *testing.T) {
	c := newTestCLI()
	cmd := c.parseCommand()
	cmd.SetContext(context.Background())

	backend, err := newCache(cmd, cacheFlags{noCache: true})
	if err != nil {
		t.Fatalf("newCache(noCache) error: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestApplyConfigFlags(t *testing.T) {
	c := newTestCLI()
	cmd := c.layoutCommand()

	if err := cmd.Flags().Set("seed", "9"); err != nil {
		t.Fatalf("set seed: %v", err)
	}
	if err := cmd.Flags().Set("workers", "3"); err != nil {
		t.Fatalf("set workers: %v", err)
	}

	fileCfg := solver.DefaultConfig()
	fileCfg.Seed = 1
	fileCfg.Workers = 8
	fileCfg.OuterIters = 25

	flagCfg := solver.DefaultConfig()
	flagCfg.Seed = 9
	flagCfg.Workers = 3

	applyConfigFlags(cmd, &fileCfg, flagCfg)

	if fileCfg.Seed != 9 {
		t.Errorf("Seed = %d, want flag value 9", fileCfg.Seed)
	}
	if fileCfg.Workers != 3 {
		t.Errorf("Workers = %d, want flag value 3", fileCfg.Workers)
	}
	if fileCfg.OuterIters != 25 {
		t.Errorf("OuterIters = %d, want file value 25", fileCfg.OuterIters)
	}
}

// writeTestDocument writes a small serialized graph for command tests.
func writeTestDocument(t *testing.T, dir string) string {
	t.Helper()
	doc := &graph.Document{
		Name: "test",
		Nodes: []graph.NodeDecl{
			{ID: "a", Attrs: []graph.Attr{{Name: "label", Value: "alpha"}}},
			{ID: "b"},
			{ID: "c"},
		},
		Edges: []graph.EdgeStmt{
			{Endpoints: []string{"a", "b"}},
			{Endpoints: []string{"b", "c"}},
		},
	}
	path := filepath.Join(dir, "graph.json")
	if err := graph.WriteDocumentFile(doc, path); err != nil {
		t.Fatalf("WriteDocumentFile() error: %v", err)
	}
	return path
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	docPath := writeTestDocument(t, dir)
	outPath := filepath.Join(dir, "out.json")

	c := newTestCLI()
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"parse", docPath, "--format", "json", "--no-cache", "-o", outPath})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("parse command error: %v", err)
	}

	doc, err := graph.ReadDocumentFile(outPath)
	if err != nil {
		t.Fatalf("ReadDocumentFile() error: %v", err)
	}
	if len(doc.Nodes) != 3 {
		t.Errorf("got %d nodes, want 3", len(doc.Nodes))
	}
}

func TestLayoutCommand(t *testing.T) {
	dir := t.TempDir()
	docPath := writeTestDocument(t, dir)
	outPath := filepath.Join(dir, "out.layout.json")
	framesPath := filepath.Join(dir, "frames.jsonl")

	c := newTestCLI()
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{
		"layout", docPath,
		"--format", "json",
		"--no-cache",
		"--seed", "7",
		"--max-dims", "4",
		"--outer-iters", "2",
		"--inner-iters", "1",
		"-o", outPath,
		"--frames", framesPath,
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("layout command error: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var final solver.Frame
	if err := json.Unmarshal(data, &final); err != nil {
		t.Fatalf("output is not a frame: %v", err)
	}
	if len(final.Nodes) != 3 {
		t.Errorf("final frame has %d nodes, want 3", len(final.Nodes))
	}
	if final.Dims != 3 {
		t.Errorf("final frame Dims = %d, want 3", final.Dims)
	}

	// max-dims 4 gives a single phase of outer-iters frames.
	f, err := os.Open(framesPath)
	if err != nil {
		t.Fatalf("open frames: %v", err)
	}
	defer f.Close()
	envs, err := sink.ReadJSONL(f)
	if err != nil {
		t.Fatalf("ReadJSONL() error: %v", err)
	}
	if len(envs) != 2 {
		t.Errorf("got %d frames, want 2", len(envs))
	}
	if final.Seq != 1 {
		t.Errorf("final.Seq = %d, want 1", final.Seq)
	}
}

func TestLayoutCommandMissingFile(t *testing.T) {
	c := newTestCLI()
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"layout", "/nonexistent/graph.dot", "--no-cache"})

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected error for missing input file")
	}
}
