package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local graph and layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop all cached parsed graphs and layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			count := 0
			kinds := map[string]int{}
			err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return nil // Skip errors, continue walking
				}
				if path == dir || info.IsDir() {
					return nil
				}
				kind := entryKind(path)
				if err := os.Remove(path); err == nil {
					count++
					kinds[kind]++
				}
				return nil
			})
			if err != nil {
				return err
			}

			// Clean up empty shard directories
			_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil || path == dir {
					return nil
				}
				if info.IsDir() {
					os.Remove(path)
				}
				return nil
			})

			printSuccess("Cleared %d cached entries", count)
			if kinds["graph"] > 0 || kinds["layout"] > 0 {
				printDetail("%d parsed graph(s), %d layout(s)", kinds["graph"], kinds["layout"])
			}
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// entryKind classifies a file cache entry by its payload: layout entries
// hold final frames (they carry a seq), graph entries hold serialized
// documents (nodes but no seq). The key in the file name is hashed, so the
// payload is the only place the kind survives.
func entryKind(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "other"
	}
	var entry struct {
		Data []byte `json:"data"`
	}
	if json.Unmarshal(raw, &entry) != nil || len(entry.Data) == 0 {
		return "other"
	}
	var peek struct {
		Seq   *int            `json:"seq"`
		Nodes json.RawMessage `json:"nodes"`
	}
	if json.Unmarshal(entry.Data, &peek) != nil {
		return "other"
	}
	switch {
	case peek.Seq != nil:
		return "layout"
	case len(peek.Nodes) > 0:
		return "graph"
	}
	return "other"
}
