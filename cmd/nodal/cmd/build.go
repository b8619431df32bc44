package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nodalbuild/nodal"
	"github.com/nodalbuild/nodal/internal/cache"
	"github.com/nodalbuild/nodal/internal/config"
	"github.com/nodalbuild/nodal/internal/demo"
)

var (
	buildDir                string
	buildEntries            []string
	buildExternalPrefixes   []string
	buildPreserveModules    bool
	buildInlineDynamic      bool
	buildShimMissingExports bool
	buildNoTreeshake        bool
	buildCacheFile          string
	buildCacheExpiry        int
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Load, link, tree-shake, and chunk a directory of demo modules",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildDir, "dir", ".", "directory of demo source files")
	buildCmd.Flags().StringSliceVar(&buildEntries, "entry", nil, "entry point id, relative to --dir (repeatable)")
	buildCmd.Flags().StringSliceVar(&buildExternalPrefixes, "external-prefix", nil, "specifier prefix to always treat as external (repeatable)")
	buildCmd.Flags().BoolVar(&buildPreserveModules, "preserve-modules", false, "one chunk per included module")
	buildCmd.Flags().BoolVar(&buildInlineDynamic, "inline-dynamic-imports", false, "inline all dynamic imports into the single entry's chunk")
	buildCmd.Flags().BoolVar(&buildShimMissingExports, "shim-missing-exports", false, "shim unresolved named imports instead of failing the build")
	buildCmd.Flags().BoolVar(&buildNoTreeshake, "no-treeshake", false, "disable tree-shaking")
	buildCmd.Flags().StringVar(&buildCacheFile, "cache-file", "", "persist the module transform cache to this JSON file across runs")
	buildCmd.Flags().IntVar(&buildCacheExpiry, "cache-expiry", 10, "builds a cached module may go untouched before eviction")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(_ *cobra.Command, args []string) error {
	if len(buildEntries) == 0 {
		return fmt.Errorf("at least one --entry is required")
	}

	fs, err := loadDir(buildDir)
	if err != nil {
		return err
	}

	var plugins []config.Plugin
	for _, prefix := range buildExternalPrefixes {
		plugins = append(plugins, demo.ExternalizePrefix(prefix))
	}

	treeshake := config.DefaultTreeshake()
	treeshake.Enabled = !buildNoTreeshake

	opts := config.Options{
		Input:                   config.Input{List: buildEntries},
		Treeshake:               treeshake,
		ShimMissingExports:      buildShimMissingExports,
		PreserveModules:         buildPreserveModules,
		InlineDynamicImports:    buildInlineDynamic,
		ExperimentalCacheExpiry: buildCacheExpiry,
	}

	c, err := loadCacheFile(buildCacheFile)
	if err != nil {
		return err
	}

	result, err := nodal.Build(context.Background(), opts, plugins, demo.Parse, fs.ReadFile, c)
	if err != nil {
		return err
	}

	if err := saveCacheFile(buildCacheFile, c); err != nil {
		return err
	}

	for _, w := range result.Warnings {
		pterm.Warning.Println(w.String())
	}
	printChunks(result)
	return nil
}

// loadCacheFile reads a persisted module cache from a previous run (spec.md
// §6's warm-start input), or starts a fresh one when path is empty or the
// file does not yet exist.
func loadCacheFile(path string) (*cache.Set, error) {
	c := cache.NewSet()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache file: %w", err)
	}
	if err := c.Modules.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("parsing cache file %q: %w", path, err)
	}
	return c, nil
}

// saveCacheFile persists c.Modules back to path after Build has run Tick on
// it, so the next invocation can reuse transforms for unchanged modules.
func saveCacheFile(path string, c *cache.Set) error {
	if path == "" {
		return nil
	}
	data, err := c.Modules.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding cache file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func loadDir(dir string) (demo.FS, error) {
	fs := make(demo.FS)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		code, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		fs["/"+filepath.ToSlash(rel)] = string(code)
		return nil
	})
	return fs, err
}

func printChunks(result *nodal.Result) {
	data := pterm.TableData{{"chunk", "entry", "modules"}}
	for i, chunk := range result.Graph.Chunks {
		name := fmt.Sprintf("chunk-%d", i)
		if chunk.EntryModule != nil {
			name = chunk.EntryModule.ChunkAlias
		}
		var ids []string
		for _, m := range chunk.Modules {
			ids = append(ids, m.ID)
		}
		owner := ""
		if chunk.EntryModule != nil {
			owner = chunk.EntryModule.ID
		}
		data = append(data, []string{name, owner, strings.Join(ids, ", ")})
	}
	out, err := pterm.DefaultTable.WithHasHeader(true).WithData(data).Srender()
	if err != nil {
		pterm.Error.Println(err)
		return
	}
	pterm.DefaultSection.Println("chunks")
	pterm.Println(out)
}
