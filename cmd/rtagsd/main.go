// rtagsd maintains cross-reference databases for C/C++ codebases. It
// parses translation units with libclang and records definitions,
// references, inclusions and symbol names in four on-disk stores that
// later tools query for navigation.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/JamieCunliffe/rtags/internal/config"
	"github.com/JamieCunliffe/rtags/internal/indexer"
	"github.com/JamieCunliffe/rtags/internal/parser"
	"github.com/JamieCunliffe/rtags/internal/resource"
	"github.com/JamieCunliffe/rtags/internal/unitcache"
)

var (
	cfgFile string
	dataDir string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rtagsd",
	Short: "Cross-reference indexing daemon for C/C++ source",
	Long: `rtagsd indexes C/C++ translation units into on-disk databases so
that editors can resolve go-to-definition, find-references, find-includers
and symbol-by-name queries.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		log = config.NewLogger(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default rtagsd.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "root directory for the databases")
}

// newIndexer wires the full stack: parser, unit cache, resource store,
// coordinator.
func newIndexer(onDone func(int)) (*indexer.Indexer, *resource.Store, error) {
	clangParser, err := parser.New()
	if err != nil {
		return nil, nil, err
	}

	units, err := unitcache.New(clangParser, cfg.UnitCacheSize)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	resources, err := resource.Open(cfg.ResourcePath())
	if err != nil {
		return nil, nil, err
	}

	ix, err := indexer.New(cfg.DataDir, units, indexer.Options{
		Workers:        cfg.Workers,
		Resources:      resources,
		OnIndexingDone: onDone,
		Logger:         log,
	})
	if err != nil {
		resources.Close()
		return nil, nil, err
	}
	return ix, resources, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
