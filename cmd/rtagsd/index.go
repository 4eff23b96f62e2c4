package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JamieCunliffe/rtags/internal/indexer"
	"github.com/JamieCunliffe/rtags/internal/pathutil"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index <file> [-- compiler args...]",
	Short: "Index one translation unit and wait for it to finish",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, resources, err := newIndexer(nil)
		if err != nil {
			return err
		}
		defer resources.Close()

		mode := indexer.Normal
		if indexForce {
			mode = indexer.Force
		}

		input := pathutil.Resolve(args[0])
		id := ix.Index(input, args[1:], mode)
		if id < 0 {
			ix.Close()
			return fmt.Errorf("index rejected for %s", input)
		}

		// Close drains the job and runs the final sync.
		ix.Close()
		fmt.Printf("indexed %s (job %d)\n", input, id)
		return nil
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex <file>",
	Short: "Reindex a file with its stored compile arguments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, resources, err := newIndexer(nil)
		if err != nil {
			return err
		}
		defer resources.Close()

		mode := indexer.Normal
		if indexForce {
			mode = indexer.Force
		}

		input := pathutil.Resolve(args[0])
		id := ix.Reindex(input, mode)
		if id < 0 {
			ix.Close()
			return fmt.Errorf("no stored compile arguments for %s", input)
		}

		ix.Close()
		fmt.Printf("reindexed %s (job %d)\n", input, id)
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "reparse from source even when a cached AST exists")
	reindexCmd.Flags().BoolVar(&indexForce, "force", false, "reparse from source even when a cached AST exists")
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(reindexCmd)
}
