package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <digest>",
	Short: "Print a chunk's diagnostic dump",
	Long: `dump loads the chunk rooted at the given digest (64 hex characters)
from the configured store and prints its per-layer structure, the way
the original implementation's print() does.`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

var dumpLevel int

func init() {
	dumpCmd.Flags().IntVar(&dumpLevel, "level", 0, "tree level the digest is rooted at")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	digest, err := parseDigest(args[0])
	if err != nil {
		return err
	}

	store, err := openChunkStore()
	if err != nil {
		return err
	}
	defer store.Close()

	chunk, err := store.Get(context.Background(), dumpLevel, digest)
	if err != nil {
		return fmt.Errorf("loading chunk: %w", err)
	}

	if err := chunk.Decode(); err != nil {
		return fmt.Errorf("decoding chunk: %w", err)
	}
	if _, err := chunk.ComputeRoot(); err != nil {
		return fmt.Errorf("computing layers: %w", err)
	}

	fmt.Print(chunk.DiagnosticDump())
	return nil
}
