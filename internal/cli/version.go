package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version, Commit, and BuildDate are overridden at build time via
// -ldflags "-X github.com/zkprover/treechunk64/internal/cli.Version=...",
// the way the teacher's own cmd/ entrypoints expect a release pipeline to
// stamp them in rather than hardcoding a version string in source.
var (
	Version   = "0.1.0-dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display version information for treechunkd including the Go toolchain it was built with.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("treechunkd version %s\n", rootCmd.Version)
		fmt.Printf("Git commit:  %s\n", Commit)
		fmt.Printf("Build date:  %s\n", BuildDate)
		fmt.Printf("Go version:  %s\n", runtime.Version())
		fmt.Printf("OS/Arch:     %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.Version = Version
	rootCmd.AddCommand(versionCmd)
}
