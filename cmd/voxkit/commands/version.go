package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/voxkit/voxkit/pkg/cli"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := map[string]any{
			"version": "dev",
			"go":      runtime.Version(),
			"os":      runtime.GOOS,
			"arch":    runtime.GOARCH,
		}
		if jsonOutput {
			return cli.PrintJSON(info)
		}
		fmt.Printf("voxkit dev (%s %s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
