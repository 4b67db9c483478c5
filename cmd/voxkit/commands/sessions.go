package commands

import (
	"github.com/spf13/cobra"

	"github.com/voxkit/voxkit/pkg/cli"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Session maintenance",
}

var sessionsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete revoked and expired session records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := openCore()
		if err != nil {
			return err
		}
		defer done()

		n, err := c.Sessions.PurgeExpired(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return cli.PrintJSON(map[string]int{"purged": n})
		}
		cli.Okf("purged %d session(s)", n)
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsPurgeCmd)
	rootCmd.AddCommand(sessionsCmd)
}
