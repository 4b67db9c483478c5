package commands

import (
	"github.com/spf13/cobra"

	"github.com/voxkit/voxkit/pkg/auth"
	"github.com/voxkit/voxkit/pkg/cli"
)

var enrollPassword string

var enrollCmd = &cobra.Command{
	Use:   "enroll <username> [embedding-file]",
	Short: "Enroll a new user",
	Long: `Enroll a new user.

In voice mode the second argument (or stdin) is a JSON float array
holding the voice embedding. In password mode pass --password instead.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := openCore()
		if err != nil {
			return err
		}
		defer done()

		username := args[0]
		cred := auth.Credential{Username: username, Password: enrollPassword}
		if enrollPassword == "" {
			path := ""
			if len(args) > 1 {
				path = args[1]
			}
			if cred.Embedding, err = readEmbedding(path); err != nil {
				return err
			}
		}

		if err := c.Auth.Enroll(cmd.Context(), username, cred); err != nil {
			return err
		}
		if jsonOutput {
			return cli.PrintJSON(map[string]any{"username": username, "enrolled": true})
		}
		cli.Okf("enrolled %s", username)
		return nil
	},
}

func init() {
	enrollCmd.Flags().StringVar(&enrollPassword, "password", "", "enroll with a password instead of an embedding")
	rootCmd.AddCommand(enrollCmd)
}
