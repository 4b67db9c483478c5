package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxkit/voxkit/pkg/auth"
	"github.com/voxkit/voxkit/pkg/cli"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login [embedding-file]",
	Short: "Authenticate and open a session",
	Long: `Authenticate and open a session.

In voice mode the argument (or stdin) is a JSON float array holding
the captured embedding; the matching enrolled identity is found by
similarity. In password mode pass --username and --password.

On success the session token is printed; pass it to resolve and
logout. A new login supersedes the user's previous session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := openCore()
		if err != nil {
			return err
		}
		defer done()

		cred := auth.Credential{Username: loginUsername, Password: loginPassword}
		if loginPassword == "" {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			if cred.Embedding, err = readEmbedding(path); err != nil {
				return err
			}
		}

		username, score, err := c.Auth.Authenticate(cmd.Context(), cred)
		if err != nil {
			if errors.Is(err, auth.ErrRejected) {
				cli.Warnf("not recognized (best score %.3f)", score)
			}
			return err
		}

		token, err := c.Sessions.Create(cmd.Context(), username)
		if err != nil {
			return err
		}
		if jsonOutput {
			return cli.PrintJSON(map[string]any{
				"username": username,
				"score":    score,
				"token":    token,
			})
		}
		cli.Okf("welcome, %s (score %.3f)", username, score)
		fmt.Println(token)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout <token>",
	Short: "Revoke a session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := openCore()
		if err != nil {
			return err
		}
		defer done()

		if err := c.Sessions.Revoke(cmd.Context(), args[0]); err != nil {
			return err
		}
		cli.Okf("logged out")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "username for password login")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password for password login")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
