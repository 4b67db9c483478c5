package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxkit/voxkit/pkg/cli"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage enrolled users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List enrolled users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := openCore()
		if err != nil {
			return err
		}
		defer done()

		profiles, err := c.Profiles.List(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return cli.PrintJSON(profiles)
		}

		w := newTabWriter()
		fmt.Fprintln(w, "USERNAME\tLABEL\tCREATED\tLAST LOGIN")
		for _, p := range profiles {
			last := "-"
			if !p.LastLogin.IsZero() {
				last = p.LastLogin.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				p.Username, p.Label, p.CreatedAt.Format("2006-01-02 15:04"), last)
		}
		return w.Flush()
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete an enrolled user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := openCore()
		if err != nil {
			return err
		}
		defer done()

		if err := c.Profiles.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		cli.Okf("deleted %s", args[0])
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersDeleteCmd)
	rootCmd.AddCommand(usersCmd)
}
