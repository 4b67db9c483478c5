package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voxkit/voxkit/pkg/cli"
	"github.com/voxkit/voxkit/pkg/grammar"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Inspect and validate grammars",
}

var grammarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the active grammar's commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := openCore()
		if err != nil {
			return err
		}
		defer done()

		defs := c.Grammar.Definitions()
		if jsonOutput {
			return cli.PrintJSON(defs)
		}

		w := newTabWriter()
		fmt.Fprintln(w, "CATEGORY\tINTENT\tPATTERNS")
		for _, d := range defs {
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.Category, d.Intent, strings.Join(d.Patterns, ", "))
		}
		return w.Flush()
	},
}

var grammarCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a grammar YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := grammar.LoadFile(args[0])
		if err != nil {
			return err
		}
		cli.Okf("%s: %d intents, %d patterns", args[0], len(g.Definitions()), len(g.AllPatterns()))
		return nil
	},
}

func init() {
	grammarCmd.AddCommand(grammarListCmd)
	grammarCmd.AddCommand(grammarCheckCmd)
	rootCmd.AddCommand(grammarCmd)
}
